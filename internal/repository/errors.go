package repository

import "errors"

var ErrNotFound = errors.New("не найдено")
