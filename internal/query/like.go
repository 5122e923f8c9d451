package query

import "strings"

// MatchLike проверяет шаблон Like в памяти так же, как SQL LIKE
// (с учётом регистра, без escape-символа).
func MatchLike(pattern, s string) bool {
	p := []rune(pattern)
	v := []rune(s)

	// классический жадный алгоритм с откатом к последнему %
	pi, vi := 0, 0
	star, mark := -1, 0
	for vi < len(v) {
		switch {
		case pi < len(p) && (p[pi] == '_' || p[pi] == v[vi]) && p[pi] != '%':
			pi++
			vi++
		case pi < len(p) && p[pi] == '%':
			star = pi
			mark = vi
			pi++
		case star != -1:
			pi = star + 1
			mark++
			vi = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '%' {
		pi++
	}
	return pi == len(p)
}

// Contains строит шаблон подстроки для текстового поиска
func Contains(text string) Like {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte('%')
	b.WriteString(text)
	b.WriteByte('%')
	return Like{Pattern: b.String()}
}
