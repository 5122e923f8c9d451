package main

import (
	"context"
	"flag"
	"log"
	"taskBoard/internal/app"
	"taskBoard/internal/config"
	"taskBoard/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yml", "путь к yaml-файлу конфигурации")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	ctx := context.Background()

	application, err := app.New(cfg).Init(ctx)
	if err != nil {
		log.Fatalf("Ошибка инициализации приложения: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Приложение завершилось с ошибкой", err)
		logger.Sync()
		log.Fatal(err)
	}
}
