package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/example/jojopasta/internal/config"
	"github.com/example/jojopasta/internal/database"
	"github.com/example/jojopasta/internal/handlers"
	"github.com/example/jojopasta/internal/routes"
	"github.com/example/jojopasta/internal/utils"
)

func main() {
	utils.InitLogger()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "JoJo Pasta Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg)

	logrus.WithField("port", cfg.AppPort).Info("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
