// Package main is the entry point for the lendcore server. It loads
// configuration, connects storage and starts the HTTP surface around
// the accounting core.
package main

import (
	"log"

	"lendcore/internal/config"
	"lendcore/internal/repositories"
	"lendcore/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "lendcore",
		ErrorHandler: fiber.DefaultErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.SetupRoutes(app)

	port := config.GetEnv("PORT", "8080")
	log.Printf("lendcore listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
