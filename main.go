package main

import (
	"time"

	"markiz-admin/config"
	"markiz-admin/database"
	"markiz-admin/logger"
	"markiz-admin/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: " + err.Error())
	}

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       10 * 1024 * 1024, // 10MB body limit
	})

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, db, cfg)

	logger.Success("Server is running on ip: " + cfg.AppHost + " port: " + cfg.AppPort +
		"\n\t\t\t\t\t\t******************************************************************************************\n")

	if err := app.Listen(cfg.AppHost + ":" + cfg.AppPort); err != nil {
		logger.Error("Server stopped", err)
	}
}
