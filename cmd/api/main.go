package main

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/Vulture98/student-courses-backend/internal/auth"
	"github.com/Vulture98/student-courses-backend/internal/config"
	"github.com/Vulture98/student-courses-backend/internal/database"
	"github.com/Vulture98/student-courses-backend/internal/handlers"
	"github.com/Vulture98/student-courses-backend/internal/realtime"
	"github.com/Vulture98/student-courses-backend/internal/routes"
	"github.com/Vulture98/student-courses-backend/internal/service"
	"github.com/Vulture98/student-courses-backend/internal/store"
	"github.com/Vulture98/student-courses-backend/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	auth.Init(cfg.JWTSecret)

	// Connect to MongoDB
	client, err := database.ConnectMongoDB(cfg.MongoURI)
	if err != nil {
		logger.Fatal("connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("disconnect from MongoDB", zap.Error(err))
		}
	}()

	// Stores
	users := store.NewUserStore(client, cfg.DatabaseName)
	courses := store.NewCourseStore(client, cfg.DatabaseName)
	notifications := store.NewNotificationStore(client, cfg.DatabaseName)

	// Realtime layer
	registry := realtime.NewRegistry(logger)
	notifier := realtime.NewNotifier(registry, logger)

	// Assignment orchestrator
	assignments := service.NewAssignmentService(users, courses, notifications, notifier, logger)

	mailer := utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	router := routes.SetupRouter(routes.Handlers{
		Users:         handlers.NewUserHandler(users, courses, mailer, logger),
		Courses:       handlers.NewCourseHandler(courses),
		Assign:        handlers.NewAssignHandler(assignments),
		Notifications: handlers.NewNotificationHandler(notifications),
		WS:            realtime.ServeWS(registry, logger, cfg.Origin),
	})

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, c.Handler(router)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
