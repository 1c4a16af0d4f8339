package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/greencity/waste-pickup/internal/auth"
	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/models"
)

// Seeds the initial administrator account and the default system
// settings document. Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "waste_pickup"
	}
	database := client.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	settings := &db.MongoSettingsCollection{Collection: database.Collection("system_settings")}
	if _, err := settings.GetConfig(ctx); err != nil {
		log.WithError(err).Fatal("failed to materialize system settings")
	}
	log.Info("system settings in place")

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@greencity.local"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}

	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	if _, err := users.FindUserByEmail(ctx, adminEmail); err == nil {
		log.WithField("email", adminEmail).Info("admin account already exists")
		return
	}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("failed to create auth service")
	}
	hash, err := authService.HashPassword(adminPassword)
	if err != nil {
		log.WithError(err).Fatal("failed to hash admin password")
	}

	admin := models.User{
		Name:         "System Administrator",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := users.InsertUser(ctx, admin); err != nil {
		log.WithError(err).Fatal("failed to create admin account")
	}
	log.WithField("email", adminEmail).Info("admin account created")
}
