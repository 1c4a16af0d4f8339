package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/greencity/waste-pickup/internal/audit"
	"github.com/greencity/waste-pickup/internal/auth"
	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/gate"
	"github.com/greencity/waste-pickup/internal/handlers"
	"github.com/greencity/waste-pickup/internal/lifecycle"
	"github.com/greencity/waste-pickup/internal/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}
	log.SetFormatter(&log.JSONFormatter{})

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	log.Info("connected to MongoDB")

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "waste_pickup"
	}
	database := client.Database(dbName)

	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	pickups := &db.MongoPickupCollection{Collection: database.Collection("pickups")}
	issues := &db.MongoIssueCollection{Collection: database.Collection("issues")}
	auditLogs := &db.MongoAuditCollection{Collection: database.Collection("admin_activity_logs")}
	settings := &db.MongoSettingsCollection{Collection: database.Collection("system_settings")}

	recorder := audit.NewRecorder(auditLogs, users)
	lifecycleSvc := lifecycle.NewService(pickups, recorder)
	featureGate := gate.NewFeatureGate(settings)

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("failed to create auth service")
	}

	authHandler := handlers.NewAuthHandler(authService, users)
	pickupHandler := handlers.NewPickupHandler(lifecycleSvc, pickups, users)
	adminHandler := handlers.NewAdminPickupHandler(lifecycleSvc, pickups)
	issueHandler := handlers.NewIssueHandler(issues, users, recorder)
	settingsHandler := handlers.NewSettingsHandler(settings, recorder)
	auditHandler := handlers.NewAuditHandler(recorder)

	authMW := middleware.NewAuthMiddleware(authService)
	gateMW := middleware.NewGateMiddleware(featureGate)
	rateLimiter := middleware.NewRateLimitMiddleware()

	schedulingGate := gateMW.RequireCapability(gate.CapabilityPickupScheduling)
	reportingGate := gateMW.RequireCapability(gate.CapabilityIssueReporting)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// Auth (rate limited, no token required)
	loginLimit := rateLimiter.RateLimit(10, 60)
	r.Handle("/api/auth/login", loginLimit(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)
	r.Handle("/api/auth/register", loginLimit(http.HandlerFunc(authHandler.Register))).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/profile", authHandler.GetProfile).Methods(http.MethodGet)

	// Resident pickup routes. Writes pass the feature gate; reads do not.
	r.Handle("/api/pickups", schedulingGate(http.HandlerFunc(pickupHandler.Create))).Methods(http.MethodPost)
	r.HandleFunc("/api/pickups/my-pickups", pickupHandler.MyPickups).Methods(http.MethodGet)
	r.Handle("/api/pickups/{id}/cancel", schedulingGate(http.HandlerFunc(pickupHandler.Cancel))).Methods(http.MethodPatch)

	// Resident issue routes, same gate discipline.
	r.Handle("/api/issues", reportingGate(http.HandlerFunc(issueHandler.Create))).Methods(http.MethodPost)
	r.HandleFunc("/api/issues/my", issueHandler.MyIssues).Methods(http.MethodGet)

	// Admin routes
	admin := func(h http.HandlerFunc) http.Handler { return authMW.RequireAdmin(h) }
	r.Handle("/api/admin/pickups", admin(adminHandler.List)).Methods(http.MethodGet)
	r.Handle("/api/admin/pickups/{id}", admin(adminHandler.Get)).Methods(http.MethodGet)
	r.Handle("/api/admin/pickups/{id}/status", admin(adminHandler.UpdateStatus)).Methods(http.MethodPatch)
	r.Handle("/api/admin/issues", admin(issueHandler.List)).Methods(http.MethodGet)
	r.Handle("/api/admin/issues/{id}/status", admin(issueHandler.UpdateStatus)).Methods(http.MethodPatch)
	r.Handle("/api/admin/settings", admin(settingsHandler.Get)).Methods(http.MethodGet)
	r.Handle("/api/admin/settings", admin(settingsHandler.Update)).Methods(http.MethodPut)
	r.Handle("/api/admin/logs", admin(auditHandler.List)).Methods(http.MethodGet)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, authMW.Authenticate(r)))
}
