package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"warehouse-backend/internal/auth"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/handlers"
	"warehouse-backend/internal/middleware"
)

// workflowPattern restricts {workflow} to the registered workflow names.
const workflowPattern = "{workflow:putaway|return}"

func NewRouter(
	sessionHandler *handlers.SessionHandler,
	locationHandler *handlers.LocationHandler,
	healthHandler *handlers.HealthHandler,
	hub *events.Hub,
	authMiddleware *middleware.AuthMiddleware,
	logger *logrus.Logger,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery(logger))
	r.Use(middleware.MetricsMiddleware)

	supervisors := authMiddleware.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)

	// Session workbench
	sessionsAPI := r.PathPrefix("/api/" + workflowPattern + "/{ref}").Subrouter()
	sessionsAPI.Use(authMiddleware.Authenticate)
	sessionsAPI.HandleFunc("/sessions", sessionHandler.List).Methods("GET")
	sessionsAPI.HandleFunc("/sessions", sessionHandler.Save).Methods("POST")
	sessionsAPI.HandleFunc("/sessions/{sid}/entries/{eid}", sessionHandler.UpdateEntry).Methods("PATCH")
	sessionsAPI.Handle("/sessions/{sid}", supervisors(http.HandlerFunc(sessionHandler.Delete))).Methods("DELETE")
	sessionsAPI.HandleFunc("/sessions/{sid}/sheet", sessionHandler.Sheet).Methods("GET")
	sessionsAPI.HandleFunc("/export", sessionHandler.Export).Methods("GET")

	// Warehouse locations
	warehousesAPI := r.PathPrefix("/api/warehouses").Subrouter()
	warehousesAPI.Use(authMiddleware.Authenticate)
	warehousesAPI.HandleFunc("", locationHandler.ListWarehouses).Methods("GET")
	warehousesAPI.HandleFunc("/{id}/tree", locationHandler.Tree).Methods("GET")
	warehousesAPI.Handle("/{id}/layout", authMiddleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(locationHandler.GenerateLayout))).Methods("POST")

	// Live session events
	r.Handle("/ws/sessions", authMiddleware.Authenticate(http.HandlerFunc(hub.ServeWS))).Methods("GET")

	// Health endpoints (no auth)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
