package discovery

import (
	"github.com/gorilla/mux"

	"github.com/veiledapp/veiled-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Feeds
	api.HandleFunc("/discovery", handler.GetDiscovery).Methods("GET")
	api.HandleFunc("/recommendations", handler.GetRecommendations).Methods("GET")

	// Compatibility
	api.HandleFunc("/recommendations/{userId}/compatibility", handler.GetCompatibility).Methods("GET")

	// Saved search filters
	api.HandleFunc("/filters", handler.GetFilters).Methods("GET")
	api.HandleFunc("/filters", handler.UpdateFilters).Methods("PUT")
}
