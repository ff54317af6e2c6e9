package location

import (
	"github.com/gorilla/mux"

	"github.com/veiledapp/veiled-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/location", handler.GetLocation).Methods("GET")
	api.HandleFunc("/location", handler.UpdateLocation).Methods("PUT")
}
