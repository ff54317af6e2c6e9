package location

import (
	"encoding/json"
	"net/http"

	"github.com/veiledapp/veiled-backend/internal/auth"
	"github.com/veiledapp/veiled-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto UpdateLocationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	loc, err := h.service.UpdateLocation(r.Context(), userID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update location")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, loc)
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	loc, err := h.service.GetLocation(r.Context(), userID)
	if err != nil {
		if err == ErrLocationNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Location not set")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get location")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, loc)
}
