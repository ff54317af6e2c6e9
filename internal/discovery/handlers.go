package discovery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/veiledapp/veiled-backend/internal/auth"
	"github.com/veiledapp/veiled-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetDiscovery(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := &DiscoveryParams{
		DistanceKm: queryFloat(r, "distance_km", DefaultRadiusKm, MinRadiusKm, MaxRadiusKm),
		SortBy:     r.URL.Query().Get("sort_by"),
		Limit:      queryInt(r, "limit", DefaultPageSize, 1, MaxPageSize),
		Offset:     queryInt(r, "offset", 0, 0, 1<<30),
	}

	switch params.SortBy {
	case "":
		params.SortBy = SortByDistance
	case SortByDistance, SortByCompatibility:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "sort_by must be distance or compatibility")
		return
	}

	page, err := h.service.Discover(r.Context(), viewerID, params)
	if err != nil {
		if err == ErrLocationNotSet {
			utils.RespondWithError(w, http.StatusBadRequest, "User location not set")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build discovery feed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, page)
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := &PageParams{
		Limit:  queryInt(r, "limit", DefaultPageSize, 1, MaxPageSize),
		Offset: queryInt(r, "offset", 0, 0, 1<<30),
	}

	page, err := h.service.Recommend(r.Context(), viewerID, params)
	if err != nil {
		if err == ErrLocationNotSet {
			utils.RespondWithError(w, http.StatusBadRequest, "Location not set. Please update your location first.")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recommendations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, page)
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID := mux.Vars(r)["userId"]
	if _, err := uuid.Parse(targetID); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.service.Compatibility(r.Context(), viewerID, targetID)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		case ErrBlocked:
			utils.RespondWithError(w, http.StatusForbidden, "Cannot view compatibility")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to calculate compatibility")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filters, err := h.service.GetFilters(r.Context(), viewerID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get filters")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, filters)
}

func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto UpdateFiltersDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters, err := h.service.UpdateFilters(r.Context(), viewerID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, filters)
}

// queryInt reads an integer query parameter, clamping to [min, max].
func queryInt(r *http.Request, key string, def, min, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// queryFloat reads a float query parameter, clamping to [min, max].
func queryFloat(r *http.Request, key string, def, min, max float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
