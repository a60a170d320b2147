package handlers

import (
	"net/http"

	"github.com/poketeams/pokedex-api/services"
)

type HealthHandler struct {
	gateway *services.Gateway
}

func NewHealthHandler(gateway *services.Gateway) *HealthHandler {
	return &HealthHandler{gateway: gateway}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := jsonResponse{
		"status": "ok",
		"mode":   h.gateway.Mode(),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
