package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/poketeams/pokedex-api/catalog"
	"github.com/poketeams/pokedex-api/models"
)

type CatalogHandler struct {
	engine *catalog.Engine
	source catalog.Source
}

func NewCatalogHandler(engine *catalog.Engine, source catalog.Source) *CatalogHandler {
	return &CatalogHandler{engine: engine, source: source}
}

// List serves GET /api/pokemon with optional search, type and gen
// filters plus limit/offset pagination.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := models.CatalogQuery{
		Generation: r.URL.Query().Get("gen"),
		Type:       r.URL.Query().Get("type"),
		Search:     r.URL.Query().Get("search"),
		Limit:      queryInt(r, "limit", catalog.DefaultPageLimit),
		Offset:     queryInt(r, "offset", 0),
	}

	page, err := h.engine.Query(r.Context(), q)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, page, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Detail serves GET /api/pokemon/{idOrName}, a pass-through enrichment
// lookup against the catalog source.
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	idOrName := chi.URLParam(r, "idOrName")

	detail, err := h.source.Detail(r.Context(), idOrName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, detail, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
