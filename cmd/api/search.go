package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fiscofacil/ncm-indexer/internal/cache"
	"github.com/fiscofacil/ncm-indexer/internal/search"
)

type searchNcmResponse struct {
	Hits  []search.Hit `json:"hits"`
	Total int64        `json:"total"`
	Query string       `json:"query"`
}

type searchNcmError struct {
	Error string       `json:"erro"`
	Hits  []search.Hit `json:"hits"`
	Total int64        `json:"total"`
}

// @Summary		Search the NCM index
// @Description	Full-text search restricted to currently valid entries, with optional level filter and mark highlighting.
// @Tags			Search
// @Produce		json
// @Param			q		query		string				true	"Free-text query, at least 2 characters"
// @Param			nivel	query		string				false	"Level filter (capitulo, posicao, ncm, subposicao)"
// @Param			limit	query		int					false	"Result limit"	default(20)
// @Success		200		{object}	searchNcmResponse	"Ranked hits with highlighted fields"
// @Failure		400		{object}	searchNcmResponse	"Query under 2 characters, empty hit set"
// @Failure		500		{object}	searchNcmError		"Engine error"
// @Router			/busca [get]
func (app *application) handleSearchNcm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	nivel := r.URL.Query().Get("nivel")

	limit := int64(0)
	if l, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil {
		limit = l
	}

	cacheKey := cache.Key(q, nivel, limit)
	if app.cache != nil {
		var cached searchNcmResponse
		if app.cache.Get(r.Context(), cacheKey, &cached) {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := app.indexer.Search(r.Context(), search.SearchParams{
		Query: q,
		Nivel: nivel,
		Limit: limit,
	})
	if err != nil {
		if errors.Is(err, search.ErrQueryTooShort) {
			writeJSON(w, http.StatusBadRequest, searchNcmResponse{Hits: []search.Hit{}, Query: q})
			return
		}
		writeJSON(w, http.StatusInternalServerError, searchNcmError{
			Error: err.Error(),
			Hits:  []search.Hit{},
		})
		return
	}

	out := searchNcmResponse{Hits: result.Hits, Total: result.Total, Query: q}
	if app.cache != nil {
		app.cache.Set(r.Context(), cacheKey, out)
	}

	if err := writeJSON(w, http.StatusOK, out); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
