package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fiscofacil/ncm-indexer/internal/ncm"
	"github.com/fiscofacil/ncm-indexer/internal/response"
	"github.com/fiscofacil/ncm-indexer/internal/search"
	"github.com/fiscofacil/ncm-indexer/internal/store"
)

type indexNcmRequest struct {
	Documentos []ncm.Document `json:"documentos"`
	Resetar    bool           `json:"resetar"`
}

type importNcmResponse struct {
	search.LoadResult
	Resumo ncm.Summary `json:"resumo"`
}

type deleteNcmData struct {
	Deleted *int   `json:"deletado,omitempty"`
	Task    string `json:"task"`
}

type ncmStatsResponse struct {
	Stats *search.IndexStats `json:"stats"`
	Hits  []search.Hit       `json:"hits"`
}

type DeleteNcmResponse = response.APIResponse[deleteNcmData]

// recordIngestion persists one run in the ingestion history, best-effort:
// the index itself is the system of record, so a history failure only logs.
func (app *application) recordIngestion(r *http.Request, sourceFile, trigger string, result *search.LoadResult, loadErr error) {
	if app.store == nil || result == nil {
		return
	}

	status := store.StatusSuccess
	if loadErr != nil {
		status = store.StatusFailure
		if result.Batches > 0 {
			status = store.StatusPartial
		}
	}

	history := &store.IngestionHistory{
		ReferenceDate:  time.Now(),
		SourceFile:     sourceFile,
		TriggerType:    trigger,
		Status:         status,
		TotalDocuments: result.Total,
		Batches:        result.Batches,
	}

	if err := app.store.IngestionHistory.InsertIngestionHistory(r.Context(), history); err != nil {
		app.logger.Warn("API", "Failed to record ingestion history: %v", err)
	}
}

// @Summary		Index NCM documents
// @Description	Bulk-loads pre-transformed NCM documents into the search index in batches of 1000, optionally clearing the index first.
// @Tags			NCM
// @Accept			json
// @Produce		json
// @Param			payload	body		indexNcmRequest			true	"Documents and reset flag"
// @Success		200		{object}	search.LoadResult		"Documents submitted"
// @Failure		400		{object}	response.ErrorResponse	"Missing or non-array documentos"
// @Failure		500		{object}	response.ErrorResponse	"Engine error, committed batches stay committed"
// @Router			/admin/ncm [post]
func (app *application) handleIndexNcm(w http.ResponseWriter, r *http.Request) {
	var input indexNcmRequest

	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if len(input.Documentos) == 0 {
		writeJSONError(w, http.StatusBadRequest, "documentos must be a non-empty array")
		return
	}

	result, err := app.indexer.BulkLoad(r.Context(), input.Documentos, input.Resetar)
	app.recordIngestion(r, "", store.TriggerTypeManual, result, err)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, result); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Import a raw nomenclature table
// @Description	Parses an uploaded raw table (JSON or CSV), transforms it into documents and bulk-loads them.
// @Tags			NCM
// @Accept			multipart/form-data
// @Produce		json
// @Param			arquivo	formData	file					true	"Raw table file (.json or .csv)"
// @Param			resetar	formData	bool					false	"Clear the index before loading"
// @Success		200		{object}	importNcmResponse		"Documents submitted with transform summary"
// @Failure		400		{object}	response.ErrorResponse	"Unreadable upload, empty table or unsupported format"
// @Router			/admin/ncm/importar [post]
func (app *application) handleImportNcmTable(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(52_428_800); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing arquivo field")
		return
	}
	defer file.Close()

	latin1 := r.FormValue("latin1") == "true"
	entries, err := ncm.ParseFile(header.Filename, file, latin1)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, summary := ncm.Transform(entries)
	resetar := r.FormValue("resetar") == "true"

	result, err := app.indexer.BulkLoad(r.Context(), docs, resetar)
	app.recordIngestion(r, header.Filename, store.TriggerTypeUpload, result, err)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := importNcmResponse{LoadResult: *result, Resumo: summary}
	if err := writeJSON(w, http.StatusOK, out); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Delete NCM documents
// @Description	Deletes a single document when an id query parameter is given, the whole index otherwise.
// @Tags			NCM
// @Produce		json
// @Param			id	query		int						false	"Document id"
// @Success		200	{object}	DeleteNcmResponse		"Deletion task submitted"
// @Failure		400	{object}	response.ErrorResponse	"Non-integer id"
// @Router			/admin/ncm [delete]
func (app *application) handleDeleteNcm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idParam := r.URL.Query().Get("id")

	resp := &DeleteNcmResponse{Success: true}

	if idParam != "" {
		id, err := strconv.Atoi(idParam)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "id must be an integer")
			return
		}

		task, err := app.indexer.DeleteOne(ctx, id)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}

		resp.Message = "document deleted"
		resp.Data = deleteNcmData{Deleted: &id, Task: task}
	} else {
		task, err := app.indexer.DeleteAll(ctx)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}

		resp.Message = "index cleared"
		resp.Data = deleteNcmData{Task: task}
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Index statistics
// @Description	Returns engine stats for the NCM index plus an unfiltered document lookup.
// @Tags			NCM
// @Produce		json
// @Param			q		query		string					false	"Lookup text"
// @Param			limit	query		int						false	"Lookup result limit"	default(20)
// @Success		200		{object}	ncmStatsResponse		"Stats and hits"
// @Failure		500		{object}	response.ErrorResponse	"Engine error"
// @Router			/admin/ncm/stats [get]
func (app *application) handleNcmStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := int64(20)
	if l, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil {
		limit = l
	}

	// Stats failure degrades to null, matching the admin screen's needs.
	stats, err := app.indexer.Stats(ctx)
	if err != nil {
		stats = nil
	}

	result, err := app.indexer.AdminSearch(ctx, r.URL.Query().Get("q"), limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := ncmStatsResponse{Stats: stats, Hits: result.Hits}
	if err := writeJSON(w, http.StatusOK, out); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
