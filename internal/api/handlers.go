package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"farm-crm/internal/db"
	"farm-crm/internal/importer"
	"farm-crm/internal/models"
)

// Handlers contains HTTP handlers and their dependencies
type Handlers struct {
	db  *db.DB
	imp *importer.Importer
}

// NewHandlers creates a new Handlers instance
func NewHandlers(database *db.DB, cfg importer.Config) *Handlers {
	return &Handlers{
		db:  database,
		imp: importer.New(database, cfg),
	}
}

// ImportCSV handles POST /api/imports. The CSV can arrive as a multipart
// "file" field or as the raw request body; farm and agent come from query
// parameters.
func (h *Handlers) ImportCSV(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = r.Body

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file field", http.StatusBadRequest)
			return
		}
		defer file.Close()
		body = file
	}

	farm := r.URL.Query().Get("farm")
	agent := r.URL.Query().Get("agent")
	if farm != "" && agent == "" {
		http.Error(w, "farm requires agent", http.StatusBadRequest)
		return
	}

	summary, _, err := h.imp.Run(r.Context(), body, farm, agent)
	if err != nil {
		// Partial work stays committed; hand back counts with the failure.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":   err.Error(),
			"summary": summary,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// ListProperties handles GET /api/properties
func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := db.PropertyFilter{}

	if v := q.Get("type"); v != "" {
		filter.PropertyTypes = strings.Split(v, ",")
	}
	if q.Get("absentee") == "true" {
		filter.AbsenteeOnly = true
	}

	// Parse map bounds (sw_lat,sw_lng,ne_lat,ne_lng)
	if v := q.Get("bounds"); v != "" {
		parts := strings.Split(v, ",")
		if len(parts) == 4 {
			swLat, _ := strconv.ParseFloat(parts[0], 64)
			swLng, _ := strconv.ParseFloat(parts[1], 64)
			neLat, _ := strconv.ParseFloat(parts[2], 64)
			neLng, _ := strconv.ParseFloat(parts[3], 64)
			filter.SWLat = &swLat
			filter.SWLng = &swLng
			filter.NELat = &neLat
			filter.NELng = &neLng
		}
	}

	if v := q.Get("limit"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 && val <= 2000 {
			filter.Limit = val
		}
	}

	properties, err := h.db.ListProperties(filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"properties": properties,
		"count":      len(properties),
	})
}

// GetProperty handles GET /api/properties/{parcelID}
func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	parcelID := chi.URLParam(r, "parcelID")

	property, err := h.db.GetProperty(parcelID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if property == nil {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(property)
}

// ListFarmProperties handles GET /api/farms/{farm}/properties
func (h *Handlers) ListFarmProperties(w http.ResponseWriter, r *http.Request) {
	farm := chi.URLParam(r, "farm")
	agent := r.URL.Query().Get("agent")
	if agent == "" {
		http.Error(w, "agent is required", http.StatusBadRequest)
		return
	}

	properties, err := h.db.ListFarmProperties(farm, agent)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"properties": properties,
		"count":      len(properties),
	})
}

// UpdateFarmLink handles PUT /api/farms/{farm}/properties/{parcelID}
func (h *Handlers) UpdateFarmLink(w http.ResponseWriter, r *http.Request) {
	var link models.FarmLink
	if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	link.Farm = chi.URLParam(r, "farm")
	link.ParcelID = chi.URLParam(r, "parcelID")
	if link.Agent == "" {
		http.Error(w, "agent is required", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateFarmLink(link); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpsertEnrichment handles PUT /api/properties/{parcelID}/contact
func (h *Handlers) UpsertEnrichment(w http.ResponseWriter, r *http.Request) {
	var e models.ContactEnrichment
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	e.ParcelID = chi.URLParam(r, "parcelID")

	if err := h.db.UpsertEnrichment(e); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
