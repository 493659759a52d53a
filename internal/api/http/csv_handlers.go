package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classkit/gradebook/internal/export"
	"github.com/classkit/gradebook/internal/store"
)

// GET /rosters/{rosterID}/export serves the roster as CSV with computed
// Total/Avg/Grade/Rank columns.
func ExportCSVHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "rosterID"))
		if id == "" {
			http.Error(w, "rosterID required", http.StatusBadRequest)
			return
		}
		ros, err := st.GetRoster(r.Context(), id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".csv"))
		if err := export.WriteCSV(w, ros); err != nil {
			http.Error(w, "write csv: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

// POST /rosters/{rosterID}/import replaces the stored roster with the CSV body.
func ImportCSVHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "rosterID"))
		if id == "" {
			http.Error(w, "rosterID required", http.StatusBadRequest)
			return
		}
		title := r.URL.Query().Get("title")
		ros, err := export.ReadCSV(r.Body, id, title)
		if err != nil {
			http.Error(w, "read csv: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := st.PutRoster(r.Context(), ros); err != nil {
			http.Error(w, "put roster: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(ros)
	}
}
