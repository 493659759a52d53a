package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classkit/gradebook/internal/scoring"
	"github.com/classkit/gradebook/internal/store"
)

// GET /rosters/{rosterID}/results?name=substr&min_avg=70
//
// Results are computed fresh on every call. Filters narrow the response
// but ranks are still computed over the whole roster, matching how the
// original table hid rows without re-ranking the rest.
func GetResultsHandler(st store.Store) http.HandlerFunc {
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

		results := scoring.Compute(ros)

		nameFilter := r.URL.Query().Get("name")
		minAvg, hasMinAvg := 0.0, false
		if s := r.URL.Query().Get("min_avg"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				http.Error(w, "bad min_avg", http.StatusBadRequest)
				return
			}
			minAvg, hasMinAvg = v, true
		}

		if nameFilter != "" || hasMinAvg {
			filtered := results[:0:0]
			for _, res := range results {
				if nameFilter != "" && !strings.Contains(res.Name, nameFilter) {
					continue
				}
				if hasMinAvg && res.Avg < minAvg {
					continue
				}
				filtered = append(filtered, res)
			}
			results = filtered
		}

		_ = json.NewEncoder(w).Encode(results)
	}
}
