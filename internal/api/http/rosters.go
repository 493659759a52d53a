package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classkit/gradebook/internal/roster"
	"github.com/classkit/gradebook/internal/store"
)

// GET /rosters
func ListRostersHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := st.ListRosters(r.Context())
		if err != nil {
			http.Error(w, "list rosters: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(infos)
	}
}

// GET /rosters/{rosterID}
func GetRosterHandler(st store.Store) http.HandlerFunc {
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
		_ = json.NewEncoder(w).Encode(ros)
	}
}

// PUT /rosters/{rosterID}
func PutRosterHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "rosterID"))
		if id == "" {
			http.Error(w, "rosterID required", http.StatusBadRequest)
			return
		}
		var ros roster.Roster
		if err := json.NewDecoder(r.Body).Decode(&ros); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := normalizeRoster(&ros); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ros.ID = id
		if err := st.PutRoster(r.Context(), &ros); err != nil {
			http.Error(w, "put roster: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(&ros)
	}
}

// DELETE /rosters/{rosterID}
func DeleteRosterHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "rosterID"))
		if err := st.DeleteRoster(r.Context(), id); err != nil {
			writeStoreErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /rosters/{rosterID}/students  { "name": "..." }
func AddStudentHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
			Note  string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		mutateRoster(w, r, st, func(ros *roster.Roster) error {
			s := ros.AddStudent(req.Name)
			s.Phone, s.Note = req.Phone, req.Note
			return nil
		})
	}
}

// DELETE /rosters/{rosterID}/students/{index}
func RemoveStudentHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "bad student index", http.StatusBadRequest)
			return
		}
		mutateRoster(w, r, st, func(ros *roster.Roster) error {
			if !ros.RemoveStudent(idx) {
				return errStudentIndex
			}
			return nil
		})
	}
}

// POST /rosters/{rosterID}/subjects  { "name": "..." }
func AddSubjectHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			http.Error(w, "subject name required", http.StatusBadRequest)
			return
		}
		mutateRoster(w, r, st, func(ros *roster.Roster) error {
			ros.AddSubject(req.Name) // duplicate add is a no-op
			return nil
		})
	}
}

// DELETE /rosters/{rosterID}/subjects/{subject}
func RemoveSubjectHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := chi.URLParam(r, "subject")
		mutateRoster(w, r, st, func(ros *roster.Roster) error {
			ros.RemoveSubject(subject)
			return nil
		})
	}
}

// PUT /rosters/{rosterID}/students/{index}/scores  { "math": "95", ... }
func SetScoresHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "bad student index", http.StatusBadRequest)
			return
		}
		var cells map[string]string
		if err := json.NewDecoder(r.Body).Decode(&cells); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		mutateRoster(w, r, st, func(ros *roster.Roster) error {
			if idx < 0 || idx >= len(ros.Students) {
				return errStudentIndex
			}
			for sub, cell := range cells {
				ros.Students[idx].SetCell(sub, cell)
			}
			return nil
		})
	}
}

var errStudentIndex = errors.New("student index out of range")

// normalizeRoster enforces the roster invariants a raw JSON document can
// violate: student entries must not be null, and subject names are unique
// in first-seen order.
func normalizeRoster(ros *roster.Roster) error {
	for i, s := range ros.Students {
		if s == nil {
			return fmt.Errorf("students[%d] is null", i)
		}
	}
	seen := make(map[string]bool, len(ros.Subjects))
	subjects := ros.Subjects[:0:0]
	for _, sub := range ros.Subjects {
		if sub == "" || seen[sub] {
			continue
		}
		seen[sub] = true
		subjects = append(subjects, sub)
	}
	ros.Subjects = subjects
	return nil
}

// mutateRoster loads, edits, and stores the roster named in the URL, then
// echoes the updated roster.
func mutateRoster(w http.ResponseWriter, r *http.Request, st store.Store, fn func(*roster.Roster) error) {
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
	if err := fn(ros); err != nil {
		if errors.Is(err, errStudentIndex) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := st.PutRoster(r.Context(), ros); err != nil {
		http.Error(w, "put roster: "+err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(ros)
}

func writeStoreErr(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "roster not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
