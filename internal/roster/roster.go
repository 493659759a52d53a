package roster

import "strconv"

// Student is one row of the gradebook. Score cells hold the raw text the
// collaborator supplied (spreadsheet cells, CSV fields, JSON strings);
// numeric coercion happens at scoring time, not here. Name is display-only
// and not a key: duplicates and empty names are allowed.
type Student struct {
	Name   string            `json:"name"`
	Scores map[string]string `json:"scores"` // subject -> raw cell
	Phone  string            `json:"phone,omitempty"`
	Note   string            `json:"note,omitempty"`
}

// SetScore records a numeric score for a subject.
func (s *Student) SetScore(subject string, value float64) {
	if s.Scores == nil {
		s.Scores = map[string]string{}
	}
	s.Scores[subject] = strconv.FormatFloat(value, 'f', -1, 64)
}

// SetCell records a raw cell value for a subject, numeric or not.
func (s *Student) SetCell(subject, cell string) {
	if s.Scores == nil {
		s.Scores = map[string]string{}
	}
	s.Scores[subject] = cell
}

// Cell returns the raw cell for a subject and whether one was recorded.
func (s *Student) Cell(subject string) (string, bool) {
	v, ok := s.Scores[subject]
	return v, ok
}

// Roster is an ordered set of subjects and students. Subject order is
// insertion order and defines column order; students keep their input
// positions, which the scoring engine uses as stable identity.
type Roster struct {
	ID       string     `json:"id"`
	Title    string     `json:"title,omitempty"`
	Subjects []string   `json:"subjects"`
	Students []*Student `json:"students"`
}

func New(id, title string) *Roster {
	return &Roster{ID: id, Title: title}
}

// AddSubject appends a subject unless it is empty or already present, and
// backfills a zero cell for every existing student.
func (r *Roster) AddSubject(subject string) bool {
	if subject == "" || r.HasSubject(subject) {
		return false
	}
	r.Subjects = append(r.Subjects, subject)
	for _, s := range r.Students {
		if _, ok := s.Cell(subject); !ok {
			s.SetScore(subject, 0)
		}
	}
	return true
}

// RemoveSubject deletes a subject and every student's cell for it.
func (r *Roster) RemoveSubject(subject string) bool {
	for i, sub := range r.Subjects {
		if sub == subject {
			r.Subjects = append(r.Subjects[:i], r.Subjects[i+1:]...)
			for _, s := range r.Students {
				delete(s.Scores, subject)
			}
			return true
		}
	}
	return false
}

func (r *Roster) HasSubject(subject string) bool {
	for _, sub := range r.Subjects {
		if sub == subject {
			return true
		}
	}
	return false
}

// AddStudent appends a new student with zero cells for current subjects.
func (r *Roster) AddStudent(name string) *Student {
	st := &Student{Name: name, Scores: map[string]string{}}
	for _, sub := range r.Subjects {
		st.SetScore(sub, 0)
	}
	r.Students = append(r.Students, st)
	return st
}

// RemoveStudent deletes the student at idx; out-of-range is a no-op.
func (r *Roster) RemoveStudent(idx int) bool {
	if idx < 0 || idx >= len(r.Students) {
		return false
	}
	r.Students = append(r.Students[:idx], r.Students[idx+1:]...)
	return true
}

// Clone returns a deep copy, for callers that need an immutable snapshot
// while the original keeps being edited.
func (r *Roster) Clone() *Roster {
	out := &Roster{ID: r.ID, Title: r.Title}
	out.Subjects = append([]string(nil), r.Subjects...)
	out.Students = make([]*Student, 0, len(r.Students))
	for _, s := range r.Students {
		if s == nil {
			// nil entries can arrive via JSON decoding; normalize them.
			out.Students = append(out.Students, &Student{Scores: map[string]string{}})
			continue
		}
		cp := &Student{Name: s.Name, Phone: s.Phone, Note: s.Note, Scores: make(map[string]string, len(s.Scores))}
		for k, v := range s.Scores {
			cp.Scores[k] = v
		}
		out.Students = append(out.Students, cp)
	}
	return out
}
