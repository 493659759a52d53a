// Package export reads and writes rosters as CSV. The column layout is
// Name, one column per subject, then the computed tail
// (Total, Avg, Grade, Rank) and the carried-through Phone and Note fields.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/classkit/gradebook/internal/roster"
	"github.com/classkit/gradebook/internal/scoring"
)

const headerName = "Name"

// fixedTail are the non-subject columns that may follow the subjects.
// Computed ones are rebuilt on import, never trusted from the file.
var fixedTail = []string{"Total", "Avg", "Grade", "Rank", "Phone", "Note"}

func isFixedHeader(h string) bool {
	if h == headerName {
		return true
	}
	for _, f := range fixedTail {
		if h == f {
			return true
		}
	}
	return false
}

// WriteCSV renders the roster plus freshly computed results.
func WriteCSV(w io.Writer, r *roster.Roster) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, 1+len(r.Subjects)+len(fixedTail))
	header = append(header, headerName)
	header = append(header, r.Subjects...)
	header = append(header, fixedTail...)
	if err := cw.Write(header); err != nil {
		return err
	}

	results := scoring.Compute(r)
	for i, st := range r.Students {
		if st == nil {
			st = &roster.Student{}
		}
		row := make([]string, 0, len(header))
		row = append(row, st.Name)
		for _, sub := range r.Subjects {
			cell, _ := st.Cell(sub)
			row = append(row, cell)
		}
		res := results[i]
		row = append(row,
			fmt.Sprintf("%.0f", res.Total),
			fmt.Sprintf("%.1f", res.Avg),
			res.Grade,
			fmt.Sprintf("%d", res.Rank),
			st.Phone,
			st.Note,
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV rebuilds a roster from a CSV produced by WriteCSV or hand-edited
// in the same shape. Any header that is not Name or a fixed tail column is
// a subject, in column order. Computed columns in the file are discarded.
func ReadCSV(rd io.Reader, id, title string) (*roster.Roster, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty csv")
		}
		return nil, err
	}

	r := roster.New(id, title)
	type col struct {
		idx     int
		subject string
	}
	var subjectCols []col
	nameIdx, phoneIdx, noteIdx := -1, -1, -1
	for i, h := range header {
		switch {
		case h == headerName && nameIdx < 0:
			nameIdx = i
		case h == "Phone":
			phoneIdx = i
		case h == "Note":
			noteIdx = i
		case !isFixedHeader(h) && h != "":
			if r.AddSubject(h) {
				subjectCols = append(subjectCols, col{idx: i, subject: h})
			}
		}
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		st := r.AddStudent("")
		if nameIdx >= 0 && nameIdx < len(rec) {
			st.Name = rec[nameIdx]
		}
		if phoneIdx >= 0 && phoneIdx < len(rec) {
			st.Phone = rec[phoneIdx]
		}
		if noteIdx >= 0 && noteIdx < len(rec) {
			st.Note = rec[noteIdx]
		}
		for _, c := range subjectCols {
			if c.idx < len(rec) {
				st.SetCell(c.subject, rec[c.idx])
			}
		}
	}
	return r, nil
}
