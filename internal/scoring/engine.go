// Package scoring computes per-student totals, averages, letter grades and
// class ranks from a roster snapshot. It is a pure batch transform: it never
// mutates its input, keeps no state between calls, and never fails: missing
// or non-numeric score cells are coerced to 0.
package scoring

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/classkit/gradebook/internal/roster"
)

// Grades, from best to worst.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeF = "F"
)

// Result is the derived record for one student. Student is the index into
// the input roster's student list (names collide, positions do not).
// Results come back in input order; Rank is 1-based competition rank by
// total, descending.
type Result struct {
	Student int     `json:"student"`
	Name    string  `json:"name"`
	Total   float64 `json:"total"`
	Avg     float64 `json:"avg"`
	Grade   string  `json:"grade"`
	Rank    int     `json:"rank"`
}

// GradeFromAvg maps an average to a letter grade. Band edges are inclusive
// on the lower bound: exactly 90.0 is an A, exactly 60.0 a D.
func GradeFromAvg(avg float64) string {
	switch {
	case avg >= 90:
		return GradeA
	case avg >= 80:
		return GradeB
	case avg >= 70:
		return GradeC
	case avg >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// Compute derives one Result per student, in the roster's student order.
// A nil roster or one with no students yields an empty slice. With students
// but no subjects every total is 0, every grade F, everyone tied at rank 1.
func Compute(r *roster.Roster) []Result {
	if r == nil || len(r.Students) == 0 {
		return []Result{}
	}

	results := make([]Result, len(r.Students))
	subjCount := len(r.Subjects)

	for i, st := range r.Students {
		var total float64
		var name string
		// A nil entry (possible when a roster document was decoded from
		// JSON) scores like a student with no recorded cells.
		if st != nil {
			name = st.Name
			for _, sub := range r.Subjects {
				cell, _ := st.Cell(sub)
				total += cellValue(cell)
			}
		}
		avg := 0.0
		if subjCount > 0 {
			avg = total / float64(subjCount)
		}
		results[i] = Result{
			Student: i,
			Name:    name,
			Total:   total,
			Avg:     avg,
			Grade:   GradeFromAvg(avg),
		}
	}

	rank(results)
	return results
}

// cellValue coerces a raw cell to a finite float64, defaulting to 0.
func cellValue(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// rank assigns competition ranks in place: sort (index, total) pairs by
// total descending, walk the sorted order assigning each distinct total the
// rank of its first (1-based) position, then scatter ranks back through the
// carried input index. Ties share the better rank; the next distinct total
// resumes at its position, so totals 100,100,90 rank 1,1,3.
func rank(results []Result) {
	type entry struct {
		idx   int
		total float64
	}
	order := make([]entry, len(results))
	for i, res := range results {
		order[i] = entry{idx: i, total: res.Total}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return order[a].total > order[b].total
	})

	cur := 0
	for pos, e := range order {
		if pos == 0 || e.total != order[pos-1].total {
			cur = pos + 1
		}
		results[e.idx].Rank = cur
	}
}
