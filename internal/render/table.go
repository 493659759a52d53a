// Package render prints computed results as a terminal table.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/classkit/gradebook/internal/scoring"
)

var gradeColors = map[string]func(format string, a ...interface{}) string{
	scoring.GradeA: color.GreenString,
	scoring.GradeB: color.CyanString,
	scoring.GradeC: color.YellowString,
	scoring.GradeD: color.MagentaString,
	scoring.GradeF: color.RedString,
}

// ResultsTable writes one row per result, in the order given.
func ResultsTable(w io.Writer, results []scoring.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Total", "Avg", "Grade", "Rank"})

	for _, res := range results {
		grade := res.Grade
		if paint, ok := gradeColors[res.Grade]; ok {
			grade = paint("%s", res.Grade)
		}
		table.Append([]string{
			fmt.Sprintf("%d", res.Student+1),
			res.Name,
			fmt.Sprintf("%.0f", res.Total),
			fmt.Sprintf("%.1f", res.Avg),
			grade,
			fmt.Sprintf("%d", res.Rank),
		})
	}
	table.Render()
}
