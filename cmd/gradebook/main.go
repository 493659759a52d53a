package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/classkit/gradebook/internal/export"
	"github.com/classkit/gradebook/internal/render"
	"github.com/classkit/gradebook/internal/scoring"
)

func main() {
	_ = godotenv.Load()

	in := flag.String("in", "", "roster CSV to load (required)")
	out := flag.String("out", "", "write results CSV here (optional)")
	title := flag.String("title", "", "roster title")
	nameFilter := flag.String("name", "", "only show students whose name contains this")
	minAvg := flag.Float64("min-avg", 0, "only show students with at least this average")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open %s: %v", *in, err)
	}
	ros, err := export.ReadCSV(f, strings.TrimSuffix(*in, ".csv"), *title)
	f.Close()
	if err != nil {
		log.Fatalf("read roster: %v", err)
	}

	results := scoring.Compute(ros)

	shown := results
	if *nameFilter != "" || *minAvg > 0 {
		shown = shown[:0:0]
		for _, res := range results {
			if *nameFilter != "" && !strings.Contains(res.Name, *nameFilter) {
				continue
			}
			if res.Avg < *minAvg {
				continue
			}
			shown = append(shown, res)
		}
	}

	color.Yellow("%s: %d students, %d subjects", *in, len(ros.Students), len(ros.Subjects))
	render.ResultsTable(os.Stdout, shown)
	if len(shown) != len(results) {
		fmt.Printf("%d of %d students shown\n", len(shown), len(results))
	}

	if *out != "" {
		of, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		if err := export.WriteCSV(of, ros); err != nil {
			of.Close()
			log.Fatalf("write results: %v", err)
		}
		if err := of.Close(); err != nil {
			log.Fatalf("close %s: %v", *out, err)
		}
		color.Green("wrote %s", *out)
	}
}
