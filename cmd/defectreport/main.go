package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"hotelreserve/internal/metrics"
)

func main() {
	var (
		defectsPath = flag.String("defects", "defects.csv", "path to the defect history CSV (day,severity,status)")
		totalTests  = flag.Int("total", 0, "total number of planned tests")
		executed    = flag.Int("executed", 0, "number of executed tests")
		maxOpen     = flag.Int("max-open", 10, "maximum allowed open defects")
		window      = flag.Int("window", 7, "rolling-mean window in days")
	)
	flag.Parse()

	f, err := os.Open(*defectsPath)
	if err != nil {
		log.Fatalf("open defects file: %v", err)
	}
	defer f.Close()

	defects, err := metrics.LoadCSV(f)
	if err != nil {
		log.Fatalf("read defects file: %v", err)
	}

	history := metrics.NewHistory(defects)
	coverage := metrics.Coverage(*totalTests, *executed)
	criteria := history.ExitCriteria(coverage, *maxOpen, *window)
	summary := history.Summary()

	fmt.Printf("coverage: %.2f%% (>= 80%%: %s)\n", coverage, okLabel(criteria.CoverageOK))
	fmt.Printf("open defects: %d (<= %d: %s)\n", criteria.Details.OpenDefects, *maxOpen, okLabel(criteria.OpenDefectsOK))
	if criteria.Details.TrendLast != nil && criteria.Details.TrendPrev != nil {
		fmt.Printf("trend: %.2f -> %.2f (non-increasing: %s)\n",
			*criteria.Details.TrendPrev, *criteria.Details.TrendLast, okLabel(criteria.TrendOK))
	} else {
		fmt.Printf("trend: not enough data (non-increasing: %s)\n", okLabel(criteria.TrendOK))
	}

	fmt.Printf("total defects: %d\n", summary.TotalDefects)
	severities := make([]int, 0, len(summary.BySeverity))
	for sev := range summary.BySeverity {
		severities = append(severities, sev)
	}
	sort.Ints(severities)
	for _, sev := range severities {
		fmt.Printf("  severity %d: %d\n", sev, summary.BySeverity[sev])
	}

	if !criteria.Pass() {
		os.Exit(1)
	}
}

func okLabel(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}
