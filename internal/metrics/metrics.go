// Package metrics computes defect exit-criteria reports over a defect
// history table. It is a standalone batch tool and has no coupling with
// the reservation core.
package metrics

import (
	"math"
	"sort"
	"time"
)

type Defect struct {
	Day      time.Time
	Severity int
	Status   string
}

type TrendPoint struct {
	Day     time.Time
	Defects int
	Mean    float64
}

type CriteriaDetails struct {
	CoveragePct float64  `json:"coverage_pct"`
	OpenDefects int      `json:"open_defects"`
	TrendLast   *float64 `json:"trend_last"`
	TrendPrev   *float64 `json:"trend_prev"`
}

type Criteria struct {
	CoverageOK    bool            `json:"coverage_ok"`
	OpenDefectsOK bool            `json:"open_defects_ok"`
	TrendOK       bool            `json:"trend_ok"`
	Details       CriteriaDetails `json:"details"`
}

func (c Criteria) Pass() bool {
	return c.CoverageOK && c.OpenDefectsOK && c.TrendOK
}

type Summary struct {
	TotalDefects int         `json:"total_defects"`
	BySeverity   map[int]int `json:"by_severity"`
}

// History is an immutable defect-history snapshot.
type History struct {
	defects []Defect
}

func NewHistory(defects []Defect) *History {
	return &History{defects: defects}
}

// Coverage is the executed/total test percentage, 0-100, rounded to two
// decimals. A non-positive total yields 0.
func Coverage(total, executed int) float64 {
	if total <= 0 {
		return 0.0
	}
	pct := 100.0 * float64(executed) / float64(total)
	return math.Round(pct*100) / 100
}

// Trend groups defects per day (ascending) and applies a rolling mean
// over the daily counts with a minimum period of one.
func (h *History) Trend(window int) []TrendPoint {
	if len(h.defects) == 0 {
		return nil
	}
	if window < 1 {
		window = 1
	}

	perDay := make(map[time.Time]int)
	for _, d := range h.defects {
		day := d.Day.Truncate(24 * time.Hour)
		perDay[day]++
	}

	days := make([]time.Time, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]TrendPoint, 0, len(days))
	for i, day := range days {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		sum := 0
		for _, d := range days[lo : i+1] {
			sum += perDay[d]
		}
		out = append(out, TrendPoint{
			Day:     day,
			Defects: perDay[day],
			Mean:    float64(sum) / float64(i+1-lo),
		})
	}
	return out
}

// OpenDefects counts entries whose status is not CLOSED.
func (h *History) OpenDefects() int {
	open := 0
	for _, d := range h.defects {
		if d.Status != "CLOSED" {
			open++
		}
	}
	return open
}

// ExitCriteria evaluates the release gate: coverage at least 80%, open
// defects within the threshold, and a non-increasing rolling-mean
// defect trend. The trend criterion needs at least two data points.
func (h *History) ExitCriteria(coveragePct float64, maxOpenDefects, trendWindow int) Criteria {
	res := Criteria{}
	res.Details.CoveragePct = coveragePct
	res.CoverageOK = coveragePct >= 80.0

	if len(h.defects) == 0 {
		res.OpenDefectsOK = maxOpenDefects >= 0
		return res
	}

	open := h.OpenDefects()
	res.Details.OpenDefects = open
	res.OpenDefectsOK = open <= maxOpenDefects

	trend := h.Trend(trendWindow)
	if len(trend) >= 2 {
		last := trend[len(trend)-1].Mean
		prev := trend[len(trend)-2].Mean
		res.Details.TrendLast = &last
		res.Details.TrendPrev = &prev
		res.TrendOK = last <= prev
	}

	return res
}

func (h *History) Summary() Summary {
	s := Summary{BySeverity: make(map[int]int)}
	s.TotalDefects = len(h.defects)
	for _, d := range h.defects {
		s.BySeverity[d.Severity]++
	}
	return s
}
