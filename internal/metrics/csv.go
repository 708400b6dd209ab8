package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads a defect-history table with at least the columns
// day, severity and status; extra columns are ignored. Days are ISO
// YYYY-MM-DD.
func LoadCSV(r io.Reader) ([]Defect, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"day", "severity", "status"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var defects []Defect
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(record[idx["day"]]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		severity, err := strconv.Atoi(strings.TrimSpace(record[idx["severity"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		defects = append(defects, Defect{
			Day:      day,
			Severity: severity,
			Status:   strings.ToUpper(strings.TrimSpace(record[idx["status"]])),
		})
	}
	return defects, nil
}
