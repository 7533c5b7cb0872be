package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/edwenger/larval-habitat/internal/types"
)

// CSVSource streams daily weather records from a CSV file with a header
// row naming the columns: time, mean_temp_c, rel_humid, rain_mm.
// Timestamps are parsed as dates (2006-01-02) or RFC 3339.
type CSVSource struct {
	f      *os.File
	r      *csv.Reader
	fields map[string]int
	line   int
}

// NewCSVSource opens path and validates its header row.
func NewCSVSource(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weather file: %w", err)
	}

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read weather header: %w", err)
	}

	fields := make(map[string]int, len(header))
	for i, name := range header {
		fields[name] = i
	}
	for _, required := range []string{"time", "mean_temp_c", "rel_humid", "rain_mm"} {
		if _, ok := fields[required]; !ok {
			f.Close()
			return nil, fmt.Errorf("weather file is missing required column %q", required)
		}
	}

	return &CSVSource{f: f, r: r, fields: fields, line: 1}, nil
}

// Next returns the next weather record, or io.EOF once the file is
// exhausted.
func (s *CSVSource) Next() (types.WeatherRecord, error) {
	row, err := s.r.Read()
	if err == io.EOF {
		return types.WeatherRecord{}, io.EOF
	}
	if err != nil {
		return types.WeatherRecord{}, fmt.Errorf("failed to read weather row: %w", err)
	}
	s.line++

	ts, err := parseTimestamp(row[s.fields["time"]])
	if err != nil {
		return types.WeatherRecord{}, fmt.Errorf("line %d: %w", s.line, err)
	}

	w := types.WeatherRecord{Timestamp: ts}
	for _, col := range []struct {
		name string
		dst  *float64
	}{
		{"mean_temp_c", &w.MeanTempC},
		{"rel_humid", &w.RelHumid},
		{"rain_mm", &w.RainMM},
	} {
		v, err := strconv.ParseFloat(row[s.fields[col.name]], 64)
		if err != nil {
			return types.WeatherRecord{}, fmt.Errorf("line %d: bad %s value %q", s.line, col.name, row[s.fields[col.name]])
		}
		*col.dst = v
	}

	if w.RelHumid < 0 || w.RelHumid > 1 {
		return types.WeatherRecord{}, fmt.Errorf("line %d: relative humidity %g outside [0,1]", s.line, w.RelHumid)
	}
	if w.RainMM < 0 {
		return types.WeatherRecord{}, fmt.Errorf("line %d: negative rainfall %g", s.line, w.RainMM)
	}

	return w, nil
}

// Close closes the underlying file.
func (s *CSVSource) Close() error {
	return s.f.Close()
}

func parseTimestamp(v string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", v); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time value %q", v)
	}
	return ts, nil
}
