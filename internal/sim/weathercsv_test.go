package sim

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeWeatherFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weather.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVSource(t *testing.T) {
	path := writeWeatherFile(t, `time,mean_temp_c,rel_humid,rain_mm
2024-06-01,25.0,0.8,10.0
2024-06-02,28.5,0.3,0.0
2024-06-03,22.0,0.95,42.5
`)

	src, err := NewCSVSource(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	first, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	wantDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(wantDate) {
		t.Errorf("expected timestamp %v, got %v", wantDate, first.Timestamp)
	}
	if first.MeanTempC != 25.0 || first.RelHumid != 0.8 || first.RainMM != 10.0 {
		t.Errorf("unexpected first record: %+v", first)
	}

	if _, err := src.Next(); err != nil {
		t.Fatal(err)
	}

	third, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if third.RainMM != 42.5 {
		t.Errorf("expected 42.5 mm rain, got %g", third.RainMM)
	}

	if _, err := src.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last record, got %v", err)
	}
}

func TestCSVSourceColumnOrderIndependent(t *testing.T) {
	path := writeWeatherFile(t, `rain_mm,time,rel_humid,mean_temp_c
3.5,2024-06-01,0.5,19.0
`)

	src, err := NewCSVSource(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	w, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if w.RainMM != 3.5 || w.RelHumid != 0.5 || w.MeanTempC != 19.0 {
		t.Errorf("unexpected record with reordered columns: %+v", w)
	}
}

func TestCSVSourceMissingColumn(t *testing.T) {
	path := writeWeatherFile(t, `time,mean_temp_c,rain_mm
2024-06-01,25.0,10.0
`)

	if _, err := NewCSVSource(path); err == nil {
		t.Error("expected error for missing rel_humid column")
	}
}

func TestCSVSourceRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"humidity above one", "2024-06-01,25.0,1.5,10.0"},
		{"negative rainfall", "2024-06-01,25.0,0.5,-3.0"},
		{"unparseable temperature", "2024-06-01,warm,0.5,10.0"},
		{"unparseable time", "June 1,25.0,0.5,10.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWeatherFile(t, "time,mean_temp_c,rel_humid,rain_mm\n"+tt.row+"\n")
			src, err := NewCSVSource(path)
			if err != nil {
				t.Fatal(err)
			}
			defer src.Close()

			if _, err := src.Next(); err == nil {
				t.Error("expected error for bad row")
			}
		})
	}
}
