package fixtures

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriter_WriteAll(t *testing.T) {
	dir := t.TempDir()

	w := NewWriter(filepath.Join(dir, "api-content"))
	if err := w.WriteAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"health", "status", "index.html"} {
		if _, err := os.Stat(filepath.Join(dir, "api-content", name)); err != nil {
			t.Errorf("fixture %s not written: %v", name, err)
		}
	}
}

func TestWriter_HealthFixtureValid(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2025, 7, 11, 16, 59, 0, 0, time.FixedZone("MSK", 3*3600))

	w := NewWriter(dir)
	w.now = func() time.Time { return fixed }

	if err := w.WriteAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "health"))
	if err != nil {
		t.Fatal(err)
	}

	var fixture HealthFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		t.Fatalf("health fixture is not valid JSON: %v", err)
	}

	if fixture.Status != "healthy" {
		t.Errorf("status = %s, want healthy", fixture.Status)
	}

	ts, err := time.Parse(time.RFC3339, fixture.Timestamp)
	if err != nil {
		t.Fatalf("timestamp %q not parsable as RFC3339: %v", fixture.Timestamp, err)
	}
	// Время записывается в UTC независимо от локальной зоны.
	if ts.UTC() != fixed.UTC() {
		t.Errorf("timestamp = %v, want %v", ts.UTC(), fixed.UTC())
	}
	if _, offset := ts.Zone(); offset != 0 {
		t.Errorf("timestamp zone offset = %d, want UTC", offset)
	}
}

func TestWriter_StatusFixtureValid(t *testing.T) {
	dir := t.TempDir()

	w := NewWriter(dir)
	if err := w.WriteAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		t.Fatal(err)
	}

	var fixture StatusFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		t.Fatalf("status fixture is not valid JSON: %v", err)
	}
	if fixture.Status != "operational" {
		t.Errorf("status = %s", fixture.Status)
	}
}

func TestWriter_WriteAllIdempotent(t *testing.T) {
	dir := t.TempDir()

	w := NewWriter(dir)
	if err := w.WriteAll(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAll(); err != nil {
		t.Fatalf("second WriteAll failed: %v", err)
	}
}
