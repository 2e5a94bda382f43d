// Package fixtures записывает статические ответы placeholder API.
//
// Настоящего API-сервиса в стеке нет: его роль играет nginx,
// раздающий файлы из каталога fixtures. Оркестратор записывает
// туда health, status и index.html перед запуском стека.
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// HealthFixture — содержимое файла health.
type HealthFixture struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// StatusFixture — содержимое файла status.
type StatusFixture struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	Uptime          string `json:"uptime"`
	RequestsHandled int    `json:"requests_handled"`
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>Stackmate API</title></head>
<body>
<h1>Stackmate placeholder API</h1>
<ul>
<li><a href="/health">/health</a> — health check</li>
<li><a href="/status">/status</a> — service status</li>
</ul>
</body>
</html>
`

// Writer записывает fixture-файлы в каталог, который раздаёт nginx.
type Writer struct {
	dir string

	// now подменяется в тестах.
	now func() time.Time
}

// NewWriter создаёт Writer для каталога dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// WriteAll записывает все fixture-файлы.
// Каталог создаётся при необходимости.
func (w *Writer) WriteAll() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create fixtures dir: %w", err)
	}

	if err := w.writeHealth(); err != nil {
		return err
	}
	if err := w.writeStatus(); err != nil {
		return err
	}
	if err := w.writeIndex(); err != nil {
		return err
	}

	return nil
}

// writeHealth записывает файл health.
// Timestamp всегда в UTC, формат RFC3339.
func (w *Writer) writeHealth() error {
	fixture := HealthFixture{
		Status:    "healthy",
		Service:   "api",
		Timestamp: w.now().UTC().Format(time.RFC3339),
	}
	return w.writeJSON("health", fixture)
}

// writeStatus записывает файл status.
func (w *Writer) writeStatus() error {
	fixture := StatusFixture{
		Status:          "operational",
		Version:         "1.0.0",
		Uptime:          "0s",
		RequestsHandled: 0,
	}
	return w.writeJSON("status", fixture)
}

// writeIndex записывает index.html со списком endpoint-ов.
func (w *Writer) writeIndex() error {
	path := filepath.Join(w.dir, "index.html")
	if err := os.WriteFile(path, []byte(indexHTML), 0o644); err != nil {
		return fmt.Errorf("write index.html: %w", err)
	}
	return nil
}

func (w *Writer) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s fixture: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s fixture: %w", name, err)
	}
	return nil
}
