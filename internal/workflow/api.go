package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shaiso/Stackmate/internal/domain"
)

const defaultAPITimeout = 5 * time.Second

// APIClient опрашивает placeholder API (nginx со статикой).
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient создаёт клиента placeholder API.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultAPITimeout},
	}
}

// Get выполняет GET запрос к endpoint (например "/health").
//
// JSON-ответ возвращается распарсенным; любой другой content-type —
// как строка. nginx отдаёт fixture-файлы как octet-stream,
// поэтому привязываться к заголовку нельзя.
func (a *APIClient) Get(ctx context.Context, endpoint string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultAPITimeout)
	defer cancel()

	url := a.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api call %s: status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Не JSON — возвращаем как текст.
		return string(body), nil
	}
	return parsed, nil
}

// Probe выполняет health-проверку placeholder API.
func (a *APIClient) Probe(ctx context.Context) domain.ProbeResult {
	start := time.Now()

	_, err := a.Get(ctx, "/health")

	result := domain.ProbeResult{
		Name:      "api",
		OK:        err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
