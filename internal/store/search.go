package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sony/gobreaker"

	"github.com/shaiso/Stackmate/internal/config"
	"github.com/shaiso/Stackmate/internal/domain"
	"github.com/shaiso/Stackmate/internal/stack"
)

// usersIndex — имя поискового индекса пользователей.
const usersIndex = "users"

// UserIndex индексирует пользователей в Elasticsearch
// и выполняет полнотекстовый поиск по ним.
type UserIndex struct {
	es      *elasticsearch.Client
	breaker *gobreaker.CircuitBreaker
}

// NewUserIndex создаёт клиента Elasticsearch с ограниченными
// таймаутами соединения.
func NewUserIndex(cfg config.ElasticsearchConfig, dialTimeout time.Duration) (*UserIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: dialTimeout}).DialContext,
			ResponseHeaderTimeout: dialTimeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("new elasticsearch client: %w", err)
	}

	return &UserIndex{
		es:      es,
		breaker: newBreaker("elasticsearch"),
	}, nil
}

// userDoc — документ индекса users.
type userDoc struct {
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	SearchableText string    `json:"searchable_text"`
	IndexedAt      time.Time `json:"indexed_at"`
}

// Index индексирует пользователя для полнотекстового поиска.
func (i *UserIndex) Index(ctx context.Context, user *domain.User) error {
	doc := userDoc{
		UserID:         user.ID,
		Name:           user.Name,
		Email:          user.Email,
		SearchableText: user.Name + " " + user.Email,
		IndexedAt:      time.Now(),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal user doc: %w", err)
	}

	res, err := i.es.Index(
		usersIndex,
		bytes.NewReader(body),
		i.es.Index.WithDocumentID(strconv.FormatInt(user.ID, 10)),
		i.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index user %d: %w", user.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index user %d: %s", user.ID, res.String())
	}
	return nil
}

// Search выполняет multi_match поиск по name, email и searchable_text.
//
// Отсутствующий индекс (поиск до первой индексации) — пустой
// результат, не ошибка.
func (i *UserIndex) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"name", "email", "searchable_text"},
			},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(usersIndex),
		i.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return []domain.SearchHit{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search users: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Score  float64        `json:"_score"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, domain.SearchHit{
			UserID: h.ID,
			Score:  h.Score,
			Source: h.Source,
		})
	}
	return hits, nil
}

// Probe выполняет нативную health-проверку (Ping) через breaker.
func (i *UserIndex) Probe(ctx context.Context) domain.ProbeResult {
	start := time.Now()

	_, err := i.breaker.Execute(func() (any, error) {
		res, err := i.es.Ping(i.es.Ping.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()
		if res.IsError() {
			return nil, fmt.Errorf("ping status %d", res.StatusCode)
		}
		return nil, nil
	})

	result := domain.ProbeResult{
		Name:      stack.ServiceElasticsearch,
		OK:        err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
