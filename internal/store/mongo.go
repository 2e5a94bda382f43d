package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shaiso/Stackmate/internal/config"
	"github.com/shaiso/Stackmate/internal/domain"
	"github.com/shaiso/Stackmate/internal/stack"
)

// preferencesCollection — коллекция предпочтений пользователей.
const preferencesCollection = "user_preferences"

// PreferenceStore хранит предпочтения пользователей в MongoDB.
//
// Схема документа свободная: произвольная карта настроек
// плюс метаданные о времени и источнике записи.
type PreferenceStore struct {
	client   *mongo.Client
	database string
}

// NewPreferenceStore подключается к MongoDB и проверяет соединение.
func NewPreferenceStore(ctx context.Context, cfg config.MongoConfig, dialTimeout time.Duration) (*PreferenceStore, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(dialTimeout).
		SetServerSelectionTimeout(dialTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping mongo: %v", ErrStoreUnreachable, err)
	}

	return &PreferenceStore{client: client, database: cfg.Database}, nil
}

// preferenceDoc — документ коллекции user_preferences.
type preferenceDoc struct {
	UserID      int64          `bson:"user_id"`
	Preferences map[string]any `bson:"preferences"`
	Metadata    struct {
		CreatedAt time.Time `bson:"created_at"`
		Source    string    `bson:"source"`
	} `bson:"metadata"`
}

// Save сохраняет предпочтения пользователя.
func (s *PreferenceStore) Save(ctx context.Context, userID int64, prefs map[string]any) error {
	doc := preferenceDoc{
		UserID:      userID,
		Preferences: prefs,
	}
	doc.Metadata.CreatedAt = time.Now()
	doc.Metadata.Source = "stackmate"

	coll := s.client.Database(s.database).Collection(preferencesCollection)
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert preferences: %w", err)
	}
	return nil
}

// Get возвращает предпочтения пользователя.
func (s *PreferenceStore) Get(ctx context.Context, userID int64) (map[string]any, error) {
	coll := s.client.Database(s.database).Collection(preferencesCollection)

	var doc preferenceDoc
	err := coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	return doc.Preferences, nil
}

// Probe выполняет нативную health-проверку (admin ping).
func (s *PreferenceStore) Probe(ctx context.Context) domain.ProbeResult {
	start := time.Now()

	err := s.client.Ping(ctx, readpref.Primary())

	result := domain.ProbeResult{
		Name:      stack.ServiceMongo,
		OK:        err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// Close закрывает соединение с MongoDB.
func (s *PreferenceStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
