package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shaiso/Stackmate/internal/mq"
)

type fakeDrainer struct {
	processed int
	err       error
}

func (f *fakeDrainer) Drain(ctx context.Context, max int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.processed = max
	return max, nil
}

type fakeArchiver struct {
	archived bool
	err      error
}

func (f *fakeArchiver) ArchiveLastRun(ctx context.Context, startedAt time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.archived = true
	return startedAt.Format("20060102_150405") + ".txt", nil
}

func TestDemo_Run(t *testing.T) {
	f := newFixture()
	drainer := &fakeDrainer{}
	archiver := &fakeArchiver{}

	demo := NewDemo(f.client, drainer, archiver, nil, slog.Default())

	if err := demo.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.users.users) != 2 {
		t.Errorf("users created = %d, want 2", len(f.users.users))
	}
	if drainer.processed != 2 {
		t.Errorf("messages drained = %d, want 2", drainer.processed)
	}
	if !archiver.archived {
		t.Error("last run marker should be archived")
	}
}

// Отказы отдельных шагов не прерывают сценарий.
func TestDemo_Run_StepFailuresAreNotFatal(t *testing.T) {
	f := newFixture()
	drainer := &fakeDrainer{err: errors.New("broker down")}
	archiver := &fakeArchiver{err: errors.New("minio down")}

	demo := NewDemo(f.client, drainer, archiver, nil, slog.Default())

	if err := demo.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Если ни один пользователь не создан, демо возвращает ошибку.
func TestDemo_Run_AllCreatesFailed(t *testing.T) {
	f := newFixture()
	f.users.err = errors.New("postgres down")

	demo := NewDemo(f.client, nil, nil, nil, slog.Default())

	if err := demo.Run(context.Background()); err == nil {
		t.Fatal("expected error when no users created")
	}
}

func TestWelcomeHandler(t *testing.T) {
	handler := WelcomeHandler(slog.Default())

	payload, _ := json.Marshal(mq.WelcomePayload{UserID: 7, Name: "Alice"})
	delivery := &mq.Delivery{
		Message: mq.Message{
			ID:      "m1",
			Type:    mq.MessageTypeWelcome,
			Payload: payload,
		},
	}

	if err := handler(context.Background(), delivery); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWelcomeHandler_MalformedPayload(t *testing.T) {
	handler := WelcomeHandler(slog.Default())

	delivery := &mq.Delivery{
		Message: mq.Message{Payload: json.RawMessage(`{not json`)},
	}

	if err := handler(context.Background(), delivery); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
