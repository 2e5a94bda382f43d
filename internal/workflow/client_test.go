package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shaiso/Stackmate/internal/domain"
	"github.com/shaiso/Stackmate/internal/mq"
	"github.com/shaiso/Stackmate/internal/store"
)

// --- In-memory фейки хранилищ ---

type fakeUserStore struct {
	nextID int64
	users  map[int64]*domain.User
	err    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, profile domain.UserProfile) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	user := &domain.User{
		ID:        f.nextID,
		Name:      profile.Name,
		Email:     profile.Email,
		CreatedAt: time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) Probe(ctx context.Context) domain.ProbeResult {
	return domain.ProbeResult{Name: "postgres", OK: f.err == nil}
}

type fakePrefStore struct {
	saved map[int64]map[string]any
	err   error
}

func newFakePrefStore() *fakePrefStore {
	return &fakePrefStore{saved: make(map[int64]map[string]any)}
}

func (f *fakePrefStore) Save(ctx context.Context, userID int64, prefs map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.saved[userID] = prefs
	return nil
}

func (f *fakePrefStore) Get(ctx context.Context, userID int64) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	prefs, ok := f.saved[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return prefs, nil
}

func (f *fakePrefStore) Probe(ctx context.Context) domain.ProbeResult {
	return domain.ProbeResult{Name: "mongodb", OK: f.err == nil}
}

type fakeSessionStore struct {
	sessions map[int64]*domain.Session
	err      error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[int64]*domain.Session)}
}

func (f *fakeSessionStore) Put(ctx context.Context, session *domain.Session) error {
	if f.err != nil {
		return f.err
	}
	f.sessions[session.UserID] = session
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	session, ok := f.sessions[userID]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) Probe(ctx context.Context) domain.ProbeResult {
	return domain.ProbeResult{Name: "redis", OK: f.err == nil}
}

type fakeSearchIndex struct {
	docs []domain.User
	err  error
}

func (f *fakeSearchIndex) Index(ctx context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.docs = append(f.docs, *user)
	return nil
}

func (f *fakeSearchIndex) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	hits := []domain.SearchHit{}
	for _, doc := range f.docs {
		if doc.Name == query || doc.Email == query {
			hits = append(hits, domain.SearchHit{UserID: fmt.Sprint(doc.ID), Score: 1.0})
		}
	}
	return hits, nil
}

func (f *fakeSearchIndex) Probe(ctx context.Context) domain.ProbeResult {
	return domain.ProbeResult{Name: "elasticsearch", OK: f.err == nil}
}

type fakeNotifier struct {
	published []mq.WelcomePayload
	err       error
}

func (f *fakeNotifier) PublishWelcome(ctx context.Context, payload mq.WelcomePayload) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, payload)
	return nil
}

type fakeProber struct {
	name string
	err  error
}

func (f *fakeProber) Probe(ctx context.Context) domain.ProbeResult {
	result := domain.ProbeResult{Name: f.name, OK: f.err == nil}
	if f.err != nil {
		result.Error = f.err.Error()
	}
	return result
}

type fixture struct {
	users    *fakeUserStore
	prefs    *fakePrefStore
	sessions *fakeSessionStore
	search   *fakeSearchIndex
	notifier *fakeNotifier
	broker   *fakeProber
	api      *fakeProber
	archive  *fakeProber
	client   *Client
}

func newFixture() *fixture {
	f := &fixture{
		users:    newFakeUserStore(),
		prefs:    newFakePrefStore(),
		sessions: newFakeSessionStore(),
		search:   &fakeSearchIndex{},
		notifier: &fakeNotifier{},
		broker:   &fakeProber{name: "rabbitmq"},
		api:      &fakeProber{name: "api"},
		archive:  &fakeProber{name: "minio"},
	}
	f.client = New(Config{
		Users:    f.users,
		Prefs:    f.prefs,
		Sessions: f.sessions,
		Search:   f.search,
		Notifier: f.notifier,
		Broker:   f.broker,
		API:      f.api,
		Archive:  f.archive,
	})
	return f
}

var sampleProfile = domain.UserProfile{
	Name:        "Alice Johnson",
	Email:       "alice@example.com",
	Preferences: map[string]any{"theme": "dark"},
}

// --- CreateUser ---

func TestCreateUser_FansOutToAllStores(t *testing.T) {
	f := newFixture()

	user, err := f.client.CreateUser(context.Background(), sampleProfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID == 0 {
		t.Error("user id should be generated")
	}
	if _, ok := f.prefs.saved[user.ID]; !ok {
		t.Error("preferences not saved")
	}
	if _, ok := f.sessions.sessions[user.ID]; !ok {
		t.Error("session not cached")
	}
	if len(f.search.docs) != 1 {
		t.Errorf("indexed docs = %d, want 1", len(f.search.docs))
	}
	if len(f.notifier.published) != 1 {
		t.Fatalf("published messages = %d, want 1", len(f.notifier.published))
	}
	if f.notifier.published[0].UserID != user.ID {
		t.Error("welcome message carries wrong user id")
	}
}

// Read-after-write в рамках одного процесса: сессия, записанная
// при создании, сразу читается из кэша.
func TestCreateUser_ThenFetchSession(t *testing.T) {
	f := newFixture()

	user, err := f.client.CreateUser(context.Background(), sampleProfile)
	if err != nil {
		t.Fatal(err)
	}

	session, err := f.client.FetchSession(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.UserID != user.ID {
		t.Errorf("session user id = %d, want %d", session.UserID, user.ID)
	}
	if !session.IsActive() {
		t.Error("session should be active")
	}
	if session.Token == "" {
		t.Error("session token should be set")
	}
}

// Отказ на середине оставляет ранние шаги записанными:
// атомарности между хранилищами нет.
func TestCreateUser_MidFlightFailureLeavesEarlierWrites(t *testing.T) {
	f := newFixture()
	f.search.err = errors.New("index unavailable")

	user, err := f.client.CreateUser(context.Background(), sampleProfile)
	if err == nil {
		t.Fatal("expected error from search step")
	}
	if user == nil {
		t.Fatal("user from earlier step should be returned")
	}

	// Шаги до отказа выполнены.
	if _, ok := f.prefs.saved[user.ID]; !ok {
		t.Error("preferences should have been saved before the failure")
	}
	if _, ok := f.sessions.sessions[user.ID]; !ok {
		t.Error("session should have been cached before the failure")
	}
	// Шаг после отказа не выполнен.
	if len(f.notifier.published) != 0 {
		t.Error("welcome message should not be published after a failed step")
	}
}

// Отмена контекста прекращает выдачу следующих шагов без отката.
func TestCreateUser_CancellationStopsFurtherSteps(t *testing.T) {
	f := newFixture()

	ctx, cancel := context.WithCancel(context.Background())

	// Отменяем сразу после первого шага: Create у фейка ctx не
	// проверяет, поэтому строка будет записана.
	cancel()

	user, err := f.client.CreateUser(ctx, sampleProfile)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if user == nil {
		t.Fatal("user row written before cancellation should be returned")
	}

	if len(f.prefs.saved) != 0 {
		t.Error("no further steps should run after cancellation")
	}
	if len(f.notifier.published) != 0 {
		t.Error("no message should be published after cancellation")
	}
}

// --- SearchUsers ---

// Поиск до какой-либо индексации — пустой результат, не ошибка.
func TestSearchUsers_BeforeAnyIndexing(t *testing.T) {
	f := newFixture()

	hits, err := f.client.SearchUsers(context.Background(), "Alice Johnson")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %d, want 0", len(hits))
	}
}

func TestSearchUsers_FindsIndexedUser(t *testing.T) {
	f := newFixture()

	user, err := f.client.CreateUser(context.Background(), sampleProfile)
	if err != nil {
		t.Fatal(err)
	}

	hits, err := f.client.SearchUsers(context.Background(), "Alice Johnson")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].UserID != fmt.Sprint(user.ID) {
		t.Errorf("hit user id = %s, want %d", hits[0].UserID, user.ID)
	}
}

// --- FetchSession ---

func TestFetchSession_MissIsTypedNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.client.FetchSession(context.Background(), 404)
	if !errors.Is(err, store.ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

// Недоступный кэш — различимая ошибка, а не зависание
// и не ErrSessionNotFound.
func TestFetchSession_UnreachableStoreSurfaces(t *testing.T) {
	f := newFixture()
	f.sessions.err = fmt.Errorf("%w: dial tcp: connection refused", store.ErrStoreUnreachable)

	_, err := f.client.FetchSession(context.Background(), 1)
	if !errors.Is(err, store.ErrStoreUnreachable) {
		t.Fatalf("error = %v, want ErrStoreUnreachable", err)
	}
	if errors.Is(err, store.ErrSessionNotFound) {
		t.Error("unreachable store must not look like a cache miss")
	}
}

// --- FetchUser ---

// Чтение обратно после создания: строка пользователя + предпочтения.
func TestFetchUser_ReadsBackUserAndPreferences(t *testing.T) {
	f := newFixture()

	created, err := f.client.CreateUser(context.Background(), sampleProfile)
	if err != nil {
		t.Fatal(err)
	}

	user, prefs, err := f.client.FetchUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != sampleProfile.Email {
		t.Errorf("email = %s, want %s", user.Email, sampleProfile.Email)
	}
	if prefs["theme"] != "dark" {
		t.Errorf("preferences theme = %v, want dark", prefs["theme"])
	}
}

// Отсутствующие предпочтения — не ошибка: создание не атомарно.
func TestFetchUser_MissingPreferencesNotFatal(t *testing.T) {
	f := newFixture()

	created, err := f.client.CreateUser(context.Background(), sampleProfile)
	if err != nil {
		t.Fatal(err)
	}
	delete(f.prefs.saved, created.ID)

	user, prefs, err := f.client.FetchUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("user row should be returned without preferences")
	}
	if prefs != nil {
		t.Errorf("preferences = %v, want nil", prefs)
	}
}

func TestFetchUser_UnknownID(t *testing.T) {
	f := newFixture()

	_, _, err := f.client.FetchUser(context.Background(), 404)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

// --- HealthCheck ---

// Health-проверка тотальна по всем шести сервисам плюс MinIO:
// реляционная БД, документы, кэш, индекс, брокер, API, архив.
func TestHealthCheck_TotalOverStores(t *testing.T) {
	f := newFixture()
	f.search.err = errors.New("down")

	results := f.client.HealthCheck(context.Background(), time.Second)

	all := []string{"postgres", "mongodb", "redis", "elasticsearch", "rabbitmq", "api", "minio"}
	if len(results) != len(all) {
		t.Errorf("results = %d, want %d", len(results), len(all))
	}
	for _, name := range all {
		probe, ok := results[name]
		if !ok {
			t.Errorf("no probe result for %s", name)
			continue
		}
		if name == "elasticsearch" && probe.OK {
			t.Error("elasticsearch probe should fail")
		}
		if name == "postgres" && !probe.OK {
			t.Error("postgres probe should pass")
		}
		if name == "rabbitmq" && !probe.OK {
			t.Error("rabbitmq probe should pass")
		}
	}
}

// Недоступный брокер виден в результате, не прячется за nil-пропуском.
func TestHealthCheck_BrokerFailureSurfaces(t *testing.T) {
	f := newFixture()
	f.broker.err = errors.New("dial tcp: connection refused")

	results := f.client.HealthCheck(context.Background(), time.Second)

	probe, ok := results["rabbitmq"]
	if !ok {
		t.Fatal("no probe result for rabbitmq")
	}
	if probe.OK {
		t.Error("rabbitmq probe should fail")
	}
	if probe.Error == "" {
		t.Error("probe error should carry the cause")
	}
}

// Без опциональных проверок результат покрывает четыре хранилища.
func TestHealthCheck_OptionalProbersOmitted(t *testing.T) {
	f := newFixture()
	client := New(Config{
		Users:    f.users,
		Prefs:    f.prefs,
		Sessions: f.sessions,
		Search:   f.search,
		Notifier: f.notifier,
	})

	results := client.HealthCheck(context.Background(), time.Second)
	if len(results) != 4 {
		t.Errorf("results = %d, want 4", len(results))
	}
	if _, ok := results["rabbitmq"]; ok {
		t.Error("rabbitmq should be absent when no broker prober is wired")
	}
}
