package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/internal/storage"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет тестов.
// Адрес контейнера прокидывается в ENV DATABASE_URL, а каждый тест
// создаёт свою БД с уникальным именем (см. newTestConfig).
//
// Запуск:
//
//	GO_TEST_INTEGRATION=1 go test ./internal/storage/mongo -v -count=1
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("DATABASE_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// skipUnlessIntegration пропускает тесты, которым нужен реальный MongoDB.
func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}
}

// newTestConfig создаёт конфиг с отдельной тестовой БД.
func newTestConfig(t *testing.T) config.DBConfig {
	t.Helper()

	baseURL := os.Getenv("DATABASE_URL")
	if baseURL == "" {
		baseURL = "mongodb://localhost:27017"
	}

	dbName := "warnings_test_" + uuid.New().String()
	if baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL + dbName
	} else {
		baseURL = baseURL + "/" + dbName
	}

	return config.DBConfig{URL: baseURL}
}

// mustNewMongo создаёт подключение к тестовой БД и регистрирует очистку по завершении теста.
func mustNewMongo(t *testing.T) *Mongo {
	t.Helper()
	skipUnlessIntegration(t)

	cfg := newTestConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("cannot connect to MongoDB in container: %v (DATABASE_URL=%s)", err, cfg.URL)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.Local)
}

func kenya(batch string) models.Warning {
	return models.Warning{
		CountryCode: "KE",
		Type:        "Warning",
		StartDate:   day(2024, 6, 1),
		Source:      "US State Department",
		ColorClass:  models.ColorClassWarning,
		BatchUUID:   batch,
	}
}

// TestDatabaseFromURI — имя БД из пути URI или дефолт.
func TestDatabaseFromURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"mongodb://localhost:27017/bonvoyage", "bonvoyage"},
		{"mongodb://u:p@h:1/db?replicaSet=rs0", "db"},
		{"mongodb://localhost:27017", defaultDBName},
		{"mongodb://localhost:27017/", defaultDBName},
		{"::bad::", defaultDBName},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, databaseFromURI(tt.in), tt.in)
	}
}

// TestNew_EmptyURL — пустой URL отвергается до подключения.
func TestNew_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.DBConfig{})
	require.Error(t, err)
}

// TestUpsertWarning_InsertThenUpdate — первая запись вставляется, повтор по ключу — обновление.
func TestUpsertWarning_InsertThenUpdate(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	inserted, err := m.UpsertWarning(ctx, kenya("b1"))
	require.NoError(t, err)
	require.True(t, inserted)

	// Тот же ключ, другие неключевые поля.
	w := kenya("b2")
	w.Link = "http://travel.state.gov/kenya.html"
	w.StartDate = day(2024, 7, 1)

	inserted, err = m.UpsertWarning(ctx, w)
	require.NoError(t, err)
	require.False(t, inserted)

	all, err := m.ListWarnings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "b2", all[0].BatchUUID)
	require.Equal(t, "http://travel.state.gov/kenya.html", all[0].Link)
	require.True(t, all[0].StartDate.Equal(day(2024, 7, 1)))
	require.NotEmpty(t, all[0].ID)
}

// TestUpsertWarning_DifferentKeyInserts — отличие в любом поле ключа даёт новую запись.
func TestUpsertWarning_DifferentKeyInserts(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	base := kenya("b1")
	variants := []models.Warning{base}

	v := base
	v.TextOverview = "overview"
	variants = append(variants, v)

	v = base
	v.ColorClass = models.ColorClassDanger
	variants = append(variants, v)

	v = base
	v.Source = "Other"
	variants = append(variants, v)

	v = base
	v.CountryCode = "US"
	variants = append(variants, v)

	for _, w := range variants {
		inserted, err := m.UpsertWarning(ctx, w)
		require.NoError(t, err)
		require.True(t, inserted)
	}

	all, err := m.ListWarnings(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(variants))
}

// TestUpsertWarning_ConcurrentSameKey — конкурентные upsert одного ключа дают ровно одну вставку.
func TestUpsertWarning_ConcurrentSameKey(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var inserts int

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ins, err := m.UpsertWarning(ctx, kenya("b1"))
			require.NoError(t, err)
			if ins {
				mu.Lock()
				inserts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, inserts)

	all, err := m.ListWarnings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

// TestDeleteStaleWarnings_ScopedBySource — удаляются только старые batch своего источника.
func TestDeleteStaleWarnings_ScopedBySource(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	old := kenya("old")
	old.TextOverview = "stale"
	cur := kenya("new")
	other := kenya("foreign")
	other.Source = "Other Authority"

	for _, w := range []models.Warning{old, cur, other} {
		_, err := m.UpsertWarning(ctx, w)
		require.NoError(t, err)
	}

	n, err := m.DeleteStaleWarnings(ctx, "US State Department", "new")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	all, err := m.ListWarnings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	batches := map[string]bool{}
	for _, w := range all {
		batches[w.BatchUUID] = true
	}
	require.True(t, batches["new"])
	require.True(t, batches["foreign"])
}

// TestWarningsByCountry_SortedByStartDesc — выборка одной страны, новые первыми.
func TestWarningsByCountry_SortedByStartDesc(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := kenya("b")
	a.TextOverview = "a"
	a.StartDate = day(2024, 1, 1)
	b := kenya("b")
	b.TextOverview = "b"
	b.StartDate = day(2024, 5, 1)
	us := kenya("b")
	us.CountryCode = "US"

	for _, w := range []models.Warning{a, b, us} {
		_, err := m.UpsertWarning(ctx, w)
		require.NoError(t, err)
	}

	got, err := m.WarningsByCountry(ctx, "KE")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "b", got[0].TextOverview)
	require.Equal(t, "a", got[1].TextOverview)
}

// TestFindAffectedRequests_ElemMatch — страна и дата должны совпасть на одном отрезке.
func TestFindAffectedRequests_ElemMatch(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	volunteer := primitive.NewObjectID()
	reviewer := primitive.NewObjectID()

	docs := []any{
		bson.D{
			{Key: "_id", Value: "match"},
			{Key: "volunteer", Value: volunteer},
			{Key: "reviewer", Value: reviewer},
			{Key: "legs", Value: bson.A{
				bson.D{{Key: "countryCode", Value: "KE"}, {Key: "startDate", Value: day(2024, 6, 1)}},
			}},
		},
		// Страна на одном отрезке, подходящая дата — на другом: не совпадает.
		bson.D{
			{Key: "_id", Value: "split"},
			{Key: "volunteer", Value: volunteer},
			{Key: "legs", Value: bson.A{
				bson.D{{Key: "countryCode", Value: "KE"}, {Key: "startDate", Value: day(2024, 1, 1)}},
				bson.D{{Key: "countryCode", Value: "US"}, {Key: "startDate", Value: day(2024, 9, 1)}},
			}},
		},
		bson.D{
			{Key: "_id", Value: "before"},
			{Key: "volunteer", Value: "string-user"},
			{Key: "legs", Value: bson.A{
				bson.D{{Key: "countryCode", Value: "KE"}, {Key: "startDate", Value: day(2024, 4, 30)}},
			}},
		},
	}
	_, err := m.requests.InsertMany(ctx, docs)
	require.NoError(t, err)

	got, err := m.FindAffectedRequests(ctx, "KE", day(2024, 5, 1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "match", got[0].ID)
	require.Equal(t, volunteer.Hex(), got[0].Volunteer)
	require.Equal(t, reviewer.Hex(), got[0].Reviewer)
	require.Len(t, got[0].Legs, 1)
	require.True(t, got[0].Legs[0].StartDate.Equal(day(2024, 6, 1)))

	// Дата предупреждения позже начала отрезка — заявка не затронута.
	got, err = m.FindAffectedRequests(ctx, "KE", day(2024, 7, 1))
	require.NoError(t, err)
	require.Empty(t, got)
}

// TestUserByID — ObjectID, строковый id, отсутствие и пустой id.
func TestUserByID(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	oid := primitive.NewObjectID()
	_, err := m.users.InsertMany(ctx, []any{
		bson.D{{Key: "_id", Value: oid}, {Key: "phones", Value: bson.A{"+15550001111", "+15550002222"}}},
		bson.D{{Key: "_id", Value: "legacy-user"}},
	})
	require.NoError(t, err)

	u, err := m.UserByID(ctx, oid.Hex())
	require.NoError(t, err)
	require.Equal(t, oid.Hex(), u.ID)
	require.Equal(t, []string{"+15550001111", "+15550002222"}, u.Phones)

	u, err = m.UserByID(ctx, "legacy-user")
	require.NoError(t, err)
	require.Empty(t, u.Phones)

	_, err = m.UserByID(ctx, primitive.NewObjectID().Hex())
	require.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = m.UserByID(ctx, "")
	require.True(t, errors.Is(err, storage.ErrNotFound))
}

// TestPing — живое соединение пингуется.
func TestPing(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	require.NoError(t, m.Ping(ctx))
}
