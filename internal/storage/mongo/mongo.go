package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/internal/storage"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

const (
	warningsCollection = "warnings"
	requestsCollection = "requests"
	usersCollection    = "users"
	defaultDBName      = "bonvoyage"
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	client   *mongodriver.Client
	db       *mongodriver.Database
	warnings *mongodriver.Collection
	requests *mongodriver.Collection
	users    *mongodriver.Collection
}

// New подключается к MongoDB, проверяет его, подготавливает коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg config.DBConfig) (*Mongo, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.URL))

	m := &Mongo{
		client:   cli,
		db:       db,
		warnings: db.Collection(warningsCollection),
		requests: db.Collection(requestsCollection),
		users:    db.Collection(usersCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Ping проверяет доступность primary.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создает индексы, необходимые конвейеру.
// - уникальный естественный ключ предупреждения (countryCode, textOverview, colorClass, source)
// - удаление устаревших: source + batchUUID
// - выдача по стране: countryCode + startDate(desc)
// - поиск затронутых заявок: legs.countryCode + legs.startDate
//
// Перед уникальным индексом дубликаты естественного ключа (их могли оставить
// прежние неатомарные upsert) схлопываются, см. dedupeWarnings.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	removed, err := m.dedupeWarnings(ctx)
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: dedupe warnings: %w", err)
	}
	if removed > 0 {
		log.From(ctx).Warn("mongo_duplicate_warnings_removed", slog.Int64("count", removed))
	}

	warningModels := []mongodriver.IndexModel{
		{
			Keys: bson.D{
				{Key: "countryCode", Value: 1},
				{Key: "textOverview", Value: 1},
				{Key: "colorClass", Value: 1},
				{Key: "source", Value: 1},
			},
			Options: options.Index().SetName("warning_natural_key").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "source", Value: 1}, {Key: "batchUUID", Value: 1}},
			Options: options.Index().SetName("source_batch"),
		},
		{
			Keys:    bson.D{{Key: "countryCode", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index().SetName("country_start_desc"),
		},
	}

	if _, err := m.warnings.Indexes().CreateMany(ctx, warningModels); err != nil {
		return fmt.Errorf("mongo ensure indexes: warnings: %w", err)
	}

	requestModels := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "legs.countryCode", Value: 1}, {Key: "legs.startDate", Value: 1}},
			Options: options.Index().SetName("legs_country_start"),
		},
	}

	if _, err := m.requests.Indexes().CreateMany(ctx, requestModels); err != nil {
		return fmt.Errorf("mongo ensure indexes: requests: %w", err)
	}

	return nil
}

// dedupeWarnings оставляет по одной записи на естественный ключ (с наибольшим _id,
// т.е. самую новую для ObjectID) и возвращает число удалённых. Отсутствующее поле
// и null считаются одним значением, как в уникальном индексе.
func (m *Mongo) dedupeWarnings(ctx context.Context) (int64, error) {
	keyField := func(name string) bson.E {
		return bson.E{Key: name, Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + name, nil}}}}
	}

	pipeline := mongodriver.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				keyField("countryCode"),
				keyField("textOverview"),
				keyField("colorClass"),
				keyField("source"),
			}},
			{Key: "keep", Value: bson.D{{Key: "$first", Value: "$_id"}}},
			{Key: "ids", Value: bson.D{{Key: "$push", Value: "$_id"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "count", Value: bson.D{{Key: "$gt", Value: 1}}}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "stale", Value: bson.D{{Key: "$setDifference", Value: bson.A{"$ids", bson.A{"$keep"}}}}},
		}}},
	}

	cur, err := m.warnings.Aggregate(ctx, pipeline, options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var stale []any
	for cur.Next(ctx) {
		var group struct {
			Stale []any `bson:"stale"`
		}
		if err := cur.Decode(&group); err != nil {
			return 0, err
		}
		stale = append(stale, group.Stale...)
	}
	if err := cur.Err(); err != nil {
		return 0, err
	}

	if len(stale) == 0 {
		return 0, nil
	}

	res, err := m.warnings.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: stale}}}})
	if err != nil {
		return 0, err
	}

	return res.DeletedCount, nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает разумное значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Storage = (*Mongo)(nil)
