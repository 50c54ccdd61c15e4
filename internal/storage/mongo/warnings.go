package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
)

// warningDoc — документ коллекции warnings.
// Необязательные строки пишутся явно (""), чтобы естественный ключ сравнивался одинаково.
type warningDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CountryCode  string             `bson:"countryCode"`
	Type         string             `bson:"type"`
	StartDate    time.Time          `bson:"startDate"`
	Source       string             `bson:"source"`
	Link         string             `bson:"link"`
	Text         string             `bson:"text"`
	TextOverview string             `bson:"textOverview"`
	ColorClass   string             `bson:"colorClass"`
	BatchUUID    string             `bson:"batchUUID"`
}

func toWarningDoc(w models.Warning) warningDoc {
	return warningDoc{
		CountryCode:  w.CountryCode,
		Type:         w.Type,
		StartDate:    w.StartDate,
		Source:       w.Source,
		Link:         w.Link,
		Text:         w.Text,
		TextOverview: w.TextOverview,
		ColorClass:   w.ColorClass,
		BatchUUID:    w.BatchUUID,
	}
}

func (d warningDoc) toModel() models.Warning {
	var start time.Time
	if !d.StartDate.IsZero() {
		// Храним момент в UTC, наружу отдаём локальную полночь.
		start = d.StartDate.Local()
	}

	return models.Warning{
		ID:           d.ID.Hex(),
		CountryCode:  d.CountryCode,
		Type:         d.Type,
		StartDate:    start,
		Source:       d.Source,
		Link:         d.Link,
		Text:         d.Text,
		TextOverview: d.TextOverview,
		ColorClass:   d.ColorClass,
		BatchUUID:    d.BatchUUID,
	}
}

// naturalKeyFilter — фильтр по естественному ключу предупреждения.
func naturalKeyFilter(k models.WarningKey) bson.D {
	return bson.D{
		{Key: "countryCode", Value: k.CountryCode},
		{Key: "textOverview", Value: k.TextOverview},
		{Key: "colorClass", Value: k.ColorClass},
		{Key: "source", Value: k.Source},
	}
}

// UpsertWarning заменяет документ с тем же естественным ключом или вставляет новый.
// Гонка двух вставок одного ключа ловится уникальным индексом: проигравший
// повторяет замену и получает inserted=false.
func (m *Mongo) UpsertWarning(ctx context.Context, w models.Warning) (bool, error) {
	const op = "storage/mongo/UpsertWarning"

	filter := naturalKeyFilter(w.NaturalKey())
	doc := toWarningDoc(w)
	opts := options.Replace().SetUpsert(true)

	res, err := m.warnings.ReplaceOne(ctx, filter, doc, opts)
	if err != nil {
		if !mongodriver.IsDuplicateKeyError(err) {
			return false, fmt.Errorf("%s: replace: %w", op, err)
		}

		res, err = m.warnings.ReplaceOne(ctx, filter, doc, opts)
		if err != nil {
			return false, fmt.Errorf("%s: replace retry: %w", op, err)
		}
	}

	return res.UpsertedCount > 0, nil
}

// DeleteStaleWarnings удаляет предупреждения источника из прошлых прогонов.
func (m *Mongo) DeleteStaleWarnings(ctx context.Context, source, batchUUID string) (int64, error) {
	const op = "storage/mongo/DeleteStaleWarnings"

	filter := bson.D{
		{Key: "source", Value: source},
		{Key: "batchUUID", Value: bson.D{{Key: "$ne", Value: batchUUID}}},
	}

	res, err := m.warnings.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: delete: %w", op, err)
	}

	return res.DeletedCount, nil
}

// ListWarnings возвращает все предупреждения.
func (m *Mongo) ListWarnings(ctx context.Context) ([]models.Warning, error) {
	const op = "storage/mongo/ListWarnings"

	out, err := m.findWarnings(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// WarningsByCountry возвращает предупреждения одной страны.
func (m *Mongo) WarningsByCountry(ctx context.Context, countryCode string) ([]models.Warning, error) {
	const op = "storage/mongo/WarningsByCountry"

	out, err := m.findWarnings(ctx, bson.D{{Key: "countryCode", Value: countryCode}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (m *Mongo) findWarnings(ctx context.Context, filter bson.D) ([]models.Warning, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "countryCode", Value: 1},
		{Key: "startDate", Value: -1},
		{Key: "_id", Value: 1},
	})

	cur, err := m.warnings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []warningDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := make([]models.Warning, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}

	return out, nil
}
