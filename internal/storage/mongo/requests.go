package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/internal/storage"
)

// refID — ссылка на документ: в данных встречаются и ObjectID, и строковые id.
type refID string

// UnmarshalBSONValue принимает ObjectID, строку или null.
func (r *refID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.ObjectID:
		*r = refID(rv.ObjectID().Hex())
	case bsontype.String:
		*r = refID(rv.StringValue())
	case bsontype.Null, bsontype.Undefined:
		*r = ""
	default:
		return fmt.Errorf("unsupported reference type %s", t)
	}

	return nil
}

// requestDoc — документ коллекции requests (только поля, нужные конвейеру).
type requestDoc struct {
	ID        refID    `bson:"_id"`
	Volunteer refID    `bson:"volunteer"`
	Reviewer  refID    `bson:"reviewer"`
	Legs      []legDoc `bson:"legs"`
}

type legDoc struct {
	CountryCode string    `bson:"countryCode"`
	StartDate   time.Time `bson:"startDate"`
}

func (d requestDoc) toModel() models.Request {
	legs := make([]models.Leg, 0, len(d.Legs))
	for _, l := range d.Legs {
		legs = append(legs, models.Leg{CountryCode: l.CountryCode, StartDate: l.StartDate.Local()})
	}

	return models.Request{
		ID:        string(d.ID),
		Volunteer: string(d.Volunteer),
		Reviewer:  string(d.Reviewer),
		Legs:      legs,
	}
}

// userDoc — документ коллекции users (только телефоны).
type userDoc struct {
	ID     refID    `bson:"_id"`
	Phones []string `bson:"phones"`
}

// FindAffectedRequests ищет заявки с отрезком в стране countryCode, начинающимся не раньше since.
// Оба условия должны выполняться для одного и того же отрезка ($elemMatch).
func (m *Mongo) FindAffectedRequests(ctx context.Context, countryCode string, since time.Time) ([]models.Request, error) {
	const op = "storage/mongo/FindAffectedRequests"

	filter := bson.D{{Key: "legs", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
		{Key: "countryCode", Value: countryCode},
		{Key: "startDate", Value: bson.D{{Key: "$gte", Value: since}}},
	}}}}}

	cur, err := m.requests.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []requestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := make([]models.Request, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}

	return out, nil
}

// UserByID возвращает пользователя. Hex-строка ищется как ObjectID, иначе — как строковый _id.
func (m *Mongo) UserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage/mongo/UserByID"

	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var key any = id
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		key = oid
	}

	var doc userDoc
	if err := m.users.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: find: %w", op, err)
	}

	return &models.User{ID: string(doc.ID), Phones: doc.Phones}, nil
}
