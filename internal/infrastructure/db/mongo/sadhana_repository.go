package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

const collectionSadhanas = "sadhanas"

// SadhanaRepository implements ports.SadhanaRepository using MongoDB.
type SadhanaRepository struct {
	col *mongo.Collection
}

var _ ports.SadhanaRepository = (*SadhanaRepository)(nil)

func NewSadhanaRepository(db *mongo.Database) *SadhanaRepository {
	return &SadhanaRepository{col: db.Collection(collectionSadhanas)}
}

type mongoSadhana struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CounsilliID   primitive.ObjectID `bson:"counsilli_id"`
	Date          time.Time          `bson:"date"`
	Day           string             `bson:"day"`
	WakeUp        string             `bson:"wake_up"`
	JapaCompleted string             `bson:"japa_completed"`
	DayRest       string             `bson:"day_rest"`
	Hearing       string             `bson:"hearing"`
	Reading       string             `bson:"reading"`
	Study         string             `bson:"study"`
	TimeToBed     string             `bson:"time_to_bed"`
	Seva          string             `bson:"seva"`
	Concern       string             `bson:"concern,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (m *mongoSadhana) toDomain() *domain.SadhanaEntry {
	return &domain.SadhanaEntry{
		ID:            m.ID.Hex(),
		CounsilliID:   m.CounsilliID.Hex(),
		Date:          m.Date.UTC(),
		Day:           m.Day,
		WakeUp:        m.WakeUp,
		JapaCompleted: m.JapaCompleted,
		DayRest:       m.DayRest,
		Hearing:       m.Hearing,
		Reading:       m.Reading,
		Study:         m.Study,
		TimeToBed:     m.TimeToBed,
		Seva:          m.Seva,
		Concern:       m.Concern,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

// Create inserts a new entry. The (counsilli_id, day) index turns a racing
// second insert into domain.ErrDuplicateEntry.
func (r *SadhanaRepository) Create(ctx context.Context, e *domain.SadhanaEntry) (*domain.SadhanaEntry, error) {
	owner, ok := objectID(e.CounsilliID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed counsilli id", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSadhana{
		ID:            primitive.NewObjectID(),
		CounsilliID:   owner,
		Date:          e.Date.UTC(),
		Day:           e.Day,
		WakeUp:        e.WakeUp,
		JapaCompleted: e.JapaCompleted,
		DayRest:       e.DayRest,
		Hearing:       e.Hearing,
		Reading:       e.Reading,
		Study:         e.Study,
		TimeToBed:     e.TimeToBed,
		Seva:          e.Seva,
		Concern:       e.Concern,
		CreatedAt:     e.CreatedAt.UTC(),
	}
	if doc.Day == "" {
		doc.Day = domain.DayKey(doc.Date)
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("insert sadhana: %w", err)
	}
	return doc.toDomain(), nil
}

// ExistsBetween reports whether the counsilli has an entry dated within
// [start, end], both inclusive.
func (r *SadhanaRepository) ExistsBetween(ctx context.Context, counsilliID string, start, end time.Time) (bool, error) {
	owner, ok := objectID(counsilliID)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"counsilli_id": owner,
		"date":         bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check sadhana: %w", err)
	}
	return n > 0, nil
}

func (r *SadhanaRepository) Recent(ctx context.Context, counsilliID string, limit int64) ([]*domain.SadhanaEntry, error) {
	owner, ok := objectID(counsilliID)
	if !ok {
		return []*domain.SadhanaEntry{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.M{"counsilli_id": owner}, opts)
}

// List returns entries in [From, To) ascending by date. Zero bounds are open.
func (r *SadhanaRepository) List(ctx context.Context, q ports.EntryRange) ([]*domain.SadhanaEntry, error) {
	owner, ok := objectID(q.CounsilliID)
	if !ok {
		return []*domain.SadhanaEntry{}, nil
	}

	filter := bson.M{"counsilli_id": owner}
	dateFilter := bson.M{}
	if !q.From.IsZero() {
		dateFilter["$gte"] = q.From.UTC()
	}
	if !q.To.IsZero() {
		dateFilter["$lt"] = q.To.UTC()
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *SadhanaRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.SadhanaEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find sadhanas: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.SadhanaEntry{}
	for cur.Next(ctx) {
		var ms mongoSadhana
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode sadhana: %w", err)
		}
		out = append(out, ms.toDomain())
	}
	return out, cur.Err()
}

// EnsureIndexes creates necessary indexes on the sadhanas collection.
func (r *SadhanaRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "counsilli_id", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "counsilli_id", Value: 1}, {Key: "date", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
