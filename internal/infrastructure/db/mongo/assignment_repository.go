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

const collectionAssignments = "counsellor_assignments"

// AssignmentRepository implements ports.AssignmentRepository using MongoDB.
type AssignmentRepository struct {
	col *mongo.Collection
}

var _ ports.AssignmentRepository = (*AssignmentRepository)(nil)

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{col: db.Collection(collectionAssignments)}
}

type mongoAssignment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CounsellorID primitive.ObjectID `bson:"counsellor_id"`
	CounsilliID  primitive.ObjectID `bson:"counsilli_id"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.CounsellorAssignment) (*domain.CounsellorAssignment, error) {
	counsellor, ok := objectID(a.CounsellorID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed counsellor id", domain.ErrUnknownCounsellor)
	}
	counsilli, ok := objectID(a.CounsilliID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed counsilli id", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAssignment{
		ID:           primitive.NewObjectID(),
		CounsellorID: counsellor,
		CounsilliID:  counsilli,
		CreatedAt:    a.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}

	return &domain.CounsellorAssignment{
		ID:           doc.ID.Hex(),
		CounsellorID: a.CounsellorID,
		CounsilliID:  a.CounsilliID,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// DeleteByCounsilli removes the counsilli's assignment, if any.
func (r *AssignmentRepository) DeleteByCounsilli(ctx context.Context, counsilliID string) error {
	oid, ok := objectID(counsilliID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"counsilli_id": oid}); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) Exists(ctx context.Context, counsellorID, counsilliID string) (bool, error) {
	counsellor, ok := objectID(counsellorID)
	if !ok {
		return false, nil
	}
	counsilli, ok := objectID(counsilliID)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx,
		bson.M{"counsellor_id": counsellor, "counsilli_id": counsilli},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return n > 0, nil
}

func (r *AssignmentRepository) CountByCounsellor(ctx context.Context, counsellorID string) (int64, error) {
	oid, ok := objectID(counsellorID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"counsellor_id": oid})
	if err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return n, nil
}

type mongoSummary struct {
	ID             primitive.ObjectID `bson:"_id"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	Role           string             `bson:"role"`
	LastSubmission *time.Time         `bson:"last_submission"`
}

// ListSummaries joins every assignment of the counsellor with the counsilli's
// profile and the latest date across all of their entries.
func (r *AssignmentRepository) ListSummaries(ctx context.Context, counsellorID string) ([]domain.CounsilliSummary, error) {
	oid, ok := objectID(counsellorID)
	if !ok {
		return []domain.CounsilliSummary{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"counsellor_id": oid}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "counsilli_id",
			"foreignField": "_id",
			"as":           "counsilli",
		}}},
		{{Key: "$unwind", Value: "$counsilli"}},
		{{Key: "$lookup", Value: bson.M{
			"from": collectionSadhanas,
			"let":  bson.M{"cid": "$counsilli_id"},
			"pipeline": mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"$expr": bson.M{"$eq": bson.A{"$counsilli_id", "$$cid"}}}}},
				{{Key: "$group", Value: bson.M{"_id": nil, "last": bson.M{"$max": "$date"}}}},
			},
			"as": "latest",
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":             "$counsilli._id",
			"name":            "$counsilli.name",
			"email":           "$counsilli.email",
			"role":            "$counsilli.role",
			"last_submission": bson.M{"$arrayElemAt": bson.A{"$latest.last", 0}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate counsillis: %w", err)
	}
	defer cur.Close(ctx)

	out := []domain.CounsilliSummary{}
	for cur.Next(ctx) {
		var ms mongoSummary
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode counsilli summary: %w", err)
		}
		out = append(out, domain.CounsilliSummary{
			ID:             ms.ID.Hex(),
			Name:           ms.Name,
			Email:          ms.Email,
			Role:           domain.Role(ms.Role),
			LastSubmission: utcPtr(ms.LastSubmission),
		})
	}
	return out, cur.Err()
}

// EnsureIndexes creates necessary indexes on the assignments collection.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "counsilli_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "counsellor_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
