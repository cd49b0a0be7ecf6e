package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/realtyflow/crm-system/internal/core/domain"
	"github.com/realtyflow/crm-system/internal/core/ports"
)

const collectionProspects = "prospects"

type ProspectRepository struct {
	col *mongo.Collection
}

func NewProspectRepository(db *mongo.Database) *ProspectRepository {
	return &ProspectRepository{col: db.Collection(collectionProspects)}
}

// Create inserts a new prospect document and backfills the generated id.
func (r *ProspectRepository) Create(ctx context.Context, p *domain.Prospect) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert prospect: %w", err)
	}
	return nil
}

// FindByID retrieves a prospect. When agentID is non-empty, an additional
// filter by agent_id is applied (for RBAC).
func (r *ProspectRepository) FindByID(ctx context.Context, id string, agentID string) (*domain.Prospect, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if agentID != "" {
		filter["agent_id"] = agentID
	}

	var p domain.Prospect
	err := r.col.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProspectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns a page of prospects matching filter, sorted by score
// descending, and the total count.
func (r *ProspectRepository) List(ctx context.Context, f ports.ListProspectsFilter) ([]*domain.Prospect, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.AgentID != "" {
		filter["agent_id"] = f.AgentID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count prospects: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list prospects: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Prospect
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode prospects: %w", err)
	}
	return items, total, nil
}

// ListAll returns every prospect. Used by the score synchronizer's full
// scan; a generous timeout applies since collections can be large.
func (r *ProspectRepository) ListAll(ctx context.Context) ([]*domain.Prospect, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list all prospects: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Prospect
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode prospects: %w", err)
	}
	return items, nil
}

// Update replaces the mutable fields of a prospect document.
func (r *ProspectRepository) Update(ctx context.Context, p *domain.Prospect) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update prospect: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProspectNotFound
	}
	return nil
}

// UpdateScore persists only the cached score of one prospect.
func (r *ProspectRepository) UpdateScore(ctx context.Context, id string, score int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"score": score, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProspectNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the prospects collection.
func (r *ProspectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "agent_id", Value: 1}}},
		{Keys: bson.D{{Key: "score", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
