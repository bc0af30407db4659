package lead

import (
	"context"
	"errors"
	"fmt"

	"github.com/shahkeval/lead-management-sub000/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceRepository hands out lead id sequence numbers. Allocation is an
// atomic $inc on a per-year counter document, so concurrent creates cannot
// collide.
type SequenceRepository interface {
	NextSequence(ctx context.Context, year int) (int, error)
}

type SequenceRepositoryImpl struct {
	Counters *mongo.Collection
	Leads    *mongo.Collection
}

func NewSequenceRepository(mongodb *database.MongodbDB) SequenceRepository {
	return &SequenceRepositoryImpl{
		Counters: mongodb.DB.Collection("counters"),
		Leads:    mongodb.DB.Collection("leads"),
	}
}

func (r *SequenceRepositoryImpl) NextSequence(ctx context.Context, year int) (int, error) {
	counterID := fmt.Sprintf("lead-%d", year)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := r.Counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	)

	var doc struct {
		Seq int `bson:"seq"`
	}
	err := res.Decode(&doc)
	if err == nil {
		return doc.Seq, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	// First allocation this year: seed the counter from the highest lead id
	// already present, so sequences continue from pre-counter data.
	seed, err := r.highestSequence(ctx, year)
	if err != nil {
		return 0, err
	}

	next := seed + 1
	_, err = r.Counters.InsertOne(ctx, bson.M{"_id": counterID, "seq": next})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the seeding race; the counter exists now, take the $inc path.
			return r.NextSequence(ctx, year)
		}
		return 0, err
	}
	return next, nil
}

func (r *SequenceRepositoryImpl) highestSequence(ctx context.Context, year int) (int, error) {
	prefix := fmt.Sprintf("LED-%d-", year)
	opts := options.FindOne().
		SetSort(bson.D{{Key: "lead_id", Value: -1}}).
		SetProjection(bson.M{"lead_id": 1})

	var doc struct {
		LeadID string `bson:"lead_id"`
	}
	err := r.Leads.FindOne(ctx, bson.M{"lead_id": bson.M{"$regex": "^" + prefix}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}

	return ParseSequence(doc.LeadID), nil
}
