package lead

import (
	"context"

	"github.com/shahkeval/lead-management-sub000/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Lead, error)
	List(ctx context.Context, query bson.M, limit, offset int64, sortBy string, sortOrder int) ([]Lead, int64, error)
	All(ctx context.Context, query bson.M, sortBy string, sortOrder int) ([]Lead, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	CountLiveByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type LeadRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewLeadRepository(mongodb *database.MongodbDB) LeadRepository {
	return &LeadRepositoryImpl{
		Collection: mongodb.DB.Collection("leads"),
	}
}

func (r *LeadRepositoryImpl) Create(ctx context.Context, lead *Lead) error {
	_, err := r.Collection.InsertOne(ctx, lead)
	return err
}

// FindByID excludes soft-deleted leads; a deleted lead is gone from the
// API's point of view.
func (r *LeadRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Lead, error) {
	var lead Lead
	err := r.Collection.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&lead)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepositoryImpl) List(ctx context.Context, query bson.M, limit, offset int64, sortBy string, sortOrder int) ([]Lead, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var leads []Lead
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func (r *LeadRepositoryImpl) All(ctx context.Context, query bson.M, sortBy string, sortOrder int) ([]Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: sortOrder}})

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var leads []Lead
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *LeadRepositoryImpl) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *LeadRepositoryImpl) CountLiveByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"emp_id": ownerID, "is_deleted": false})
}

func (r *LeadRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "lead_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "emp_id", Value: 1}, {Key: "is_deleted", Value: 1}},
		},
	})
	return err
}
