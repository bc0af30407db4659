package meeting

import (
	"context"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *Meeting) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Meeting, error)
	List(ctx context.Context, query bson.M, limit, offset int64, sortBy string, sortOrder int) ([]Meeting, int64, error)
	All(ctx context.Context, query bson.M, sortBy string, sortOrder int) ([]Meeting, error)
	FindActiveByDay(ctx context.Context, day time.Time) ([]Meeting, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type MeetingRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewMeetingRepository(mongodb *database.MongodbDB) MeetingRepository {
	return &MeetingRepositoryImpl{
		Collection: mongodb.DB.Collection("meetings"),
	}
}

func (r *MeetingRepositoryImpl) Create(ctx context.Context, meeting *Meeting) error {
	_, err := r.Collection.InsertOne(ctx, meeting)
	return err
}

func (r *MeetingRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Meeting, error) {
	var meeting Meeting
	err := r.Collection.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&meeting)
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepositoryImpl) List(ctx context.Context, query bson.M, limit, offset int64, sortBy string, sortOrder int) ([]Meeting, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var meetings []Meeting
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	return meetings, total, nil
}

func (r *MeetingRepositoryImpl) All(ctx context.Context, query bson.M, sortBy string, sortOrder int) ([]Meeting, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: sortOrder}})

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var meetings []Meeting
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// FindActiveByDay returns live Active meetings whose date falls on the
// given calendar day. Used by the morning reminder job.
func (r *MeetingRepositoryImpl) FindActiveByDay(ctx context.Context, day time.Time) ([]Meeting, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	query := bson.M{
		"is_deleted": false,
		"status":     "Active",
		"date":       bson.M{"$gte": start, "$lt": end},
	}
	return r.All(ctx, query, "start_time", 1)
}

func (r *MeetingRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
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

func (r *MeetingRepositoryImpl) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *MeetingRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "representor_name", Value: 1}, {Key: "is_deleted", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}},
		},
	})
	return err
}
