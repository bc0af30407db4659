package module

import (
	"context"

	"github.com/shahkeval/lead-management-sub000/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ModuleRepository interface {
	Create(ctx context.Context, module *Module) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Module, error)
	FindByNameAction(ctx context.Context, moduleName string, action Action) (*Module, error)
	List(ctx context.Context) ([]Module, error)
	FindLiveByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Module, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type ModuleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewModuleRepository(mongodb *database.MongodbDB) ModuleRepository {
	return &ModuleRepositoryImpl{
		Collection: mongodb.DB.Collection("modules"),
	}
}

func (r *ModuleRepositoryImpl) Create(ctx context.Context, module *Module) error {
	_, err := r.Collection.InsertOne(ctx, module)
	return err
}

func (r *ModuleRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Module, error) {
	var module Module
	err := r.Collection.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&module)
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepositoryImpl) FindByNameAction(ctx context.Context, moduleName string, action Action) (*Module, error) {
	var module Module
	err := r.Collection.FindOne(ctx, bson.M{
		"module_name": moduleName,
		"action":      action,
		"is_deleted":  false,
	}).Decode(&module)
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepositoryImpl) List(ctx context.Context) ([]Module, error) {
	opts := options.Find().SetSort(bson.D{{Key: "module_name", Value: 1}, {Key: "action", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"is_deleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var modules []Module
	if err = cursor.All(ctx, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// FindLiveByIDs resolves ids against non-deleted modules only, so a role's
// rights are always checked against the current catalog state.
func (r *ModuleRepositoryImpl) FindLiveByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Module, error) {
	if len(ids) == 0 {
		return []Module{}, nil
	}

	cursor, err := r.Collection.Find(ctx, bson.M{
		"_id":        bson.M{"$in": ids},
		"is_deleted": false,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var modules []Module
	if err = cursor.All(ctx, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *ModuleRepositoryImpl) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *ModuleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "module_name", Value: 1}, {Key: "action", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"is_deleted": false}),
	})
	return err
}
