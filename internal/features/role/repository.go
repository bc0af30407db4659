package role

import (
	"context"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, id primitive.ObjectID, role *Role) error
	ReplaceRights(ctx context.Context, id primitive.ObjectID, rights *RightsUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

// RightsUpdate is applied wholesale; there is no merge with the previous set.
type RightsUpdate struct {
	AssignedModules []primitive.ObjectID
	VisibleLeads    string
	VisibleMeetings string
	Status          string
}

type RoleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRoleRepository(mongodb *database.MongodbDB) RoleRepository {
	return &RoleRepositoryImpl{
		Collection: mongodb.DB.Collection("roles"),
	}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *Role) error {
	_, err := r.Collection.InsertOne(ctx, role)
	return err
}

func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Role, error) {
	var role Role
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := r.Collection.FindOne(ctx, bson.M{"role_name": name}).Decode(&role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]Role, error) {
	opts := options.Find().SetSort(bson.D{{Key: "role_name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []Role
	if err = cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, role *Role) error {
	update := bson.M{
		"$set": bson.M{
			"role_name":   role.RoleName,
			"description": role.Description,
			"status":      role.Status,
			"updated_at":  time.Now(),
		},
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *RoleRepositoryImpl) ReplaceRights(ctx context.Context, id primitive.ObjectID, rights *RightsUpdate) error {
	update := bson.M{
		"$set": bson.M{
			"assigned_modules": rights.AssignedModules,
			"visible_leads":    rights.VisibleLeads,
			"visible_meetings": rights.VisibleMeetings,
			"status":           rights.Status,
			"updated_at":       time.Now(),
		},
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *RoleRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *RoleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "role_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
