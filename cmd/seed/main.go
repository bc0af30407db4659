package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/internal/config"
	module_feature "github.com/shahkeval/lead-management-sub000/internal/features/module"
	"github.com/shahkeval/lead-management-sub000/internal/features/role"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// moduleDef describes one row of the permission catalog.
type moduleDef struct {
	Name   string
	Action module_feature.Action
	Parent string // parent module name, resolved after the parent rows exist
}

func catalog() []moduleDef {
	crud := []module_feature.Action{
		module_feature.ActionCreate,
		module_feature.ActionUpdate,
		module_feature.ActionList,
		module_feature.ActionView,
		module_feature.ActionDelete,
	}

	var defs []moduleDef
	for _, name := range []string{"leads", "meetings", "users", "roles", "modules"} {
		defs = append(defs, moduleDef{Name: name, Action: module_feature.ActionParent})
		for _, action := range crud {
			defs = append(defs, moduleDef{Name: name, Action: action, Parent: name})
		}
	}

	// Audit log is read-only
	defs = append(defs,
		moduleDef{Name: "audits", Action: module_feature.ActionParent},
		moduleDef{Name: "audits", Action: module_feature.ActionList, Parent: "audits"},
	)
	return defs
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)

	fmt.Println("Seeding permission catalog...")

	moduleCol := db.Collection("modules")
	parentIDs := make(map[string]primitive.ObjectID)
	var allModuleIDs []primitive.ObjectID

	for _, def := range catalog() {
		filter := bson.M{"module_name": def.Name, "action": def.Action, "is_deleted": false}

		var existing module_feature.Module
		err := moduleCol.FindOne(ctx, filter).Decode(&existing)
		if err == nil {
			if def.Action == module_feature.ActionParent {
				parentIDs[def.Name] = existing.ID
			}
			allModuleIDs = append(allModuleIDs, existing.ID)
			continue
		}
		if err != mongo.ErrNoDocuments {
			log.Fatalf("failed to look up module %s/%s: %v", def.Name, def.Action, err)
		}

		now := time.Now()
		doc := module_feature.Module{
			ID:         primitive.NewObjectID(),
			ModuleName: def.Name,
			Action:     def.Action,
			IsActive:   true,
			IsDeleted:  false,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if def.Parent != "" {
			if pid, ok := parentIDs[def.Parent]; ok {
				doc.ParentID = &pid
			}
		}

		if _, err := moduleCol.InsertOne(ctx, doc); err != nil {
			log.Fatalf("failed to create module %s/%s: %v", def.Name, def.Action, err)
		}
		if def.Action == module_feature.ActionParent {
			parentIDs[def.Name] = doc.ID
		}
		allModuleIDs = append(allModuleIDs, doc.ID)
		fmt.Printf("Created module %s/%s\n", def.Name, def.Action)
	}

	fmt.Println("Seeding Administrator role...")

	roleCol := db.Collection("roles")
	var adminRole role.Role
	err = roleCol.FindOne(ctx, bson.M{"role_name": "Administrator"}).Decode(&adminRole)
	switch {
	case err == nil:
		_, err = roleCol.UpdateOne(ctx, bson.M{"_id": adminRole.ID}, bson.M{"$set": bson.M{
			"assigned_modules": allModuleIDs,
			"visible_leads":    common_models.VisibilityAll,
			"visible_meetings": common_models.VisibilityAll,
			"status":           common_models.StatusActive,
			"updated_at":       time.Now(),
		}})
		if err != nil {
			log.Fatalf("failed to update Administrator role: %v", err)
		}
		fmt.Println("Updated Administrator role grants")
	case err == mongo.ErrNoDocuments:
		now := time.Now()
		adminRole = role.Role{
			ID:              primitive.NewObjectID(),
			RoleName:        "Administrator",
			Description:     "Full access to every module",
			VisibleLeads:    common_models.VisibilityAll,
			VisibleMeetings: common_models.VisibilityAll,
			Status:          common_models.StatusActive,
			AssignedModules: allModuleIDs,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if _, err := roleCol.InsertOne(ctx, adminRole); err != nil {
			log.Fatalf("failed to create Administrator role: %v", err)
		}
		fmt.Println("Created Administrator role")
	default:
		log.Fatalf("failed to look up Administrator role: %v", err)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		fmt.Println("ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	userCol := db.Collection("users")
	if count, _ := userCol.CountDocuments(ctx, bson.M{"email": adminEmail}); count > 0 {
		fmt.Printf("Admin user %s already exists\n", adminEmail)
		return
	}

	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	now := time.Now()
	admin := common_models.User{
		ID:        primitive.NewObjectID(),
		Email:     adminEmail,
		Password:  hash,
		UserName:  "Administrator",
		RoleID:    adminRole.ID,
		Status:    common_models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := userCol.InsertOne(ctx, admin); err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}
	fmt.Printf("Created admin user %s\n", adminEmail)
}
