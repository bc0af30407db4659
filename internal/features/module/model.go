package module

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is what a grant permits on a module. "parent" marks a category
// header used for menu grouping only; it never implies child rights.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionList   Action = "list"
	ActionView   Action = "view"
	ActionDelete Action = "delete"
	ActionParent Action = "parent"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionList, ActionView, ActionDelete, ActionParent:
		return true
	}
	return false
}

// Module is one permissionable (moduleName, action) pair. The pair is unique
// among live modules; rows are soft-deleted, never removed.
type Module struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ModuleName string              `json:"module_name" bson:"module_name"`
	Action     Action              `json:"action" bson:"action"`
	ParentID   *primitive.ObjectID `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	IsActive   bool                `json:"is_active" bson:"is_active"`
	IsDeleted  bool                `json:"is_deleted" bson:"is_deleted"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" bson:"updated_at"`
}

// ModuleView is the listing shape with the parent resolved to its name.
type ModuleView struct {
	Module
	ParentName string `json:"parent_name,omitempty"`
}
