package role

import (
	"time"

	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role bundles module grants with record-visibility scopes. Rights are stored
// as module ids and resolved against the live catalog on every check, so
// deleting a module revokes it everywhere at once.
type Role struct {
	ID              primitive.ObjectID       `json:"id" bson:"_id,omitempty"`
	RoleName        string                   `json:"role_name" bson:"role_name"`
	Description     string                   `json:"description" bson:"description"`
	VisibleLeads    common_models.Visibility `json:"visible_leads" bson:"visible_leads"`
	VisibleMeetings common_models.Visibility `json:"visible_meetings" bson:"visible_meetings"`
	Status          common_models.Status     `json:"status" bson:"status"`
	AssignedModules []primitive.ObjectID     `json:"assigned_modules" bson:"assigned_modules"`
	CreatedAt       time.Time                `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at" bson:"updated_at"`
}

// Permission is one capability: an exact (module, action) pair.
type Permission struct {
	ModuleName string `json:"module_name"`
	Action     string `json:"action"`
}

// HasPermission reports whether grants contain the exact requested pair.
// The role must be Active. A "parent" grant is a menu grouping marker and
// implies nothing about child actions; every action is granted individually.
func HasPermission(r *Role, grants []Permission, required Permission) bool {
	if r == nil || r.Status != common_models.StatusActive {
		return false
	}
	for _, g := range grants {
		if g.ModuleName == required.ModuleName && g.Action == required.Action {
			return true
		}
	}
	return false
}
