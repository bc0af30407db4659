package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility controls whether a role sees only its own records or everyone's.
type Visibility string

const (
	VisibilityOwn Visibility = "Own"
	VisibilityAll Visibility = "All"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User is shared across features: auth issues its tokens, leads and meetings
// reference it as owner, audit resolves actor names from it.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Password     string             `json:"-" bson:"password"`
	UserName     string             `json:"user_name" bson:"user_name"`
	MobileNumber string             `json:"mobile_number" bson:"mobile_number"`
	RoleID       primitive.ObjectID `json:"role_id" bson:"role_id"`
	Status       Status             `json:"status" bson:"status"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionLogin  AuditAction = "LOGIN"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`
	RecordID  string             `bson:"record_id" json:"record_id"`
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	ActorName string             `bson:"-" json:"actor_name,omitempty"`
	Changes   map[string]Change  `bson:"changes" json:"changes"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
