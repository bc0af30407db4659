package meeting

import (
	"time"

	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting is owned by the representor; Date holds the calendar day while
// StartTime and EndTime carry wall-clock strings like "14:30".
type Meeting struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Date          time.Time            `json:"date" bson:"date"`
	StartTime     string               `json:"start_time" bson:"start_time"`
	EndTime       string               `json:"end_time" bson:"end_time"`
	AttendeeName  string               `json:"attendee_name" bson:"attendee_name"`
	RepresentorID primitive.ObjectID   `json:"representor_name" bson:"representor_name"`
	Agenda        string               `json:"agenda" bson:"agenda"`
	Status        common_models.Status `json:"status" bson:"status"`
	IsDeleted     bool                 `json:"is_deleted" bson:"is_deleted"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}

var FilterFields = map[string]common_models.FilterType{
	"attendee_name": common_models.FilterTypeText,
	"agenda":        common_models.FilterTypeText,
	"status":        common_models.FilterTypeStatus,
	"date":          common_models.FilterTypeDate,
}

var SearchFields = []string{"attendee_name", "agenda"}

var sortFields = map[string]bool{
	"date":          true,
	"attendee_name": true,
	"status":        true,
	"created_at":    true,
}
