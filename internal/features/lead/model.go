package lead

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeadStatus string

const (
	LeadStatusPending  LeadStatus = "Pending"
	LeadStatusWon      LeadStatus = "Won"
	LeadStatusFollowUp LeadStatus = "Follow Up"
	LeadStatusLost     LeadStatus = "Lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusPending, LeadStatusWon, LeadStatusFollowUp, LeadStatusLost:
		return true
	}
	return false
}

// Lead is owned by the assigned employee (EmpID); other users see it only
// when their role carries "All" lead visibility.
type Lead struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	LeadID             string             `json:"lead_id" bson:"lead_id"`
	EmpID              primitive.ObjectID `json:"emp_id" bson:"emp_id"`
	ClientName         string             `json:"client_name" bson:"client_name"`
	ClientMobileNumber string             `json:"client_mobile_number" bson:"client_mobile_number"`
	ClientEmail        string             `json:"client_email" bson:"client_email"`
	SourceOfInquiry    string             `json:"source_of_inquiry" bson:"source_of_inquiry"`
	CompanyName        string             `json:"company_name" bson:"company_name"`
	LeadStatus         LeadStatus         `json:"lead_status" bson:"lead_status"`
	DateTime           time.Time          `json:"date_time" bson:"date_time"`
	IsDeleted          bool               `json:"is_deleted" bson:"is_deleted"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// FilterFields declares which lead fields list callers may filter on.
var FilterFields = map[string]common_models.FilterType{
	"lead_id":              common_models.FilterTypeText,
	"client_name":          common_models.FilterTypeText,
	"client_mobile_number": common_models.FilterTypeText,
	"client_email":         common_models.FilterTypeText,
	"source_of_inquiry":    common_models.FilterTypeText,
	"company_name":         common_models.FilterTypeText,
	"lead_status":          common_models.FilterTypeStatus,
	"date_time":            common_models.FilterTypeDate,
}

// SearchFields feed the OR-across-fields global search.
var SearchFields = []string{
	"lead_id", "client_name", "client_mobile_number",
	"client_email", "source_of_inquiry", "company_name",
}

var sortFields = map[string]bool{
	"date_time":    true,
	"client_name":  true,
	"company_name": true,
	"lead_status":  true,
	"created_at":   true,
}

// FormatLeadID renders a lead id as LED-<year>-<seq>, zero-padded to three
// digits; sequences past 999 simply widen.
func FormatLeadID(year, seq int) string {
	return fmt.Sprintf("LED-%d-%03d", year, seq)
}

// ParseSequence extracts the numeric sequence from a lead id, or 0 when the
// id does not match the expected shape.
func ParseSequence(leadID string) int {
	idx := strings.LastIndex(leadID, "-")
	if idx < 0 || idx == len(leadID)-1 {
		return 0
	}
	seq, err := strconv.Atoi(leadID[idx+1:])
	if err != nil {
		return 0
	}
	return seq
}
