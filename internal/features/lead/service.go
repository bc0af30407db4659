package lead

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/common/api"
	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	"github.com/shahkeval/lead-management-sub000/internal/common/export"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/internal/features/audit"
	"github.com/shahkeval/lead-management-sub000/internal/features/notification"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoleVisibility exposes the requester role's lead scope. Satisfied by the
// role service through an adapter in main.
type RoleVisibility interface {
	LeadVisibility(ctx context.Context, roleIDHex string) (common_models.Visibility, error)
}

type LeadInput struct {
	EmpID              string
	ClientName         string
	ClientMobileNumber string
	ClientEmail        string
	SourceOfInquiry    string
	CompanyName        string
	LeadStatus         LeadStatus
	DateTime           string
}

type LeadService interface {
	CreateLead(ctx context.Context, claims *utils.UserClaims, input *LeadInput) (*Lead, error)
	GetLead(ctx context.Context, claims *utils.UserClaims, idHex string) (*Lead, error)
	ListLeads(ctx context.Context, claims *utils.UserClaims, params *api.ListParams, ownOnly bool) ([]Lead, int64, error)
	UpdateLead(ctx context.Context, claims *utils.UserClaims, idHex string, input *LeadInput) (*Lead, error)
	DeleteLead(ctx context.Context, claims *utils.UserClaims, idHex string) error
	ExportLeads(ctx context.Context, claims *utils.UserClaims, params *api.ListParams) ([]byte, string, error)
}

type LeadServiceImpl struct {
	LeadRepo     LeadRepository
	SequenceRepo SequenceRepository
	RoleVis      RoleVisibility
	AuditService audit.AuditService
	Events       *notification.Hub
}

func NewLeadService(
	leadRepo LeadRepository,
	sequenceRepo SequenceRepository,
	roleVis RoleVisibility,
	auditService audit.AuditService,
	events *notification.Hub,
) LeadService {
	return &LeadServiceImpl{
		LeadRepo:     leadRepo,
		SequenceRepo: sequenceRepo,
		RoleVis:      roleVis,
		AuditService: auditService,
		Events:       events,
	}
}

func parseDateTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.Validation("date_time has unparseable value %q", raw)
}

func (s *LeadServiceImpl) CreateLead(ctx context.Context, claims *utils.UserClaims, input *LeadInput) (*Lead, error) {
	if !input.LeadStatus.Valid() {
		return nil, apperror.Validation("unknown lead_status %q", input.LeadStatus)
	}

	requester, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperror.Authentication("Unauthorized")
	}

	owner := requester
	if input.EmpID != "" {
		owner, err = primitive.ObjectIDFromHex(input.EmpID)
		if err != nil {
			return nil, apperror.Validation("invalid emp_id")
		}
	}

	dateTime, err := parseDateTime(input.DateTime)
	if err != nil {
		return nil, err
	}

	year := time.Now().Year()
	seq, err := s.SequenceRepo.NextSequence(ctx, year)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	lead := &Lead{
		ID:                 primitive.NewObjectID(),
		LeadID:             FormatLeadID(year, seq),
		EmpID:              owner,
		ClientName:         input.ClientName,
		ClientMobileNumber: input.ClientMobileNumber,
		ClientEmail:        input.ClientEmail,
		SourceOfInquiry:    input.SourceOfInquiry,
		CompanyName:        input.CompanyName,
		LeadStatus:         input.LeadStatus,
		DateTime:           dateTime,
		IsDeleted:          false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.LeadRepo.Create(ctx, lead); err != nil {
		return nil, apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "lead", lead.LeadID, map[string]common_models.Change{
		"client_name": {New: lead.ClientName},
		"lead_status": {New: lead.LeadStatus},
	})

	if s.Events != nil {
		s.Events.Publish(notification.Event{
			Type:    notification.EventLeadCreated,
			Message: fmt.Sprintf("Lead %s created for %s", lead.LeadID, lead.ClientName),
			Payload: leadEventPayload(lead),
		})
		if owner != requester {
			s.Events.Publish(notification.Event{
				Type:        notification.EventLeadAssigned,
				Message:     fmt.Sprintf("Lead %s assigned to you", lead.LeadID),
				RecipientID: owner.Hex(),
				Payload:     leadEventPayload(lead),
			})
		}
	}

	return lead, nil
}

// leadEventPayload trims the payload pushed over the websocket to identifiers.
func leadEventPayload(lead *Lead) map[string]string {
	return map[string]string{
		"id":          lead.ID.Hex(),
		"lead_id":     lead.LeadID,
		"client_name": lead.ClientName,
	}
}

// buildScopedQuery applies the role's visibility, the typed filters and the
// global search on top of the live-records predicate.
func (s *LeadServiceImpl) buildScopedQuery(ctx context.Context, claims *utils.UserClaims, params *api.ListParams, ownOnly bool) (bson.M, error) {
	clauses := []bson.M{{"is_deleted": false}}

	scopeOwn := ownOnly
	if !scopeOwn {
		visibility, err := s.RoleVis.LeadVisibility(ctx, claims.RoleID)
		if err != nil {
			return nil, err
		}
		scopeOwn = visibility != common_models.VisibilityAll
	}
	if scopeOwn {
		requester, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return nil, apperror.Authentication("Unauthorized")
		}
		clauses = append(clauses, bson.M{"emp_id": requester})
	}

	if len(params.Filters) > 0 {
		filterQuery, err := common_models.BuildFilterQuery(params.Filters, FilterFields)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, filterQuery)
	}

	if params.Search != "" {
		clauses = append(clauses, common_models.SearchQuery(params.Search, SearchFields))
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return bson.M{"$and": clauses}, nil
}

func resolveSort(params *api.ListParams) (string, int, error) {
	if params.SortBy == "" {
		return "date_time", -1, nil
	}
	if !sortFields[params.SortBy] {
		return "", 0, apperror.Validation("cannot sort by %q", params.SortBy)
	}
	return params.SortBy, params.SortOrder, nil
}

func (s *LeadServiceImpl) ListLeads(ctx context.Context, claims *utils.UserClaims, params *api.ListParams, ownOnly bool) ([]Lead, int64, error) {
	query, err := s.buildScopedQuery(ctx, claims, params, ownOnly)
	if err != nil {
		return nil, 0, err
	}

	sortBy, sortOrder, err := resolveSort(params)
	if err != nil {
		return nil, 0, err
	}

	leads, total, err := s.LeadRepo.List(ctx, query, params.Limit, params.Offset(), sortBy, sortOrder)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return leads, total, nil
}

// checkOwnership enforces Own-scope access to a single lead.
func (s *LeadServiceImpl) checkOwnership(ctx context.Context, claims *utils.UserClaims, lead *Lead) error {
	visibility, err := s.RoleVis.LeadVisibility(ctx, claims.RoleID)
	if err != nil {
		return err
	}
	if visibility == common_models.VisibilityAll {
		return nil
	}
	if lead.EmpID.Hex() != claims.UserID {
		return apperror.Authorization("Access denied: lead belongs to another user")
	}
	return nil
}

func (s *LeadServiceImpl) GetLead(ctx context.Context, claims *utils.UserClaims, idHex string) (*Lead, error) {
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperror.Validation("invalid lead id")
	}

	lead, err := s.LeadRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("lead")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.checkOwnership(ctx, claims, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadServiceImpl) UpdateLead(ctx context.Context, claims *utils.UserClaims, idHex string, input *LeadInput) (*Lead, error) {
	existing, err := s.GetLead(ctx, claims, idHex)
	if err != nil {
		return nil, err
	}

	if !input.LeadStatus.Valid() {
		return nil, apperror.Validation("unknown lead_status %q", input.LeadStatus)
	}

	set := bson.M{
		"client_name":          input.ClientName,
		"client_mobile_number": input.ClientMobileNumber,
		"client_email":         input.ClientEmail,
		"source_of_inquiry":    input.SourceOfInquiry,
		"company_name":         input.CompanyName,
		"lead_status":          input.LeadStatus,
		"updated_at":           time.Now(),
	}

	if input.EmpID != "" {
		owner, err := primitive.ObjectIDFromHex(input.EmpID)
		if err != nil {
			return nil, apperror.Validation("invalid emp_id")
		}
		set["emp_id"] = owner
	}
	if input.DateTime != "" {
		dateTime, err := parseDateTime(input.DateTime)
		if err != nil {
			return nil, err
		}
		set["date_time"] = dateTime
	}

	if err := s.LeadRepo.Update(ctx, existing.ID, set); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("lead")
		}
		return nil, apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "lead", existing.LeadID, map[string]common_models.Change{
		"lead_status": {Old: existing.LeadStatus, New: input.LeadStatus},
	})

	return s.LeadRepo.FindByID(ctx, existing.ID)
}

func (s *LeadServiceImpl) DeleteLead(ctx context.Context, claims *utils.UserClaims, idHex string) error {
	existing, err := s.GetLead(ctx, claims, idHex)
	if err != nil {
		return err
	}

	if err := s.LeadRepo.SoftDelete(ctx, existing.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("lead")
		}
		return apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "lead", existing.LeadID, nil)
	return nil
}

func (s *LeadServiceImpl) ExportLeads(ctx context.Context, claims *utils.UserClaims, params *api.ListParams) ([]byte, string, error) {
	query, err := s.buildScopedQuery(ctx, claims, params, false)
	if err != nil {
		return nil, "", err
	}

	sortBy, sortOrder, err := resolveSort(params)
	if err != nil {
		return nil, "", err
	}

	leads, err := s.LeadRepo.All(ctx, query, sortBy, sortOrder)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	headers := []string{"Lead ID", "Client Name", "Mobile", "Email", "Source of Inquiry", "Company", "Status", "Date"}
	rows := make([][]interface{}, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, []interface{}{
			l.LeadID, l.ClientName, l.ClientMobileNumber, l.ClientEmail,
			l.SourceOfInquiry, l.CompanyName, string(l.LeadStatus), l.DateTime,
		})
	}

	data, err := export.Workbook("Leads", headers, rows)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().Format("2006-01-02"))
	return data, filename, nil
}
