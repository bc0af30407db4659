package meeting

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

// RoleVisibility exposes the requester role's meeting scope. Satisfied by
// the role service through an adapter in main.
type RoleVisibility interface {
	MeetingVisibility(ctx context.Context, roleIDHex string) (common_models.Visibility, error)
}

type MeetingInput struct {
	Date          string
	StartTime     string
	EndTime       string
	AttendeeName  string
	RepresentorID string
	Agenda        string
	Status        common_models.Status
}

type MeetingService interface {
	CreateMeeting(ctx context.Context, claims *utils.UserClaims, input *MeetingInput) (*Meeting, error)
	GetMeeting(ctx context.Context, claims *utils.UserClaims, idHex string) (*Meeting, error)
	ListMeetings(ctx context.Context, claims *utils.UserClaims, params *api.ListParams, ownOnly bool) ([]Meeting, int64, error)
	UpdateMeeting(ctx context.Context, claims *utils.UserClaims, idHex string, input *MeetingInput) (*Meeting, error)
	DeleteMeeting(ctx context.Context, claims *utils.UserClaims, idHex string) error
	ExportMeetings(ctx context.Context, claims *utils.UserClaims, params *api.ListParams) ([]byte, string, error)
}

type MeetingServiceImpl struct {
	MeetingRepo  MeetingRepository
	RoleVis      RoleVisibility
	AuditService audit.AuditService
	Events       *notification.Hub
}

func NewMeetingService(
	meetingRepo MeetingRepository,
	roleVis RoleVisibility,
	auditService audit.AuditService,
	events *notification.Hub,
) MeetingService {
	return &MeetingServiceImpl{
		MeetingRepo:  meetingRepo,
		RoleVis:      roleVis,
		AuditService: auditService,
		Events:       events,
	}
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.Validation("date has unparseable value %q", raw)
}

// parseClock accepts HH:MM wall-clock strings, single-digit hours included.
func parseClock(field, raw string) (time.Time, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return time.Time{}, apperror.Validation("%s must be in HH:MM form", field)
	}
	return t, nil
}

// parseClockRange validates both ends and returns them in the canonical
// zero-padded form so stored times compare and sort correctly.
func parseClockRange(startRaw, endRaw string) (string, string, error) {
	start, err := parseClock("start_time", startRaw)
	if err != nil {
		return "", "", err
	}
	end, err := parseClock("end_time", endRaw)
	if err != nil {
		return "", "", err
	}
	if !end.After(start) {
		return "", "", apperror.Validation("end_time must be after start_time")
	}
	return start.Format("15:04"), end.Format("15:04"), nil
}

func (s *MeetingServiceImpl) CreateMeeting(ctx context.Context, claims *utils.UserClaims, input *MeetingInput) (*Meeting, error) {
	startTime, endTime, err := parseClockRange(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, apperror.Validation("unknown status %q", input.Status)
	}

	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	requester, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperror.Authentication("Unauthorized")
	}

	representor := requester
	if input.RepresentorID != "" {
		representor, err = primitive.ObjectIDFromHex(input.RepresentorID)
		if err != nil {
			return nil, apperror.Validation("invalid representor id")
		}
	}

	status := input.Status
	if status == "" {
		status = common_models.StatusActive
	}

	now := time.Now()
	meeting := &Meeting{
		ID:            primitive.NewObjectID(),
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		AttendeeName:  input.AttendeeName,
		RepresentorID: representor,
		Agenda:        input.Agenda,
		Status:        status,
		IsDeleted:     false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.MeetingRepo.Create(ctx, meeting); err != nil {
		return nil, apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "meeting", meeting.ID.Hex(), map[string]common_models.Change{
		"attendee_name": {New: meeting.AttendeeName},
		"date":          {New: meeting.Date.Format("2006-01-02")},
	})

	if s.Events != nil {
		s.Events.Publish(notification.Event{
			Type:        notification.EventMeetingScheduled,
			Message:     fmt.Sprintf("Meeting with %s on %s at %s", meeting.AttendeeName, meeting.Date.Format("2006-01-02"), meeting.StartTime),
			RecipientID: representor.Hex(),
			Payload: map[string]string{
				"id":            meeting.ID.Hex(),
				"attendee_name": meeting.AttendeeName,
				"date":          meeting.Date.Format("2006-01-02"),
				"start_time":    meeting.StartTime,
			},
		})
	}

	return meeting, nil
}

func (s *MeetingServiceImpl) buildScopedQuery(ctx context.Context, claims *utils.UserClaims, params *api.ListParams, ownOnly bool) (bson.M, error) {
	clauses := []bson.M{{"is_deleted": false}}

	scopeOwn := ownOnly
	if !scopeOwn {
		visibility, err := s.RoleVis.MeetingVisibility(ctx, claims.RoleID)
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
		clauses = append(clauses, bson.M{"representor_name": requester})
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
		return "date", -1, nil
	}
	if !sortFields[params.SortBy] {
		return "", 0, apperror.Validation("cannot sort by %q", params.SortBy)
	}
	return params.SortBy, params.SortOrder, nil
}

func (s *MeetingServiceImpl) ListMeetings(ctx context.Context, claims *utils.UserClaims, params *api.ListParams, ownOnly bool) ([]Meeting, int64, error) {
	query, err := s.buildScopedQuery(ctx, claims, params, ownOnly)
	if err != nil {
		return nil, 0, err
	}

	sortBy, sortOrder, err := resolveSort(params)
	if err != nil {
		return nil, 0, err
	}

	meetings, total, err := s.MeetingRepo.List(ctx, query, params.Limit, params.Offset(), sortBy, sortOrder)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return meetings, total, nil
}

func (s *MeetingServiceImpl) checkOwnership(ctx context.Context, claims *utils.UserClaims, meeting *Meeting) error {
	visibility, err := s.RoleVis.MeetingVisibility(ctx, claims.RoleID)
	if err != nil {
		return err
	}
	if visibility == common_models.VisibilityAll {
		return nil
	}
	if meeting.RepresentorID.Hex() != claims.UserID {
		return apperror.Authorization("Access denied: meeting belongs to another user")
	}
	return nil
}

func (s *MeetingServiceImpl) GetMeeting(ctx context.Context, claims *utils.UserClaims, idHex string) (*Meeting, error) {
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperror.Validation("invalid meeting id")
	}

	meeting, err := s.MeetingRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("meeting")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.checkOwnership(ctx, claims, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

func (s *MeetingServiceImpl) UpdateMeeting(ctx context.Context, claims *utils.UserClaims, idHex string, input *MeetingInput) (*Meeting, error) {
	existing, err := s.GetMeeting(ctx, claims, idHex)
	if err != nil {
		return nil, err
	}

	startTime, endTime, err := parseClockRange(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, apperror.Validation("unknown status %q", input.Status)
	}

	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"date":          date,
		"start_time":    startTime,
		"end_time":      endTime,
		"attendee_name": input.AttendeeName,
		"agenda":        input.Agenda,
		"updated_at":    time.Now(),
	}
	if input.Status != "" {
		set["status"] = input.Status
	}
	if input.RepresentorID != "" {
		representor, err := primitive.ObjectIDFromHex(input.RepresentorID)
		if err != nil {
			return nil, apperror.Validation("invalid representor id")
		}
		set["representor_name"] = representor
	}

	if err := s.MeetingRepo.Update(ctx, existing.ID, set); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("meeting")
		}
		return nil, apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "meeting", existing.ID.Hex(), map[string]common_models.Change{
		"date": {Old: existing.Date.Format("2006-01-02"), New: date.Format("2006-01-02")},
	})

	return s.MeetingRepo.FindByID(ctx, existing.ID)
}

func (s *MeetingServiceImpl) DeleteMeeting(ctx context.Context, claims *utils.UserClaims, idHex string) error {
	existing, err := s.GetMeeting(ctx, claims, idHex)
	if err != nil {
		return err
	}

	if err := s.MeetingRepo.SoftDelete(ctx, existing.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("meeting")
		}
		return apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "meeting", existing.ID.Hex(), nil)
	return nil
}

func (s *MeetingServiceImpl) ExportMeetings(ctx context.Context, claims *utils.UserClaims, params *api.ListParams) ([]byte, string, error) {
	query, err := s.buildScopedQuery(ctx, claims, params, false)
	if err != nil {
		return nil, "", err
	}

	sortBy, sortOrder, err := resolveSort(params)
	if err != nil {
		return nil, "", err
	}

	meetings, err := s.MeetingRepo.All(ctx, query, sortBy, sortOrder)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	headers := []string{"Date", "Start", "End", "Attendee", "Representor", "Agenda", "Status"}
	rows := make([][]interface{}, 0, len(meetings))
	for _, m := range meetings {
		rows = append(rows, []interface{}{
			m.Date.Format("2006-01-02"), m.StartTime, m.EndTime,
			m.AttendeeName, m.RepresentorID, m.Agenda, string(m.Status),
		})
	}

	data, err := export.Workbook("Meetings", headers, rows)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	filename := fmt.Sprintf("meetings-%s.xlsx", time.Now().Format("2006-01-02"))
	return data, filename, nil
}
