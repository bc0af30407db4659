package meeting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/common/api"
	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockMeetingRepo struct {
	meetings  map[primitive.ObjectID]*Meeting
	lastQuery bson.M
}

func (m *mockMeetingRepo) Create(ctx context.Context, meeting *Meeting) error {
	m.meetings[meeting.ID] = meeting
	return nil
}

func (m *mockMeetingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Meeting, error) {
	if mt, ok := m.meetings[id]; ok && !mt.IsDeleted {
		copied := *mt
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockMeetingRepo) List(ctx context.Context, query bson.M, limit, offset int64, sortBy string, sortOrder int) ([]Meeting, int64, error) {
	m.lastQuery = query
	return nil, 0, nil
}

func (m *mockMeetingRepo) All(ctx context.Context, query bson.M, sortBy string, sortOrder int) ([]Meeting, error) {
	m.lastQuery = query
	return nil, nil
}

func (m *mockMeetingRepo) FindActiveByDay(ctx context.Context, day time.Time) ([]Meeting, error) {
	var out []Meeting
	for _, mt := range m.meetings {
		if !mt.IsDeleted && mt.Status == common_models.StatusActive &&
			mt.Date.Year() == day.Year() && mt.Date.YearDay() == day.YearDay() {
			out = append(out, *mt)
		}
	}
	return out, nil
}

func (m *mockMeetingRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	if _, ok := m.meetings[id]; !ok {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *mockMeetingRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	mt, ok := m.meetings[id]
	if !ok || mt.IsDeleted {
		return mongo.ErrNoDocuments
	}
	mt.IsDeleted = true
	return nil
}

func (m *mockMeetingRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockVisibility struct {
	scopes map[string]common_models.Visibility
}

func (m *mockVisibility) MeetingVisibility(ctx context.Context, roleIDHex string) (common_models.Visibility, error) {
	if v, ok := m.scopes[roleIDHex]; ok {
		return v, nil
	}
	return common_models.VisibilityOwn, nil
}

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (noopAudit) ListLogs(ctx context.Context, module string, page, limit int64) ([]common_models.AuditLog, int64, error) {
	return nil, 0, nil
}

func newTestMeetingService(repo *mockMeetingRepo, vis *mockVisibility) MeetingService {
	return NewMeetingService(repo, vis, noopAudit{}, nil)
}

func claimsFor(userID primitive.ObjectID, roleID string) *utils.UserClaims {
	return &utils.UserClaims{UserID: userID.Hex(), RoleID: roleID, RoleName: "test"}
}

func TestCreateMeetingValidatesTimes(t *testing.T) {
	svc := newTestMeetingService(&mockMeetingRepo{meetings: map[primitive.ObjectID]*Meeting{}}, &mockVisibility{})
	claims := claimsFor(primitive.NewObjectID(), "role")

	tests := []struct {
		name  string
		input MeetingInput
	}{
		{"bad start", MeetingInput{Date: "2025-03-10", StartTime: "25:00", EndTime: "11:00", AttendeeName: "A"}},
		{"bad end", MeetingInput{Date: "2025-03-10", StartTime: "10:00", EndTime: "11:99", AttendeeName: "A"}},
		{"end before start", MeetingInput{Date: "2025-03-10", StartTime: "14:00", EndTime: "13:00", AttendeeName: "A"}},
		{"end equals start", MeetingInput{Date: "2025-03-10", StartTime: "14:00", EndTime: "14:00", AttendeeName: "A"}},
		{"single digit end before start", MeetingInput{Date: "2025-03-10", StartTime: "10:00", EndTime: "9:30", AttendeeName: "A"}},
		{"bad date", MeetingInput{Date: "tomorrow", StartTime: "10:00", EndTime: "11:00", AttendeeName: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMeeting(context.Background(), claims, &tt.input)
			var appErr *apperror.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperror.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateMeetingDefaults(t *testing.T) {
	repo := &mockMeetingRepo{meetings: map[primitive.ObjectID]*Meeting{}}
	svc := newTestMeetingService(repo, &mockVisibility{})

	userID := primitive.NewObjectID()
	meeting, err := svc.CreateMeeting(context.Background(), claimsFor(userID, "role"), &MeetingInput{
		Date:         "2025-03-10",
		StartTime:    "10:00",
		EndTime:      "11:00",
		AttendeeName: "Acme CTO",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meeting.RepresentorID != userID {
		t.Error("representor should default to the requester")
	}
	if meeting.Status != common_models.StatusActive {
		t.Errorf("status should default to Active, got %s", meeting.Status)
	}
}

func TestCreateMeetingAcceptsSingleDigitHours(t *testing.T) {
	repo := &mockMeetingRepo{meetings: map[primitive.ObjectID]*Meeting{}}
	svc := newTestMeetingService(repo, &mockVisibility{})

	meeting, err := svc.CreateMeeting(context.Background(), claimsFor(primitive.NewObjectID(), "role"), &MeetingInput{
		Date:         "2025-03-10",
		StartTime:    "9:30",
		EndTime:      "10:00",
		AttendeeName: "Acme CTO",
	})
	if err != nil {
		t.Fatalf("9:30 to 10:00 should be a valid range: %v", err)
	}
	if meeting.StartTime != "09:30" {
		t.Errorf("start_time should be stored zero-padded, got %q", meeting.StartTime)
	}
	if meeting.EndTime != "10:00" {
		t.Errorf("end_time should be stored zero-padded, got %q", meeting.EndTime)
	}
}

func TestUpdateMeetingRejectsInvertedSingleDigitRange(t *testing.T) {
	owner := primitive.NewObjectID()
	meetingID := primitive.NewObjectID()
	repo := &mockMeetingRepo{meetings: map[primitive.ObjectID]*Meeting{
		meetingID: {
			ID:            meetingID,
			RepresentorID: owner,
			AttendeeName:  "Acme CTO",
			Status:        common_models.StatusActive,
		},
	}}
	svc := newTestMeetingService(repo, &mockVisibility{})

	_, err := svc.UpdateMeeting(context.Background(), claimsFor(owner, "role"), meetingID.Hex(), &MeetingInput{
		Date:         "2025-03-10",
		StartTime:    "10:00",
		EndTime:      "9:30",
		AttendeeName: "Acme CTO",
	})
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperror.KindValidation {
		t.Fatalf("end before start must be rejected on update, got %v", err)
	}
}

func TestListMeetingsScopesOwnVisibility(t *testing.T) {
	repo := &mockMeetingRepo{meetings: map[primitive.ObjectID]*Meeting{}}
	userID := primitive.NewObjectID()
	vis := &mockVisibility{scopes: map[string]common_models.Visibility{
		"own-role": common_models.VisibilityOwn,
		"all-role": common_models.VisibilityAll,
	}}
	svc := newTestMeetingService(repo, vis)

	params := &api.ListParams{Page: 1, Limit: 10, SortOrder: -1}

	if _, _, err := svc.ListMeetings(context.Background(), claimsFor(userID, "own-role"), params, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !queryContainsRepresentor(repo.lastQuery, userID) {
		t.Errorf("Own visibility must constrain representor, got %v", repo.lastQuery)
	}

	if _, _, err := svc.ListMeetings(context.Background(), claimsFor(userID, "all-role"), params, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if queryContainsRepresentor(repo.lastQuery, userID) {
		t.Errorf("All visibility must not constrain representor, got %v", repo.lastQuery)
	}
}

func queryContainsRepresentor(query bson.M, owner primitive.ObjectID) bool {
	if query == nil {
		return false
	}
	if v, ok := query["representor_name"]; ok && v == owner {
		return true
	}
	clauses, ok := query["$and"].([]bson.M)
	if !ok {
		return false
	}
	for _, clause := range clauses {
		if v, ok := clause["representor_name"]; ok && v == owner {
			return true
		}
	}
	return false
}

func TestGetMeetingOwnScopeDeniesOthers(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	meetingID := primitive.NewObjectID()

	repo := &mockMeetingRepo{meetings: map[primitive.ObjectID]*Meeting{
		meetingID: {
			ID:            meetingID,
			RepresentorID: owner,
			AttendeeName:  "Acme CTO",
			Status:        common_models.StatusActive,
		},
	}}
	svc := newTestMeetingService(repo, &mockVisibility{})

	if _, err := svc.GetMeeting(context.Background(), claimsFor(owner, "role"), meetingID.Hex()); err != nil {
		t.Errorf("representor should read their own meeting: %v", err)
	}

	_, err := svc.GetMeeting(context.Background(), claimsFor(other, "role"), meetingID.Hex())
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperror.KindAuthorization {
		t.Errorf("non-representor with Own scope should be denied, got %v", err)
	}
}

func TestFindActiveByDayFiltersForReminders(t *testing.T) {
	today := time.Now()
	repo := &mockMeetingRepo{meetings: map[primitive.ObjectID]*Meeting{}}

	add := func(date time.Time, status common_models.Status, deleted bool) {
		id := primitive.NewObjectID()
		repo.meetings[id] = &Meeting{
			ID: id, Date: date, Status: status, IsDeleted: deleted,
			RepresentorID: primitive.NewObjectID(),
		}
	}
	add(today, common_models.StatusActive, false)
	add(today, common_models.StatusInactive, false)
	add(today, common_models.StatusActive, true)
	add(today.AddDate(0, 0, 1), common_models.StatusActive, false)

	got, err := repo.FindActiveByDay(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 reminder-eligible meeting, got %d", len(got))
	}
}
