package role

import (
	"context"
	"errors"
	"testing"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	module_feature "github.com/shahkeval/lead-management-sub000/internal/features/module"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestHasPermission(t *testing.T) {
	grants := []Permission{
		{ModuleName: "leads", Action: "list"},
		{ModuleName: "leads", Action: "parent"},
		{ModuleName: "users", Action: "create"},
	}

	active := &Role{RoleName: "Sales", Status: common_models.StatusActive}
	inactive := &Role{RoleName: "Sales", Status: common_models.StatusInactive}

	tests := []struct {
		name     string
		role     *Role
		required Permission
		want     bool
	}{
		{"exact pair granted", active, Permission{"leads", "list"}, true},
		{"other module same action denied", active, Permission{"meetings", "list"}, false},
		{"same module other action denied", active, Permission{"leads", "delete"}, false},
		{"parent grant does not imply child", active, Permission{"leads", "view"}, false},
		{"inactive role denied everything", inactive, Permission{"leads", "list"}, false},
		{"nil role denied", nil, Permission{"leads", "list"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.role, grants, tt.required); got != tt.want {
				t.Errorf("HasPermission(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

type mockRoleRepo struct {
	roles         map[primitive.ObjectID]*Role
	replaceCalled bool
	lastRights    *RightsUpdate
}

func (m *mockRoleRepo) Create(ctx context.Context, role *Role) error { return nil }

func (m *mockRoleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Role, error) {
	if r, ok := m.roles[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockRoleRepo) FindByName(ctx context.Context, name string) (*Role, error) {
	for _, r := range m.roles {
		if r.RoleName == name {
			return r, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockRoleRepo) List(ctx context.Context) ([]Role, error) { return nil, nil }

func (m *mockRoleRepo) Update(ctx context.Context, id primitive.ObjectID, role *Role) error {
	return nil
}

func (m *mockRoleRepo) ReplaceRights(ctx context.Context, id primitive.ObjectID, rights *RightsUpdate) error {
	m.replaceCalled = true
	m.lastRights = rights
	if r, ok := m.roles[id]; ok {
		r.AssignedModules = rights.AssignedModules
		r.VisibleLeads = common_models.Visibility(rights.VisibleLeads)
		r.VisibleMeetings = common_models.Visibility(rights.VisibleMeetings)
		r.Status = common_models.Status(rights.Status)
	}
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

func (m *mockRoleRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockModuleRepo struct {
	live map[primitive.ObjectID]module_feature.Module
}

func (m *mockModuleRepo) Create(ctx context.Context, mod *module_feature.Module) error { return nil }

func (m *mockModuleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*module_feature.Module, error) {
	return nil, mongo.ErrNoDocuments
}

func (m *mockModuleRepo) FindByNameAction(ctx context.Context, name string, action module_feature.Action) (*module_feature.Module, error) {
	return nil, mongo.ErrNoDocuments
}

func (m *mockModuleRepo) List(ctx context.Context) ([]module_feature.Module, error) { return nil, nil }

func (m *mockModuleRepo) FindLiveByIDs(ctx context.Context, ids []primitive.ObjectID) ([]module_feature.Module, error) {
	var out []module_feature.Module
	for _, id := range ids {
		if mod, ok := m.live[id]; ok {
			out = append(out, mod)
		}
	}
	return out, nil
}

func (m *mockModuleRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) error { return nil }

func (m *mockModuleRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockUserCounter struct {
	count int64
}

func (m *mockUserCounter) CountByRole(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	return m.count, nil
}

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (noopAudit) ListLogs(ctx context.Context, module string, page, limit int64) ([]common_models.AuditLog, int64, error) {
	return nil, 0, nil
}

func newTestRoleService(roleRepo *mockRoleRepo, moduleRepo *mockModuleRepo, users *mockUserCounter) RoleService {
	return NewRoleService(roleRepo, moduleRepo, users, noopAudit{})
}

func TestUpdateRoleRightsReplacesWholesale(t *testing.T) {
	roleID := primitive.NewObjectID()
	oldModule := primitive.NewObjectID()
	newModuleA := primitive.NewObjectID()
	newModuleB := primitive.NewObjectID()

	roleRepo := &mockRoleRepo{roles: map[primitive.ObjectID]*Role{
		roleID: {
			ID:              roleID,
			RoleName:        "Sales",
			Status:          common_models.StatusActive,
			VisibleLeads:    common_models.VisibilityOwn,
			VisibleMeetings: common_models.VisibilityOwn,
			AssignedModules: []primitive.ObjectID{oldModule},
		},
	}}
	moduleRepo := &mockModuleRepo{live: map[primitive.ObjectID]module_feature.Module{
		newModuleA: {ID: newModuleA, ModuleName: "leads", Action: module_feature.ActionList},
		newModuleB: {ID: newModuleB, ModuleName: "leads", Action: module_feature.ActionCreate},
	}}

	svc := newTestRoleService(roleRepo, moduleRepo, &mockUserCounter{})

	updated, err := svc.UpdateRoleRights(context.Background(), roleID.Hex(), &UpdateRightsRequest{
		AssignedModuleIDs: []string{newModuleA.Hex(), newModuleB.Hex()},
		VisibleLeads:      common_models.VisibilityAll,
		VisibleMeetings:   common_models.VisibilityOwn,
		Status:            common_models.StatusActive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !roleRepo.replaceCalled {
		t.Fatal("expected ReplaceRights to be called")
	}
	if len(updated.AssignedModules) != 2 {
		t.Fatalf("expected 2 assigned modules, got %d", len(updated.AssignedModules))
	}
	for _, id := range updated.AssignedModules {
		if id == oldModule {
			t.Error("old module should not survive a rights replacement")
		}
	}
	if updated.VisibleLeads != common_models.VisibilityAll {
		t.Errorf("visible_leads not applied, got %s", updated.VisibleLeads)
	}
}

func TestUpdateRoleRightsRejectsStaleModules(t *testing.T) {
	roleID := primitive.NewObjectID()
	liveModule := primitive.NewObjectID()
	staleModule := primitive.NewObjectID()

	roleRepo := &mockRoleRepo{roles: map[primitive.ObjectID]*Role{
		roleID: {ID: roleID, RoleName: "Sales", Status: common_models.StatusActive},
	}}
	moduleRepo := &mockModuleRepo{live: map[primitive.ObjectID]module_feature.Module{
		liveModule: {ID: liveModule, ModuleName: "leads", Action: module_feature.ActionList},
	}}

	svc := newTestRoleService(roleRepo, moduleRepo, &mockUserCounter{})

	_, err := svc.UpdateRoleRights(context.Background(), roleID.Hex(), &UpdateRightsRequest{
		AssignedModuleIDs: []string{liveModule.Hex(), staleModule.Hex()},
		VisibleLeads:      common_models.VisibilityOwn,
		VisibleMeetings:   common_models.VisibilityOwn,
		Status:            common_models.StatusActive,
	})
	if err == nil {
		t.Fatal("expected stale rights error")
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.Error, got %T", err)
	}
	if appErr.Kind != apperror.KindStaleRights {
		t.Errorf("expected stale rights kind, got %v", appErr.Kind)
	}
	if len(appErr.Missing) != 1 || appErr.Missing[0] != staleModule.Hex() {
		t.Errorf("expected missing list [%s], got %v", staleModule.Hex(), appErr.Missing)
	}
	if roleRepo.replaceCalled {
		t.Error("nothing should be written when any module id is stale")
	}
}

func TestCheckPermissionResolvesAgainstLiveCatalog(t *testing.T) {
	roleID := primitive.NewObjectID()
	listModule := primitive.NewObjectID()
	deletedModule := primitive.NewObjectID()

	roleRepo := &mockRoleRepo{roles: map[primitive.ObjectID]*Role{
		roleID: {
			ID:              roleID,
			RoleName:        "Sales",
			Status:          common_models.StatusActive,
			AssignedModules: []primitive.ObjectID{listModule, deletedModule},
		},
	}}
	// deletedModule is assigned but no longer live, so its grant must vanish.
	moduleRepo := &mockModuleRepo{live: map[primitive.ObjectID]module_feature.Module{
		listModule: {ID: listModule, ModuleName: "leads", Action: module_feature.ActionList},
	}}

	svc := newTestRoleService(roleRepo, moduleRepo, &mockUserCounter{})

	ok, err := svc.CheckPermission(context.Background(), roleID.Hex(), "leads", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("live grant should pass")
	}

	ok, err = svc.CheckPermission(context.Background(), roleID.Hex(), "leads", "delete")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("grant backed by a deleted module should fail")
	}
}

func TestCheckPermissionUnknownRole(t *testing.T) {
	svc := newTestRoleService(&mockRoleRepo{roles: map[primitive.ObjectID]*Role{}}, &mockModuleRepo{}, &mockUserCounter{})

	ok, err := svc.CheckPermission(context.Background(), "not-a-hex-id", "leads", "list")
	if err != nil {
		t.Fatalf("bad role id should not error: %v", err)
	}
	if ok {
		t.Error("bad role id should never grant access")
	}

	ok, err = svc.CheckPermission(context.Background(), primitive.NewObjectID().Hex(), "leads", "list")
	if err != nil {
		t.Fatalf("missing role should not error: %v", err)
	}
	if ok {
		t.Error("missing role should never grant access")
	}
}

func TestDeleteRoleBlockedWhileAssigned(t *testing.T) {
	roleID := primitive.NewObjectID()
	roleRepo := &mockRoleRepo{roles: map[primitive.ObjectID]*Role{
		roleID: {ID: roleID, RoleName: "Sales", Status: common_models.StatusActive},
	}}

	svc := newTestRoleService(roleRepo, &mockModuleRepo{}, &mockUserCounter{count: 3})

	err := svc.DeleteRole(context.Background(), roleID.Hex())
	if err == nil {
		t.Fatal("expected conflict while users still hold the role")
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperror.KindConflict {
		t.Errorf("expected conflict error, got %v", err)
	}
}
