package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/internal/features/role"
	"github.com/shahkeval/lead-management-sub000/internal/features/user"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockUserRepo struct {
	users map[string]*common_models.User // keyed by email
}

func (m *mockUserRepo) Create(ctx context.Context, u *common_models.User) error { return nil }

func (m *mockUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*common_models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*common_models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error) {
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter bson.M, limit, offset int64) ([]common_models.User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) Update(ctx context.Context, id primitive.ObjectID, u *common_models.User) error {
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

func (m *mockUserRepo) CountByRole(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (m *mockUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockRoleRepo struct {
	roles map[primitive.ObjectID]*role.Role
}

func (m *mockRoleRepo) Create(ctx context.Context, r *role.Role) error { return nil }

func (m *mockRoleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*role.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockRoleRepo) FindByName(ctx context.Context, name string) (*role.Role, error) {
	return nil, mongo.ErrNoDocuments
}

func (m *mockRoleRepo) List(ctx context.Context) ([]role.Role, error) { return nil, nil }

func (m *mockRoleRepo) Update(ctx context.Context, id primitive.ObjectID, r *role.Role) error {
	return nil
}

func (m *mockRoleRepo) ReplaceRights(ctx context.Context, id primitive.ObjectID, rights *role.RightsUpdate) error {
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

func (m *mockRoleRepo) EnsureIndexes(ctx context.Context) error { return nil }

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (noopAudit) ListLogs(ctx context.Context, module string, page, limit int64) ([]common_models.AuditLog, int64, error) {
	return nil, 0, nil
}

type stubUserService struct{}

func (stubUserService) CreateUser(ctx context.Context, input *user.CreateUserInput) (*common_models.User, error) {
	return nil, nil
}

func (stubUserService) GetUser(ctx context.Context, idHex string) (*user.UserView, error) {
	return nil, nil
}

func (stubUserService) ListUsers(ctx context.Context, search string, page, limit int64) ([]user.UserView, int64, error) {
	return nil, 0, nil
}

func (stubUserService) UpdateUser(ctx context.Context, idHex string, input *user.CreateUserInput) error {
	return nil
}

func (stubUserService) DeleteUser(ctx context.Context, idHex string) error { return nil }

func newTestAuthService(userRepo *mockUserRepo, roleRepo *mockRoleRepo) AuthService {
	roleService := role.NewRoleService(roleRepo, nil, nil, noopAudit{})
	return NewAuthService(userRepo, stubUserService{}, roleRepo, roleService, noopAudit{})
}

func seedUser(t *testing.T, email, password string, status common_models.Status, roleID primitive.ObjectID) *common_models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &common_models.User{
		ID:       primitive.NewObjectID(),
		Email:    email,
		Password: hash,
		UserName: "Test User",
		RoleID:   roleID,
		Status:   status,
	}
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	utils.SetSecret("auth-test-secret")

	roleID := primitive.NewObjectID()
	usr := seedUser(t, "sales@example.com", "pass123", common_models.StatusActive, roleID)

	userRepo := &mockUserRepo{users: map[string]*common_models.User{usr.Email: usr}}
	roleRepo := &mockRoleRepo{roles: map[primitive.ObjectID]*role.Role{
		roleID: {ID: roleID, RoleName: "Sales", Status: common_models.StatusActive},
	}}

	svc := newTestAuthService(userRepo, roleRepo)

	token, err := svc.Login(context.Background(), "sales@example.com", "pass123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		t.Fatalf("issued token should validate: %v", err)
	}
	if claims.UserID != usr.ID.Hex() {
		t.Errorf("token user id = %q, want %q", claims.UserID, usr.ID.Hex())
	}
	if claims.RoleName != "Sales" {
		t.Errorf("token role name = %q, want Sales", claims.RoleName)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	roleID := primitive.NewObjectID()
	usr := seedUser(t, "sales@example.com", "pass123", common_models.StatusActive, roleID)
	userRepo := &mockUserRepo{users: map[string]*common_models.User{usr.Email: usr}}
	svc := newTestAuthService(userRepo, &mockRoleRepo{})

	for _, tc := range []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "pass123"},
		{"wrong password", "sales@example.com", "wrong"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)

			var appErr *apperror.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperror.KindAuthentication {
				t.Fatalf("expected authentication error, got %v", err)
			}
			if appErr.Message != "Invalid email or password" {
				t.Errorf("credential failures must not reveal which part failed, got %q", appErr.Message)
			}
		})
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	roleID := primitive.NewObjectID()
	usr := seedUser(t, "former@example.com", "pass123", common_models.StatusInactive, roleID)
	userRepo := &mockUserRepo{users: map[string]*common_models.User{usr.Email: usr}}
	svc := newTestAuthService(userRepo, &mockRoleRepo{})

	_, err := svc.Login(context.Background(), "former@example.com", "pass123")

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperror.KindAccountInactive {
		t.Fatalf("expected inactive account error, got %v", err)
	}
	if appErr.Message != apperror.InactiveAccountMessage {
		t.Errorf("got %q, want %q", appErr.Message, apperror.InactiveAccountMessage)
	}
}
