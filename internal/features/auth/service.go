package auth

import (
	"context"
	"errors"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/internal/features/audit"
	"github.com/shahkeval/lead-management-sub000/internal/features/role"
	"github.com/shahkeval/lead-management-sub000/internal/features/user"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Profile is what /api/auth/me returns: the account, its role, and the
// grants resolved against the live module catalog so the client can build
// its menu without further calls.
type Profile struct {
	User   *common_models.User `json:"user"`
	Role   *role.Role          `json:"role"`
	Grants []role.Permission   `json:"grants"`
}

type AuthService interface {
	Register(ctx context.Context, input *user.CreateUserInput) (*common_models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userIDHex string) (*Profile, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	UserService  user.UserService
	RoleRepo     role.RoleRepository
	RoleService  role.RoleService
	AuditService audit.AuditService
}

func NewAuthService(
	userRepo user.UserRepository,
	userService user.UserService,
	roleRepo role.RoleRepository,
	roleService role.RoleService,
	auditService audit.AuditService,
) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		UserService:  userService,
		RoleRepo:     roleRepo,
		RoleService:  roleService,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, input *user.CreateUserInput) (*common_models.User, error) {
	return s.UserService.CreateUser(ctx, input)
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	usr, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", apperror.Authentication("Invalid email or password")
		}
		return "", apperror.Internal(err)
	}

	if !utils.CheckPassword(usr.Password, password) {
		return "", apperror.Authentication("Invalid email or password")
	}

	// Deactivated accounts are rejected at the authentication boundary,
	// before any authorization logic runs.
	if usr.Status == common_models.StatusInactive {
		return "", apperror.AccountInactive()
	}

	roleName := ""
	if r, err := s.RoleRepo.FindByID(ctx, usr.RoleID); err == nil {
		roleName = r.RoleName
	}

	token, err := utils.GenerateToken(usr.ID, usr.RoleID, roleName)
	if err != nil {
		return "", apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionLogin, "user", usr.ID.Hex(), nil)

	return token, nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, userIDHex string) (*Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, apperror.Authentication("Unauthorized")
	}

	usr, err := s.UserRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(err)
	}

	r, err := s.RoleService.GetRole(ctx, usr.RoleID.Hex())
	if err != nil {
		return nil, err
	}

	grants, err := s.RoleService.GetGrants(ctx, usr.RoleID.Hex())
	if err != nil {
		return nil, err
	}

	return &Profile{User: usr, Role: r, Grants: grants}, nil
}
