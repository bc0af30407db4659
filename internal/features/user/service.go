package user

import (
	"context"
	"errors"

	"time"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/internal/features/audit"
	"github.com/shahkeval/lead-management-sub000/internal/features/role"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LeadCounter reports how many live leads a user owns. Satisfied by the lead
// repository through an adapter in main.
type LeadCounter interface {
	CountLiveByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
}

// UserView is the listing shape with the role name resolved.
type UserView struct {
	common_models.User
	RoleName string `json:"role_name"`
}

type CreateUserInput struct {
	Email        string
	Password     string
	UserName     string
	MobileNumber string
	RoleID       string
	Status       common_models.Status
}

type UserService interface {
	CreateUser(ctx context.Context, input *CreateUserInput) (*common_models.User, error)
	GetUser(ctx context.Context, idHex string) (*UserView, error)
	ListUsers(ctx context.Context, search string, page, limit int64) ([]UserView, int64, error)
	UpdateUser(ctx context.Context, idHex string, input *CreateUserInput) error
	DeleteUser(ctx context.Context, idHex string) error
}

type UserServiceImpl struct {
	UserRepo     UserRepository
	RoleRepo     role.RoleRepository
	LeadCounter  LeadCounter
	AuditService audit.AuditService
}

func NewUserService(
	userRepo UserRepository,
	roleRepo role.RoleRepository,
	leadCounter LeadCounter,
	auditService audit.AuditService,
) UserService {
	return &UserServiceImpl{
		UserRepo:     userRepo,
		RoleRepo:     roleRepo,
		LeadCounter:  leadCounter,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) resolveRole(ctx context.Context, roleIDHex string) (*role.Role, error) {
	oid, err := primitive.ObjectIDFromHex(roleIDHex)
	if err != nil {
		return nil, apperror.Validation("invalid role id")
	}

	r, err := s.RoleRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("role")
		}
		return nil, apperror.Internal(err)
	}
	return r, nil
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, input *CreateUserInput) (*common_models.User, error) {
	if _, err := s.UserRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Conflict("email %q is already registered", input.Email)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Internal(err)
	}

	assignedRole, err := s.resolveRole(ctx, input.RoleID)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	status := input.Status
	if status == "" {
		status = common_models.StatusActive
	}

	now := time.Now()
	user := &common_models.User{
		ID:           primitive.NewObjectID(),
		Email:        input.Email,
		Password:     hash,
		UserName:     input.UserName,
		MobileNumber: input.MobileNumber,
		RoleID:       assignedRole.ID,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Conflict("email %q is already registered", input.Email)
		}
		return nil, apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "user", user.ID.Hex(), map[string]common_models.Change{
		"email":     {New: user.Email},
		"user_name": {New: user.UserName},
		"role":      {New: assignedRole.RoleName},
	})

	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, idHex string) (*UserView, error) {
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperror.Validation("invalid user id")
	}

	user, err := s.UserRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(err)
	}

	view := &UserView{User: *user}
	if r, err := s.RoleRepo.FindByID(ctx, user.RoleID); err == nil {
		view.RoleName = r.RoleName
	}
	return view, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, search string, page, limit int64) ([]UserView, int64, error) {
	filter := bson.M{}
	if search != "" {
		filter = common_models.SearchQuery(search, []string{"user_name", "email", "mobile_number"})
	}

	users, total, err := s.UserRepo.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}

	// Resolve role names in one pass
	roleNames := make(map[primitive.ObjectID]string)
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		name, ok := roleNames[u.RoleID]
		if !ok {
			if r, err := s.RoleRepo.FindByID(ctx, u.RoleID); err == nil {
				name = r.RoleName
			}
			roleNames[u.RoleID] = name
		}
		views = append(views, UserView{User: u, RoleName: name})
	}

	return views, total, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, idHex string, input *CreateUserInput) error {
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperror.Validation("invalid user id")
	}

	existing, err := s.UserRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("user")
		}
		return apperror.Internal(err)
	}

	if input.Email != existing.Email {
		if _, err := s.UserRepo.FindByEmail(ctx, input.Email); err == nil {
			return apperror.Conflict("email %q is already registered", input.Email)
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.Internal(err)
		}
	}

	assignedRole, err := s.resolveRole(ctx, input.RoleID)
	if err != nil {
		return err
	}

	updated := &common_models.User{
		Email:        input.Email,
		UserName:     input.UserName,
		MobileNumber: input.MobileNumber,
		RoleID:       assignedRole.ID,
		Status:       input.Status,
	}
	if input.Password != "" {
		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			return apperror.Internal(err)
		}
		updated.Password = hash
	}

	if err := s.UserRepo.Update(ctx, oid, updated); err != nil {
		return apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "user", idHex, map[string]common_models.Change{
		"email":  {Old: existing.Email, New: input.Email},
		"status": {Old: existing.Status, New: input.Status},
	})

	return nil
}

// DeleteUser refuses to remove a user who still owns live leads; leads must
// be reassigned or deleted first.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, idHex string) error {
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperror.Validation("invalid user id")
	}

	existing, err := s.UserRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("user")
		}
		return apperror.Internal(err)
	}

	owned, err := s.LeadCounter.CountLiveByOwner(ctx, oid)
	if err != nil {
		return apperror.Internal(err)
	}
	if owned > 0 {
		return apperror.Conflict("user %q still owns %d active lead(s)", existing.UserName, owned)
	}

	if err := s.UserRepo.Delete(ctx, oid); err != nil {
		return apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "user", idHex, map[string]common_models.Change{
		"email": {Old: existing.Email},
	})

	return nil
}
