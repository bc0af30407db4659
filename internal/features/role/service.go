package role

import (
	"context"
	"errors"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/internal/features/audit"
	"github.com/shahkeval/lead-management-sub000/internal/features/module"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserCounter reports how many users are bound to a role. Satisfied by the
// user repository through an adapter in main to avoid a package cycle.
type UserCounter interface {
	CountByRole(ctx context.Context, roleID primitive.ObjectID) (int64, error)
}

type RoleService interface {
	CreateRole(ctx context.Context, role *Role) (*Role, error)
	GetRole(ctx context.Context, idHex string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, idHex string, role *Role) error
	DeleteRole(ctx context.Context, idHex string) error
	UpdateRoleRights(ctx context.Context, idHex string, req *UpdateRightsRequest) (*Role, error)
	GetGrants(ctx context.Context, roleIDHex string) ([]Permission, error)
	CheckPermission(ctx context.Context, roleIDHex string, moduleName, action string) (bool, error)
	LeadVisibility(ctx context.Context, roleIDHex string) (common_models.Visibility, error)
	MeetingVisibility(ctx context.Context, roleIDHex string) (common_models.Visibility, error)
}

// UpdateRightsRequest replaces a role's grants and scopes wholesale.
type UpdateRightsRequest struct {
	AssignedModuleIDs []string                 `json:"assigned_module_ids" validate:"required"`
	VisibleLeads      common_models.Visibility `json:"visible_leads" validate:"required,oneof=Own All"`
	VisibleMeetings   common_models.Visibility `json:"visible_meetings" validate:"required,oneof=Own All"`
	Status            common_models.Status     `json:"status" validate:"required,oneof=Active Inactive"`
}

type RoleServiceImpl struct {
	RoleRepo     RoleRepository
	ModuleRepo   module.ModuleRepository
	UserCounter  UserCounter
	AuditService audit.AuditService
}

func NewRoleService(
	roleRepo RoleRepository,
	moduleRepo module.ModuleRepository,
	userCounter UserCounter,
	auditService audit.AuditService,
) RoleService {
	return &RoleServiceImpl{
		RoleRepo:     roleRepo,
		ModuleRepo:   moduleRepo,
		UserCounter:  userCounter,
		AuditService: auditService,
	}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, role *Role) (*Role, error) {
	if _, err := s.RoleRepo.FindByName(ctx, role.RoleName); err == nil {
		return nil, apperror.Conflict("role %q already exists", role.RoleName)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Internal(err)
	}

	role.ID = primitive.NewObjectID()
	if role.Status == "" {
		role.Status = common_models.StatusActive
	}
	if role.VisibleLeads == "" {
		role.VisibleLeads = common_models.VisibilityOwn
	}
	if role.VisibleMeetings == "" {
		role.VisibleMeetings = common_models.VisibilityOwn
	}
	if role.AssignedModules == nil {
		role.AssignedModules = []primitive.ObjectID{}
	}
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt

	if err := s.RoleRepo.Create(ctx, role); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Conflict("role %q already exists", role.RoleName)
		}
		return nil, apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "role", role.ID.Hex(), map[string]common_models.Change{
		"role_name": {New: role.RoleName},
	})

	return role, nil
}

func (s *RoleServiceImpl) GetRole(ctx context.Context, idHex string) (*Role, error) {
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperror.Validation("invalid role id")
	}

	role, err := s.RoleRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("role")
		}
		return nil, apperror.Internal(err)
	}
	return role, nil
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	roles, err := s.RoleRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return roles, nil
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, idHex string, role *Role) error {
	existing, err := s.GetRole(ctx, idHex)
	if err != nil {
		return err
	}

	if role.RoleName != existing.RoleName {
		if _, err := s.RoleRepo.FindByName(ctx, role.RoleName); err == nil {
			return apperror.Conflict("role %q already exists", role.RoleName)
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.Internal(err)
		}
	}

	if err := s.RoleRepo.Update(ctx, existing.ID, role); err != nil {
		return apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "role", idHex, map[string]common_models.Change{
		"role_name": {Old: existing.RoleName, New: role.RoleName},
		"status":    {Old: existing.Status, New: role.Status},
	})

	return nil
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, idHex string) error {
	existing, err := s.GetRole(ctx, idHex)
	if err != nil {
		return err
	}

	count, err := s.UserCounter.CountByRole(ctx, existing.ID)
	if err != nil {
		return apperror.Internal(err)
	}
	if count > 0 {
		return apperror.Conflict("role %q is still assigned to %d user(s)", existing.RoleName, count)
	}

	if err := s.RoleRepo.Delete(ctx, existing.ID); err != nil {
		return apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "role", idHex, map[string]common_models.Change{
		"role_name": {Old: existing.RoleName},
	})

	return nil
}

// UpdateRoleRights validates every requested module id against the live
// catalog before writing anything. If any id no longer resolves, the whole
// operation fails naming the stale entries; nothing is partially applied.
func (s *RoleServiceImpl) UpdateRoleRights(ctx context.Context, idHex string, req *UpdateRightsRequest) (*Role, error) {
	existing, err := s.GetRole(ctx, idHex)
	if err != nil {
		return nil, err
	}

	requested := make([]primitive.ObjectID, 0, len(req.AssignedModuleIDs))
	for _, hex := range req.AssignedModuleIDs {
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, apperror.Validation("invalid module id %q", hex)
		}
		requested = append(requested, oid)
	}

	live, err := s.ModuleRepo.FindLiveByIDs(ctx, requested)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	found := make(map[primitive.ObjectID]bool, len(live))
	for _, m := range live {
		found[m.ID] = true
	}

	var missing []string
	for _, oid := range requested {
		if !found[oid] {
			missing = append(missing, oid.Hex())
		}
	}
	if len(missing) > 0 {
		return nil, apperror.StaleRights(missing)
	}

	rights := &RightsUpdate{
		AssignedModules: requested,
		VisibleLeads:    string(req.VisibleLeads),
		VisibleMeetings: string(req.VisibleMeetings),
		Status:          string(req.Status),
	}

	if err := s.RoleRepo.ReplaceRights(ctx, existing.ID, rights); err != nil {
		return nil, apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "role", idHex, map[string]common_models.Change{
		"assigned_modules": {Old: existing.AssignedModules, New: requested},
		"visible_leads":    {Old: existing.VisibleLeads, New: req.VisibleLeads},
		"visible_meetings": {Old: existing.VisibleMeetings, New: req.VisibleMeetings},
	})

	return s.GetRole(ctx, idHex)
}

// GetGrants resolves the role's assigned module ids against non-deleted
// modules, so rights always reflect the current catalog state.
func (s *RoleServiceImpl) GetGrants(ctx context.Context, roleIDHex string) ([]Permission, error) {
	role, err := s.GetRole(ctx, roleIDHex)
	if err != nil {
		return nil, err
	}

	live, err := s.ModuleRepo.FindLiveByIDs(ctx, role.AssignedModules)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	grants := make([]Permission, 0, len(live))
	for _, m := range live {
		grants = append(grants, Permission{ModuleName: m.ModuleName, Action: string(m.Action)})
	}
	return grants, nil
}

func (s *RoleServiceImpl) CheckPermission(ctx context.Context, roleIDHex string, moduleName, action string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(roleIDHex)
	if err != nil {
		return false, nil
	}

	role, err := s.RoleRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, apperror.Internal(err)
	}

	grants, err := s.GetGrants(ctx, roleIDHex)
	if err != nil {
		return false, err
	}

	return HasPermission(role, grants, Permission{ModuleName: moduleName, Action: action}), nil
}

func (s *RoleServiceImpl) LeadVisibility(ctx context.Context, roleIDHex string) (common_models.Visibility, error) {
	role, err := s.GetRole(ctx, roleIDHex)
	if err != nil {
		return "", err
	}
	return role.VisibleLeads, nil
}

func (s *RoleServiceImpl) MeetingVisibility(ctx context.Context, roleIDHex string) (common_models.Visibility, error) {
	role, err := s.GetRole(ctx, roleIDHex)
	if err != nil {
		return "", err
	}
	return role.VisibleMeetings, nil
}
