package module

import (
	"context"
	"errors"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ModuleService interface {
	CreateModule(ctx context.Context, moduleName string, action Action, parentIDHex string) (*Module, error)
	ListModules(ctx context.Context) ([]ModuleView, error)
	DeleteModule(ctx context.Context, idHex string) error
}

type ModuleServiceImpl struct {
	ModuleRepo   ModuleRepository
	AuditService audit.AuditService
}

func NewModuleService(moduleRepo ModuleRepository, auditService audit.AuditService) ModuleService {
	return &ModuleServiceImpl{
		ModuleRepo:   moduleRepo,
		AuditService: auditService,
	}
}

func (s *ModuleServiceImpl) CreateModule(ctx context.Context, moduleName string, action Action, parentIDHex string) (*Module, error) {
	if !action.Valid() {
		return nil, apperror.Validation("unknown action %q", action)
	}

	if _, err := s.ModuleRepo.FindByNameAction(ctx, moduleName, action); err == nil {
		return nil, apperror.Conflict("module %q with action %q already exists", moduleName, action)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Internal(err)
	}

	var parentID *primitive.ObjectID
	if parentIDHex != "" {
		oid, err := primitive.ObjectIDFromHex(parentIDHex)
		if err != nil {
			return nil, apperror.Validation("invalid parent_id")
		}
		if _, err := s.ModuleRepo.FindByID(ctx, oid); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperror.NotFound("parent module")
			}
			return nil, apperror.Internal(err)
		}
		parentID = &oid
	}

	now := time.Now()
	module := &Module{
		ID:         primitive.NewObjectID(),
		ModuleName: moduleName,
		Action:     action,
		ParentID:   parentID,
		IsActive:   true,
		IsDeleted:  false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.ModuleRepo.Create(ctx, module); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Conflict("module %q with action %q already exists", moduleName, action)
		}
		return nil, apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "module", module.ID.Hex(), map[string]common_models.Change{
		"module_name": {New: moduleName},
		"action":      {New: string(action)},
	})

	return module, nil
}

func (s *ModuleServiceImpl) ListModules(ctx context.Context) ([]ModuleView, error) {
	modules, err := s.ModuleRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	namesByID := make(map[primitive.ObjectID]string, len(modules))
	for _, m := range modules {
		namesByID[m.ID] = m.ModuleName
	}

	views := make([]ModuleView, 0, len(modules))
	for _, m := range modules {
		view := ModuleView{Module: m}
		if m.ParentID != nil {
			view.ParentName = namesByID[*m.ParentID]
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *ModuleServiceImpl) DeleteModule(ctx context.Context, idHex string) error {
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperror.Validation("invalid module id")
	}

	if err := s.ModuleRepo.SoftDelete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("module")
		}
		return apperror.Internal(err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "module", idHex, nil)
	return nil
}
