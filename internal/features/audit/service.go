package audit

import (
	"context"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserFinder resolves actor ids to users for display names. Satisfied by the
// user repository through an adapter in main.
type UserFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error)
}

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error
	ListLogs(ctx context.Context, module string, page, limit int64) ([]common_models.AuditLog, int64, error)
}

type AuditServiceImpl struct {
	Repo     AuditRepository
	UserRepo UserFinder
}

func NewAuditService(repo AuditRepository, userRepo UserFinder) AuditService {
	return &AuditServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	actorID := "system"
	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		actorID = claims.UserID
	}

	log := common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Module:    module,
		RecordID:  recordID,
		ActorID:   actorID,
		Changes:   changes,
		Timestamp: time.Now(),
	}

	return s.Repo.Create(ctx, log)
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, module string, page, limit int64) ([]common_models.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if module != "" {
		filter["module"] = module
	}

	logs, total, err := s.Repo.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}

	// Batch resolve actor names
	seen := make(map[string]bool)
	actorIDs := make([]string, 0)
	for _, l := range logs {
		if l.ActorID != "system" && l.ActorID != "" && !seen[l.ActorID] {
			seen[l.ActorID] = true
			actorIDs = append(actorIDs, l.ActorID)
		}
	}

	if len(actorIDs) > 0 {
		users, err := s.UserRepo.FindByIDs(ctx, actorIDs)
		if err == nil {
			names := make(map[string]string, len(users))
			for _, u := range users {
				names[u.ID.Hex()] = u.UserName
			}
			for i := range logs {
				logs[i].ActorName = names[logs[i].ActorID]
			}
		}
	}

	return logs, total, nil
}
