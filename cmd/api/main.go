package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "github.com/shahkeval/lead-management-sub000/internal/common/api"
	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	"github.com/shahkeval/lead-management-sub000/internal/config"
	"github.com/shahkeval/lead-management-sub000/internal/database"
	"github.com/shahkeval/lead-management-sub000/internal/features/audit"
	"github.com/shahkeval/lead-management-sub000/internal/features/auth"
	"github.com/shahkeval/lead-management-sub000/internal/features/lead"
	"github.com/shahkeval/lead-management-sub000/internal/features/meeting"
	"github.com/shahkeval/lead-management-sub000/internal/features/module"
	"github.com/shahkeval/lead-management-sub000/internal/features/notification"
	"github.com/shahkeval/lead-management-sub000/internal/features/reminder"
	"github.com/shahkeval/lead-management-sub000/internal/features/role"
	"github.com/shahkeval/lead-management-sub000/internal/features/system"
	"github.com/shahkeval/lead-management-sub000/internal/features/user"
	"github.com/shahkeval/lead-management-sub000/internal/logger"
	"github.com/shahkeval/lead-management-sub000/internal/middleware"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	_ "github.com/shahkeval/lead-management-sub000/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates the Fiber app with the shared error handler and
// the ambient middleware stack.
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          apperror.ErrorHandler,
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	app.Use(middleware.RequestIDMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	moduleRepo module.ModuleRepository,
	roleRepo role.RoleRepository,
	userRepo user.UserRepository,
	leadRepo lead.LeadRepository,
	meetingRepo meeting.MeetingRepository,
	zlog *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				ensure := map[string]func(context.Context) error{
					"modules":  moduleRepo.EnsureIndexes,
					"roles":    roleRepo.EnsureIndexes,
					"users":    userRepo.EnsureIndexes,
					"leads":    leadRepo.EnsureIndexes,
					"meetings": meetingRepo.EnsureIndexes,
				}
				for name, fn := range ensure {
					if err := fn(ctx); err != nil {
						zlog.Warn("failed to ensure indexes", zap.String("collection", name), zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

// @title           Lead Management API
// @version         1.0
// @description     Role based lead and meeting management backend.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Database
			database.NewDatabase,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Event hub
			notification.NewHub,

			// Initialize Repository
			audit.NewAuditRepository,
			module.NewModuleRepository,
			role.NewRoleRepository,
			user.NewUserRepository,
			lead.NewLeadRepository,
			lead.NewSequenceRepository,
			meeting.NewMeetingRepository,

			// Initialize Service
			audit.NewAuditService,
			module.NewModuleService,
			role.NewRoleService,
			user.NewUserService,
			auth.NewAuthService,
			lead.NewLeadService,
			meeting.NewMeetingService,
			reminder.NewReminderService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s role.RoleService) middleware.RoleService { return s },
			func(s role.RoleService) lead.RoleVisibility { return s },
			func(s role.RoleService) meeting.RoleVisibility { return s },
			func(r user.UserRepository) audit.UserFinder { return r },
			func(r user.UserRepository) role.UserCounter { return r },
			func(r lead.LeadRepository) user.LeadCounter { return r },

			// Initialize Controller
			auth.NewAuthController,
			module.NewModuleController,
			role.NewRoleController,
			user.NewUserController,
			lead.NewLeadController,
			meeting.NewMeetingController,
			audit.NewAuditController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(module.NewModuleApi),
			AsRoute(role.NewRoleApi),
			AsRoute(user.NewUserApi),
			AsRoute(lead.NewLeadApi),
			AsRoute(meeting.NewMeetingApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, reminderService reminder.ReminderService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return reminderService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return reminderService.StopScheduler()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
