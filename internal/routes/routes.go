package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/amigo-app/amigo-api/internal/auth"
	"github.com/amigo-app/amigo-api/internal/config"
	"github.com/amigo-app/amigo-api/internal/identity"
	"github.com/amigo-app/amigo-api/internal/mailer"
	"github.com/amigo-app/amigo-api/internal/matrix"
	"github.com/amigo-app/amigo-api/internal/middleware"
	"github.com/amigo-app/amigo-api/internal/reference"
	"github.com/amigo-app/amigo-api/internal/session"
	"github.com/amigo-app/amigo-api/internal/token"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Mail   mailer.Mailer
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside dev the backing stores are mandatory; main checks too, this
	// catches misuse from tests.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(d.Cfg.CORSOrigins(), ", "),
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var users identity.Repository
	if d.DB != nil {
		users = identity.NewPostgresRepository(d.DB)
	} else {
		users = identity.NewMemoryRepository()
	}
	identitySvc := identity.NewService(users)

	var matrixRepo matrix.Repository
	if d.DB != nil {
		matrixRepo = matrix.NewPostgresRepository(d.DB)
	} else {
		matrixRepo = matrix.NewMemoryRepository()
	}
	matrixSvc := matrix.NewService(matrixRepo)

	var municipalities reference.MunicipalityStore
	if d.DB != nil {
		municipalities = reference.NewPostgresMunicipalityStore(d.DB)
	} else {
		municipalities = reference.NewMemoryMunicipalityStore()
	}

	mail := d.Mail
	if mail == nil {
		mail = mailer.NewLoggerMailer(d.Logger)
	}

	tokens := token.NewIssuer(d.Cfg.JWTSecret, d.Cfg.TokenTTL)
	var sessions session.Manager
	if d.Cache != nil {
		sessions = session.NewRedisManager(d.Cache, d.Cfg.SessionTTL)
	} else {
		sessions = session.NewMemoryManager(d.Cfg.SessionTTL)
	}
	authSvc := auth.NewService(identitySvc, users, matrixSvc, sessions, tokens, mail, d.Logger)
	authHandler := auth.NewHandler(authSvc, municipalities, d.Cfg.SessionSecret, d.Cfg.SessionTTL, d.Cfg.MarkerTTL, !d.Cfg.IsDev())

	api := app.Group("/api/v1")

	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	guard := middleware.BearerAuth(tokens, users, d.Logger)
	protected := api.Group("", guard)

	RegisterUserRoutes(protected, identity.NewHandler(identitySvc))
	RegisterMatrixRoutes(protected, matrix.NewHandler(matrixSvc))
	RegisterReferenceRoutes(protected, d.DB)
	RegisterMunicipalityRoutes(protected, municipalities)

	return nil
}
