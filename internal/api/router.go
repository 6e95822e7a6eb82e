package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/healthywell/telemedicine-api/internal/api/handler"
	"github.com/healthywell/telemedicine-api/internal/api/middleware"
	"github.com/healthywell/telemedicine-api/internal/core/ports"
	"github.com/healthywell/telemedicine-api/internal/core/service"
	mongorepo "github.com/healthywell/telemedicine-api/internal/infrastructure/db/mongo"
	redisrepo "github.com/healthywell/telemedicine-api/internal/infrastructure/db/redis"
)

// Deps carries the externally managed dependencies the router wires into
// handlers. The completion client and the turn serializer are built (and
// their lifecycles owned) by the caller.
type Deps struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Generator ports.TextGenerator
	Client    ports.CompletionClient
	Turns     ports.TurnSerializer
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("telemedicine"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(d.DB)
	doctorRepo := mongorepo.NewDoctorRepository(d.DB)
	consultationRepo := mongorepo.NewConsultationRepository(d.DB)
	messageRepo := mongorepo.NewMessageRepository(d.DB)
	topicCache := redisrepo.NewTopicCache(d.Redis)

	// --- Services ---
	authService := service.NewAuthService(userRepo, d.JWTSecret, time.Hour)
	doctorService := service.NewDoctorService(doctorRepo, d.Log)
	consultationService := service.NewConsultationService(
		consultationRepo, messageRepo, doctorRepo, userRepo, d.Generator, d.Turns, d.Log)
	supportService := service.NewSupportService(d.Generator, d.Client, topicCache, d.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	doctorHandler := handler.NewDoctorHandler(doctorService)
	consultationHandler := handler.NewConsultationHandler(consultationService)
	supportHandler := handler.NewSupportHandler(supportService)
	authMiddleware := middleware.Auth(d.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/user", authHandler.GetUser, authMiddleware)
	e.PUT("/auth/user", authHandler.UpdateUser, authMiddleware)

	// --- Doctor directory ---
	e.GET("/doctors", doctorHandler.List)
	e.GET("/doctors/:id", doctorHandler.Get)
	e.POST("/doctors", doctorHandler.Create, authMiddleware)
	e.PUT("/doctors/:id", doctorHandler.Update, authMiddleware)
	e.DELETE("/doctors/:id", doctorHandler.Delete, authMiddleware)

	// --- Consultations ---
	consultations := e.Group("/consultations", authMiddleware)
	consultations.POST("", consultationHandler.Create)
	consultations.GET("", consultationHandler.List)
	consultations.GET("/:id", consultationHandler.Get)
	consultations.POST("/:id/start", consultationHandler.Start)
	consultations.POST("/:id/end", consultationHandler.End)
	consultations.POST("/:id/messages", consultationHandler.SendMessage)
	consultations.PATCH("/:id/notes", consultationHandler.UpdateNotes)

	// --- Health support chat ---
	e.POST("/health-support/chat", supportHandler.Chat, authMiddleware)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
