package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sentiserve/ml-api/internal/api/handler"
	"github.com/sentiserve/ml-api/internal/api/middleware"
	"github.com/sentiserve/ml-api/internal/core/domain"
	"github.com/sentiserve/ml-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers. Redis and Mongo
// are optional and only feed the readiness probe.
type Deps struct {
	Auth        ports.AuthService
	Tokens      ports.TokenService
	Predictions ports.PredictionService
	Redis       *redis.Client
	Mongo       *mongo.Database
	Logger      zerolog.Logger
	Name        string
	Version     string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("mlapi"))

	// --- Handlers ---
	infoHandler := handler.NewInfoHandler(d.Name, d.Version)
	healthHandler := handler.NewHealthHandler(d.Predictions, d.Version)
	readinessHandler := handler.NewReadinessHandler(d.Redis, d.Mongo)
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Auth)
	adminHandler := handler.NewAdminHandler(d.Auth)
	predictHandler := handler.NewPredictHandler(d.Predictions)

	authn := middleware.Auth(d.Tokens)

	// --- Public routes ---
	e.GET("/", infoHandler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Self-profile routes ---
	me := e.Group("/users/me", authn, middleware.Require(domain.ActionSelfProfile))
	me.GET("", userHandler.Me)
	me.PUT("/password", userHandler.ChangePassword)

	// --- Prediction routes ---
	predict := e.Group("", authn, middleware.Require(domain.ActionPredict))
	predict.POST("/predict", predictHandler.Predict)
	predict.GET("/model/info", predictHandler.ModelInfo)

	// --- Admin routes ---
	admin := e.Group("/admin/users", authn, middleware.Require(domain.ActionAdminManageUsers))
	admin.GET("", adminHandler.ListUsers)
	admin.POST("", adminHandler.CreateUser)
	admin.DELETE("/:id", adminHandler.DeleteUser)

	return e
}
