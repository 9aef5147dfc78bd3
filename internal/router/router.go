package router // package router wires handlers and middleware into an Echo instance

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mamutes/party-service/internal/config"
	"github.com/mamutes/party-service/internal/handler"
	"github.com/mamutes/party-service/internal/middleware"
	"github.com/mamutes/party-service/internal/model"
)

// Deps is everything New needs. Events and Redis are optional; a nil
// Redis client disables caching and rate limiting.
type Deps struct {
	Cfg       config.Config
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Log       *zap.Logger
	Stores    Stores
	Events    handler.Publisher
	Redis     *redis.Client
}

// Party listings default to a larger page than the other resources.
const partyDefaultLimit = 100

// endpoints is the six-operation surface every resource exposes.
type endpoints interface {
	Create(echo.Context) error
	List(echo.Context) error
	Get(echo.Context) error
	Replace(echo.Context) error
	Patch(echo.Context) error
	Delete(echo.Context) error
}

// New builds the HTTP server: health probes, optional login and
// registration, and the seven resource roots. The rate limiter is attached
// per route after authentication so user keyed strategies see the caller.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))

	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(d.Stores.Ping))

	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)
	read := []echo.MiddlewareFunc{limit, cache}
	write := read
	// Creating a user stays open so a store can be bootstrapped with auth on.
	signup := read
	if d.Cfg.AuthEnabled {
		auth := handler.NewAuthHandler(d.Stores.Users, d.Cfg.JWTSecret, d.Cfg.AccessTTLMin)
		e.POST("/auth/login", auth.Login, limit)
		e.POST("/auth/register", auth.Register, limit, middleware.NewCacheInvalidator(d.Cache, d.Redis, d.Log, "users"))
		write = []echo.MiddlewareFunc{middleware.JWTAuth(d.Cfg.JWTSecret), middleware.RequireRole(d.Cfg.WriteRoles...), limit, cache}
	}

	opts := []handler.ResourceOption{handler.WithLogger(d.Log)}
	if d.Events != nil {
		opts = append(opts, handler.WithEvents(d.Events))
	}
	s := d.Stores

	mount(e, "/users", handler.NewResource(handler.Store[model.User](s.Users), (*model.UserRequest).ApplyTo, (*model.UserPatch).ApplyTo, opts...), read, signup, write)
	mount(e, "/parties", handler.NewResource(s.Parties, (*model.PartyRequest).ApplyTo, (*model.PartyPatch).ApplyTo,
		append(opts, handler.WithDefaultLimit(partyDefaultLimit))...), read, write, write)
	mount(e, "/tickets", handler.NewResource(s.Tickets, (*model.TicketRequest).ApplyTo, (*model.TicketPatch).ApplyTo, opts...), read, write, write)
	mount(e, "/organizers", handler.NewResource(s.Organizers, (*model.OrganizerRequest).ApplyTo, (*model.OrganizerPatch).ApplyTo, opts...), read, write, write)
	mount(e, "/attractions", handler.NewResource(s.Attractions, (*model.AttractionRequest).ApplyTo, (*model.AttractionPatch).ApplyTo, opts...), read, write, write)
	mount(e, "/reviews", handler.NewResource(s.Reviews, (*model.ReviewRequest).ApplyTo, (*model.ReviewPatch).ApplyTo, opts...), read, write, write)
	mount(e, "/payments", handler.NewResource(s.Payments, (*model.PaymentRequest).ApplyTo, (*model.PaymentPatch).ApplyTo, opts...), read, write, write)
	return e
}

// mount registers the six operations of one resource root. Middleware is
// attached per route so unmatched methods still answer 405.
func mount(e *echo.Echo, root string, h endpoints, read, create, write []echo.MiddlewareFunc) {
	e.POST(root, h.Create, create...)
	e.GET(root, h.List, read...)
	e.GET(root+"/:id", h.Get, read...)
	e.PUT(root+"/:id", h.Replace, write...)
	e.PATCH(root+"/:id", h.Patch, write...)
	e.DELETE(root+"/:id", h.Delete, write...)
}
