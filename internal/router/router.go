// Package router builds the Echo instance and registers the API routes.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
)

// Deps are the collaborators the HTTP layer is built from.  Redis, the
// JWT secret and the health checks are optional.
type Deps struct {
	Rooms     handler.RoomService
	Bookings  handler.BookingService
	Log       *zap.Logger
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	JWTSecret string
	Checks    []handler.HealthCheck
}

// Route is one entry of the API route table.  Params lists the path
// parameters that must parse as integers; Write marks routes that mutate
// state and therefore sit behind auth and the rate limiter.
type Route struct {
	Method  string
	Path    string
	Handler echo.HandlerFunc
	Params  []string
	Write   bool
}

// Routes returns the API route table.
func Routes(rooms *handler.RoomHandler, bookings *handler.BookingHandler) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/rooms", Handler: rooms.List},
		{Method: http.MethodGet, Path: "/api/rooms/:id", Handler: rooms.Get, Params: []string{"id"}},
		{Method: http.MethodPost, Path: "/api/rooms", Handler: rooms.Create, Write: true},
		{Method: http.MethodPut, Path: "/api/rooms/:id", Handler: rooms.Update, Params: []string{"id"}, Write: true},
		{Method: http.MethodDelete, Path: "/api/rooms/:id", Handler: rooms.Delete, Params: []string{"id"}, Write: true},

		{Method: http.MethodGet, Path: "/api/bookings", Handler: bookings.List},
		{Method: http.MethodGet, Path: "/api/bookings/room/:roomId", Handler: bookings.ListForRoom, Params: []string{"roomId"}},
		{Method: http.MethodGet, Path: "/api/bookings/:id", Handler: bookings.Get, Params: []string{"id"}},
		{Method: http.MethodPost, Path: "/api/bookings", Handler: bookings.Create, Write: true},
		{Method: http.MethodDelete, Path: "/api/bookings/:id", Handler: bookings.Delete, Params: []string{"id"}, Write: true},
	}
}

// New returns a configured Echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	allowHeaders := []string{}
	if d.JWTSecret != "" {
		allowHeaders = append(allowHeaders, echo.HeaderAuthorization)
	}
	e.Pre(middleware.CORS(allowHeaders...))
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.BodyLimit("1M"))

	RegisterHealth(e, d)
	RegisterAPI(e, d)
	return e
}

// RegisterHealth registers the liveness and readiness probes.
func RegisterHealth(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(d.Log, d.Checks...))
}

// RegisterAPI registers the route table.  Every route goes through the
// response cache, which serves reads and bumps the scope generation after
// successful writes.  Writes additionally pass the optional JWT check and
// the rate limiter.
func RegisterAPI(e *echo.Echo, d Deps) {
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)

	var writeMW []echo.MiddlewareFunc
	if d.JWTSecret != "" {
		writeMW = append(writeMW, middleware.JWTAuth(d.JWTSecret))
	}
	writeMW = append(writeMW, middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))

	routes := Routes(handler.NewRoomHandler(d.Rooms), handler.NewBookingHandler(d.Bookings))
	for _, r := range routes {
		mw := []echo.MiddlewareFunc{cache}
		if len(r.Params) > 0 {
			mw = append(mw, middleware.IntParams(r.Params...))
		}
		if r.Write {
			mw = append(mw, writeMW...)
		}
		e.Add(r.Method, r.Path, r.Handler, mw...)
	}
}
