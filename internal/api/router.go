package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/salesrecorder/sales-web/docs"
	"github.com/salesrecorder/sales-web/internal/api/handler"
	"github.com/salesrecorder/sales-web/internal/api/middleware"
	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/internal/core/workflow"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Log            zerolog.Logger
	Session        middleware.SessionConfig
	Storage        ports.SessionStorage
	StorageBackend string
	AuthAPI        ports.AuthAPI
	Backend        handler.Backend
	// Registry receives the HTTP metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "sales_web",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper:    opsRoute,
	}))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(middleware.Auth(d.Session, d.Storage))
	e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   d.Session.Secure,
		CookieSameSite: http.SameSiteLaxMode,
		Skipper: func(c echo.Context) bool {
			return opsRoute(c) || strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
	}))

	// --- Dependencies ---
	authService := service.NewAuthService(d.AuthAPI, d.Log)
	authHandler := handler.NewAuthHandler(authService)
	dashboardHandler := handler.NewDashboardHandler(authService, d.Backend)
	clientHandler := handler.NewClientHandler(authService, d.Backend.Clients)
	approvalHandler := handler.NewApprovalHandler(authService, d.Backend, workflow.NewGuard())
	salespersonHandler := handler.NewSalespersonHandler(authService, d.Backend.Salespersons)
	flavorHandler := handler.NewFlavorHandler(authService, d.Backend.Flavors)
	saleHandler := handler.NewSaleHandler(authService, d.Backend)
	reportHandler := handler.NewReportHandler(authService, d.Backend.Reports, d.Backend.Salespersons)

	admin := middleware.RBAC(domain.RoleAdmin)
	salesperson := middleware.RBAC(domain.RoleSalesperson)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleSalesperson)

	// --- Auth routes ---
	e.GET("/", authHandler.LoginPage, middleware.GuestOnly())
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)

	e.GET("/api/v1/session", authHandler.GetSession)
	e.POST("/api/v1/session", authHandler.CreateSession)
	e.DELETE("/api/v1/session", authHandler.DeleteSession)

	// --- Dashboards ---
	e.GET("/admin-dashboard", dashboardHandler.Admin, admin)
	e.GET("/sales-dashboard", dashboardHandler.Sales, salesperson)

	// --- Clients ---
	e.GET("/clients", clientHandler.List, staff)
	e.GET("/clients/new", clientHandler.New, staff)
	e.POST("/clients", clientHandler.Create, staff)
	e.GET("/clients/pending", approvalHandler.Pending, admin)
	e.POST("/clients/pending/:id/approve", approvalHandler.Approve, admin)
	e.POST("/clients/pending/:id/reject", approvalHandler.Reject, admin)
	e.GET("/clients/:id", clientHandler.Show, staff)
	e.GET("/clients/:id/edit", clientHandler.Edit, staff)
	e.POST("/clients/:id", clientHandler.Update, staff)

	// --- Catalogue and sales force ---
	e.GET("/salespersons", salespersonHandler.List, admin)
	e.POST("/salespersons", salespersonHandler.Register, admin)
	e.GET("/flavors", flavorHandler.List, admin)
	e.POST("/flavors", flavorHandler.Create, admin)
	e.GET("/flavors/:id/edit", flavorHandler.Edit, admin)
	e.POST("/flavors/:id", flavorHandler.Update, admin)
	e.POST("/flavors/:id/toggle", flavorHandler.Toggle, admin)

	// --- Sales and reports ---
	e.GET("/sales/new", saleHandler.New, staff)
	e.POST("/sales", saleHandler.Create, staff)
	e.GET("/reports", reportHandler.Page, staff)
	e.POST("/reports/preview", reportHandler.Preview, staff)
	e.POST("/reports/download", reportHandler.Download, staff)

	// --- Ops (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.StorageBackend, d.Storage)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: is the session storage up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func opsRoute(c echo.Context) bool {
	p := c.Request().URL.Path
	return strings.HasPrefix(p, "/health") || p == "/metrics" || strings.HasPrefix(p, "/swagger/")
}
