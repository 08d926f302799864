package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gateway "github.com/adonese/hrportal/apigateway"
	"github.com/adonese/hrportal/apperr"
	"github.com/adonese/hrportal/cache"
	"github.com/adonese/hrportal/employees"
	"github.com/adonese/hrportal/hr_fields"
	"github.com/adonese/hrportal/leave"
	"github.com/adonese/hrportal/pages"
	"github.com/adonese/hrportal/payslip"
	"github.com/adonese/hrportal/sidebar"
	"github.com/adonese/hrportal/store"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rohanthewiz/element"
	"github.com/sirupsen/logrus"
)

const migrateTimeout = 30 * time.Second

// portal holds everything the engine is built from.
type portal struct {
	Config    hr_fields.PortalConfig
	Logger    *logrus.Logger
	DB        *store.DB
	Store     *store.Store
	Employees *cache.Employees
	Registry  *prometheus.Registry
	redis     *redis.Client
}

// cachedStore answers employee lookups through the cache and everything else
// straight from the store.
type cachedStore struct {
	*store.Store
	employees *cache.Employees
}

func (s cachedStore) GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error) {
	return s.employees.GetEmployee(ctx, id)
}

// openPortal connects storage and cache and runs migrations.
func openPortal(ctx context.Context, cfg hr_fields.PortalConfig, logger *logrus.Logger) (*portal, error) {
	logger.Printf("The final database file is: %#v", cfg.DatabasePath)
	db, err := store.OpenFromConfig(cfg.DatabaseURL, cfg.DatabasePath, cfg.DatabaseDriver)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	migrateCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()
	if err := store.Migrate(migrateCtx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	st, err := store.New(db, store.WithDataKey(cfg.DataKey))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	p := &portal{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Store:    st,
		Registry: newRegistry(),
	}

	if cfg.RedisAddr != "" {
		p.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := p.redis.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unavailable, employee cache will fall through")
		}
	}
	p.Employees = &cache.Employees{Client: p.redis, Next: st, TTL: cfg.CacheTTL(), Logger: logger}
	return p, nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

func (p *portal) Close() error {
	if p.redis != nil {
		_ = p.redis.Close()
	}
	return p.DB.Close()
}

func (p *portal) source() cachedStore {
	return cachedStore{Store: p.Store, employees: p.Employees}
}

func payslipNav(params pages.Params) []sidebar.Item {
	id := url.PathEscape(params.ID())
	return []sidebar.Item{
		{Label: "Payslips", Href: "/payslips/" + id},
		{Label: "Leave", Href: "/leave/" + id},
	}
}

// GetMainEngine builds the fiber app with every route of the portal.
func GetMainEngine(p *portal) *fiber.App {
	cfg := p.Config
	route := fiber.New(fiber.Config{
		Views:                 pages.Views(),
		ViewsLayout:           pages.Layout,
		ErrorHandler:          apperr.Handler(p.Logger, pages.ErrorPage),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		AppName:               "hrportal",
		DisableStartupMessage: isTestRun(),
	})
	route.Use(gateway.RequestID())
	route.Use(gateway.RequestLogger(p.Logger, logSampling))
	route.Use(gateway.Instrumentation(p.Registry))

	route.Use("/assets", pages.Assets())
	route.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})))
	route.Get("/healthz", func(c *fiber.Ctx) error {
		if err := p.DB.PingContext(c.UserContext()); err != nil {
			return apperr.Wrap(err, apperr.ErrUnavailable, "database unreachable")
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok", "driver": p.DB.Driver})
	})

	sidebarOpen := !cfg.SidebarCollapsed
	route.Post("/sidebar/toggle", sidebar.Toggle(sidebarOpen))

	source := p.source()
	leaveSvc := &leave.Service{Source: source, Logger: p.Logger}
	payslipSvc := &payslip.Service{Source: source, Logger: p.Logger, Currency: cfg.Currency}

	route.Get("/leave/:id", pages.Handle("Leave", func(ctx context.Context, params pages.Params) element.Component {
		return pages.LeavePage(ctx, leaveSvc, params)
	}))
	route.Get("/payslips/:id", pages.HandlePayslip("Payslips", sidebarOpen, payslipNav,
		func(ctx context.Context, params pages.Params) element.Component {
			return payslipSvc.List(ctx, params.ID())
		}))
	route.Get("/payslips/:id/:period", pages.HandlePayslip("Payslip", sidebarOpen, payslipNav,
		func(ctx context.Context, params pages.Params) element.Component {
			return payslipSvc.Detail(ctx, params.ID(), params["period"])
		}))

	guard := gateway.RequireAdmin(gateway.AdminAuthConfig{
		Key:          cfg.AdminKey,
		User:         cfg.AdminUser,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		TOTPSecret:   cfg.AdminTOTPSecret,
		Debug:        cfg.IsDebug,
	})
	api := route.Group("/api/employees")
	{
		emp := &employees.Handlers{Store: p.Store, Cache: p.Employees, Logger: p.Logger}
		emp.Register(api, guard)
		lv := &leave.Handlers{Store: source, Logger: p.Logger}
		lv.Register(api, guard)
		ps := &payslip.Handlers{Store: source, Logger: p.Logger, Currency: cfg.Currency}
		ps.Register(api, guard)
	}
	return route
}
