package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/taskora/internal/config"
	entitlementdomain "github.com/smallbiznis/taskora/internal/entitlement/domain"
	"github.com/smallbiznis/taskora/internal/events"
	notificationdomain "github.com/smallbiznis/taskora/internal/notification/domain"
	"github.com/smallbiznis/taskora/internal/observability"
	obsmiddleware "github.com/smallbiznis/taskora/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/taskora/internal/observability/metrics"
	obstracing "github.com/smallbiznis/taskora/internal/observability/tracing"
	taskdomain "github.com/smallbiznis/taskora/internal/task/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyError,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())
	r.Use(Gzip())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	db              *gorm.DB
	genID           *snowflake.Node
	bus             *events.Bus
	demoPolicy      *config.DemoPolicyHolder
	userSvc         workspacedomain.Service
	notificationSvc notificationdomain.Service
	taskSvc         taskdomain.Service
	entitlementSvc  entitlementdomain.Service

	// routeNames maps method|path to the symbolic route name the demo
	// interceptor matches suffixes and the allow-list against.
	routeNames map[string]string
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	DB              *gorm.DB
	GenID           *snowflake.Node
	Bus             *events.Bus
	DemoPolicy      *config.DemoPolicyHolder
	UserSvc         workspacedomain.Service
	NotificationSvc notificationdomain.Service
	TaskSvc         taskdomain.Service
	EntitlementSvc  entitlementdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		db:              p.DB,
		genID:           p.GenID,
		bus:             p.Bus,
		demoPolicy:      p.DemoPolicy,
		userSvc:         p.UserSvc,
		notificationSvc: p.NotificationSvc,
		taskSvc:         p.TaskSvc,
		entitlementSvc:  p.EntitlementSvc,
		routeNames:      make(map[string]string),
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// handle registers a named route. Names feed the demo interceptor's
// suffix and allow-list matching.
func (s *Server) handle(g *gin.RouterGroup, method, path, name string, handlers ...gin.HandlerFunc) {
	g.Handle(method, path, handlers...)
	full := joinPath(g.BasePath(), path)
	s.routeNames[method+"|"+full] = name
}

// routeName returns the symbolic name of the matched route, or "".
func (s *Server) routeName(c *gin.Context) string {
	return s.routeNames[c.Request.Method+"|"+c.FullPath()]
}

func joinPath(base, path string) string {
	if path == "" || path == "/" {
		return base
	}
	if base == "" || base == "/" {
		return path
	}
	return base + path
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.CurrentUser())
	api.Use(s.DemoGuard())
	api.Use(s.EntitlementGate())

	// -------- Templates --------
	s.handle(api, http.MethodGet, "/templates", "settings.templates.index", s.ListTemplates)
	s.handle(api, http.MethodPost, "/templates/:name/toggle", "settings.templates.toggle", s.ToggleTemplate)

	// -------- Preferences --------
	s.handle(api, http.MethodPost, "/preferences", "settings.preferences.store", s.SetPreference)
	s.handle(api, http.MethodPost, "/channel-targets", "settings.channel-targets.store", s.SetChannelTarget)

	// -------- Webhooks --------
	s.handle(api, http.MethodGet, "/webhooks", "webhooks.index", s.ListWebhooks)
	s.handle(api, http.MethodPost, "/webhooks", "webhooks.store", s.RegisterWebhook)
	s.handle(api, http.MethodDelete, "/webhooks/:id", "webhooks.destroy", s.RemoveWebhook)

	// -------- Tasks --------
	s.handle(api, http.MethodGet, "/tasks", "tasks.index", s.ListTasks)
	s.handle(api, http.MethodPost, "/tasks", "tasks.store", s.CreateTask)
	s.handle(api, http.MethodGet, "/tasks/:id", "tasks.show", s.GetTask)
	s.handle(api, http.MethodPost, "/tasks/:id/assign", "tasks.assign", s.AssignTask)
	s.handle(api, http.MethodPost, "/tasks/:id/stage", "tasks.stage", s.UpdateTaskStage)

	if s.cfg.Environment != "production" {
		s.handle(api, http.MethodPost, "/events/test", "events.test", s.PublishTestEvent)
	}
}
