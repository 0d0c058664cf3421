package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinicops/frontdesk/config"
	"github.com/clinicops/frontdesk/internal/repository/memory"
	"github.com/clinicops/frontdesk/internal/service"
	"github.com/clinicops/frontdesk/pkg/metrics"
)

// RouterDeps carries everything the HTTP layer needs; main wires it up.
type RouterDeps struct {
	Config    *config.Config
	Manager   *service.CheckInManager
	Snapshots *service.SnapshotService
	AuditRepo *memory.AuditRepository
	Collector *metrics.Collector
	Log       *zap.Logger
}

// NewRouter builds the gin engine with middleware, health and metrics
// endpoints, and the versioned API routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Log))
	r.Use(Metrics(deps.Collector))
	r.Use(CORS(deps.Config.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"service":         deps.Config.App.Name,
			"version":         deps.Config.App.Version,
			"active_checkins": deps.Manager.Count(),
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")
	{
		NewCheckInHandler(deps.Manager, deps.Snapshots, deps.Log).Register(api)
		NewSnapshotHandler(deps.Snapshots, deps.Log).Register(api)
		NewAuditHandler(deps.AuditRepo).Register(api)

		api.GET("/waiting-areas", func(c *gin.Context) {
			respondOK(c, gin.H{"waiting_areas": deps.Manager.WaitingAreas()})
		})
	}

	return r
}
