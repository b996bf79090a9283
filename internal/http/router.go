package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/carbonmatch-backend/internal/http/handlers"
	httpMW "github.com/yungbote/carbonmatch-backend/internal/http/middleware"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	BestMatchHandler      *httpH.BestMatchHandler
	RevisionHandler       *httpH.RevisionHandler
	ProductMappingHandler *httpH.ProductMappingHandler
	ChangeLogHandler      *httpH.ChangeLogHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Matching
		if cfg.BestMatchHandler != nil {
			api.POST("/best-match/process", cfg.BestMatchHandler.Process)
			api.GET("/best-match", cfg.BestMatchHandler.List)
			api.GET("/best-match/:id", cfg.BestMatchHandler.Get)
		}

		// Revisions
		if cfg.RevisionHandler != nil {
			api.POST("/delivery-notes/revise", cfg.RevisionHandler.Revise)
		}
		if cfg.ChangeLogHandler != nil {
			api.GET("/delivery-notes/:ref/changes", cfg.ChangeLogHandler.ListByDeliveryNote)
		}

		// Mappings
		if cfg.ProductMappingHandler != nil {
			api.GET("/product-mappings", cfg.ProductMappingHandler.List)
		}
	}

	return r
}
