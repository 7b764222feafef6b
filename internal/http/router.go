package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/adala/case-intake/internal/config"
	"github.com/adala/case-intake/internal/http/handlers"
	"github.com/adala/case-intake/internal/http/middleware"
	"github.com/adala/case-intake/internal/service"
	"github.com/adala/case-intake/internal/store"

	_ "github.com/adala/case-intake/docs"
)

func Router(cfg config.Config, st *store.Store, intake *service.IntakeService, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	maxBytes := handlers.MaxBytes(cfg.MaxUploadSizeMB)
	if maxBytes > 0 {
		r.MaxMultipartMemory = maxBytes
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" || cfg.CORSAllowed == "" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.CORSAllowed, ",")
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:          st,
		Intake:         intake,
		Validator:      validator.New(),
		Logger:         logger,
		MaxUploadBytes: maxBytes,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/cases", h.CasesList)
		api.GET("/cases/:id", h.CaseDetails)
		api.POST("/cases", h.CreateCase)
		api.POST("/cases/upload", h.UploadCase)
		api.POST("/cases/document", h.DocumentCase)
		api.GET("/dashboard", h.Dashboard)
		api.GET("/intake/state", h.IntakeState)
		api.POST("/intake/reset", h.IntakeReset)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
