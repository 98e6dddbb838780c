package handler

import (
	"html/template"
	"net/http"

	"spca-maps/internal/auth"
	"spca-maps/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig carries everything the HTTP surface is built from.
type RouterConfig struct {
	Maps *MapHandler
	// Pantries is nil when no database is configured.
	Pantries  *PantrySearchHandler
	Auth      *auth.Authenticator
	Memo      *session.Memo
	Templates *template.Template
	Static    http.FileSystem
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())
	r.SetHTMLTemplate(cfg.Templates)
	r.StaticFS("/static", cfg.Static)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHandler := NewAuthHandler(cfg.Auth, cfg.Memo)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	pages := r.Group("/", cfg.Auth.RequirePage())
	pages.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{"Title": "SPCA Maps", "Page": "home"})
	})
	pages.GET("/pantry", cfg.Maps.PantryPage)
	pages.GET("/vaccine", cfg.Maps.VaccinePage)

	api := r.Group("/api", cfg.Auth.RequireAPI())
	api.GET("/pantry-map", cfg.Maps.PantryMap)
	api.GET("/vaccine-map", cfg.Maps.VaccineMap)
	api.GET("/vaccine-map/options", cfg.Maps.VaccineOptions)
	if cfg.Pantries != nil {
		api.GET("/pantries", cfg.Pantries.Search)
		api.GET("/pantries/nearest", cfg.Pantries.Nearest)
	}

	return r
}
