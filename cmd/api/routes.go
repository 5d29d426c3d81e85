package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// simple logger middleware that uses zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "duration", time.Since(start))
	})

	if app.Config.Limiter.Enabled {
		r.Use(app.RateLimitMiddleware())
	}

	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "web/static")

	// every route sees the session; absence of one is not an error
	r.Use(app.SessionMiddleware())

	r.GET("/", app.Handler.Home)
	r.GET("/login", app.Handler.LoginPage)
	r.POST("/login", app.Handler.Login)
	r.GET("/register", app.Handler.RegisterPage)
	r.POST("/register", app.Handler.Register)
	r.POST("/logout", app.Handler.Logout)

	// /notes/:id serves both the owner view and the public variant
	r.GET("/notes/:id", app.Handler.ViewNote)

	owner := r.Group("/")
	owner.Use(app.RequireAuth())
	{
		owner.GET("/notes", app.Handler.ListNotes)
		owner.GET("/notes/new", app.Handler.NewNotePage)
		owner.POST("/notes", app.Handler.CreateNote)
		owner.GET("/notes/:id/edit", app.Handler.EditNotePage)
		owner.POST("/notes/:id", app.Handler.UpdateNote)
		owner.POST("/notes/:id/delete", app.Handler.DeleteNote)
	}

	// tag mini-API used by the note editor
	v1 := r.Group("/api/v1")
	v1.Use(app.RequireAuthJSON())
	{
		v1.GET("/tags", app.Handler.ListUserTags)
		v1.POST("/tags", app.Handler.CreateTag)
		v1.DELETE("/tags/:id", app.Handler.DeleteTag)
	}

	return r
}
