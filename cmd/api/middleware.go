package main

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/abhishek622/devvault/internal/handler"
	"github.com/abhishek622/devvault/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SessionMiddleware unseals and verifies the session cookie, storing
// the claims in the context. A missing or bad cookie just leaves the
// request anonymous; public pages still render.
func (app *application) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sealed, err := c.Cookie(app.Handler.CookieName)
		if err != nil || sealed == "" {
			c.Next()
			return
		}

		token, err := app.Handler.Crypto.Decrypt(sealed)
		if err != nil {
			c.Next()
			return
		}

		claims, err := app.Handler.TokenMaker.VerifyToken(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(handler.ClaimsKey, claims)
		c.Next()
	}
}

// RequireAuth gates owner-only pages, bouncing anonymous requests to
// the login page with a callback back to where they were headed.
func (app *application) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if app.Handler.GetClaimsFromContext(c) == nil {
			c.Redirect(http.StatusFound, "/login?callbackUrl="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuthJSON is the API variant: 401 instead of a redirect.
func (app *application) RequireAuthJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if app.Handler.GetClaimsFromContext(c) == nil {
			response.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware applies a per-client token bucket keyed on the
// remote IP.
func (app *application) RateLimitMiddleware() gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		lim, ok := limiters[ip]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(app.Config.Limiter.RPS), app.Config.Limiter.Burst)
			limiters[ip] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			response.TooManyRequests(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}
