package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/abhishek622/devvault/internal/repository"
	"github.com/abhishek622/devvault/pkg"
	"github.com/abhishek622/devvault/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authPageData struct {
	Error      string
	Registered bool
	Form       model.RegisterForm
	Callback   string
}

// RegisterPage renders the sign-up form. Authenticated users are sent
// to their notes instead.
func (h *Handler) RegisterPage(c *gin.Context) {
	if h.SessionUserID(c) != uuid.Nil {
		c.Redirect(http.StatusFound, "/notes")
		return
	}
	c.HTML(http.StatusOK, "register.html", authPageData{})
}

// Register creates a user from the sign-up form. Field problems are
// re-rendered into the form; only unexpected failures become errors.
func (h *Handler) Register(c *gin.Context) {
	var form model.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", authPageData{Error: "invalid form submission"})
		return
	}

	if form.Name == "" || form.Email == "" || form.Password == "" {
		c.HTML(http.StatusOK, "register.html", authPageData{Error: "All fields are required", Form: form})
		return
	}
	if len(form.Password) < 6 {
		c.HTML(http.StatusOK, "register.html", authPageData{Error: "Password must be at least 6 characters", Form: form})
		return
	}

	pwHash, err := pkg.HashPassword(form.Password)
	if err != nil {
		h.Logger.Error("failed to hash password", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "register.html", authPageData{Error: "something went wrong", Form: form})
		return
	}

	_, err = h.Store.CreateUser(c.Request.Context(), form.Name, form.Email, pwHash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.HTML(http.StatusOK, "register.html", authPageData{Error: "An account with this email already exists", Form: form})
			return
		}
		h.Logger.Error("user create failed", zap.String("email", form.Email), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "register.html", authPageData{Error: "something went wrong", Form: form})
		return
	}

	c.Redirect(http.StatusFound, "/login?registered=true")
}

// LoginPage renders the sign-in form.
func (h *Handler) LoginPage(c *gin.Context) {
	if h.SessionUserID(c) != uuid.Nil {
		c.Redirect(http.StatusFound, "/notes")
		return
	}
	c.HTML(http.StatusOK, "login.html", authPageData{
		Registered: c.Query("registered") == "true",
		Callback:   c.Query("callbackUrl"),
	})
}

// Login verifies credentials and sets the session cookie.
func (h *Handler) Login(c *gin.Context) {
	var form model.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", authPageData{Error: "invalid form submission"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUserByEmail(ctx, form.Email)
	if err != nil {
		h.Logger.Warn("login user not found", zap.String("email", form.Email), zap.Error(err))
		c.HTML(http.StatusOK, "login.html", authPageData{Error: "Invalid email or password", Callback: form.CallbackURL})
		return
	}
	if err := pkg.ComparePassword(user.PasswordHash, form.Password); err != nil {
		h.Logger.Warn("login password mismatch", zap.String("email", form.Email))
		c.HTML(http.StatusOK, "login.html", authPageData{Error: "Invalid email or password", Callback: form.CallbackURL})
		return
	}

	token, _, err := h.TokenMaker.GenerateToken(user.UserID, user.Email, h.SessionTTL)
	if err != nil {
		h.Logger.Error("error creating token", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", authPageData{Error: "something went wrong"})
		return
	}

	sealed, err := h.Crypto.Encrypt(token)
	if err != nil {
		h.Logger.Error("error sealing session cookie", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", authPageData{Error: "something went wrong"})
		return
	}

	c.SetCookie(h.CookieName, sealed, int(h.SessionTTL.Seconds()), "/", "", h.CookieSecure, true)

	// Only local paths are honored; "//host" is protocol-relative and
	// would leave the site.
	target := form.CallbackURL
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		target = "/notes"
	}
	c.Redirect(http.StatusFound, target)
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(h.CookieName, "", -1, "/", "", h.CookieSecure, true)
	c.Redirect(http.StatusFound, "/")
}
