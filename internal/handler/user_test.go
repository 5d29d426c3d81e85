package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/abhishek622/devvault/pkg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUser(t *testing.T) {
	env := newTestEnv(t)
	r := env.router(t, uuid.Nil)

	w := postForm(r, "/register", url.Values{
		"name":     {"Dev"},
		"email":    {"dev@example.com"},
		"password": {"hunter22"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?registered=true", w.Header().Get("Location"))

	u, err := env.mem().GetUserByEmail(context.Background(), "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Dev", u.Name)
	assert.NoError(t, pkg.ComparePassword(u.PasswordHash, "hunter22"),
		"password is stored hashed")
}

func TestRegisterShortPassword(t *testing.T) {
	env := newTestEnv(t)
	r := env.router(t, uuid.Nil)

	w := postForm(r, "/register", url.Values{
		"name":     {"Dev"},
		"email":    {"dev@example.com"},
		"password": {"short"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "at least 6 characters")
	assert.Empty(t, env.mem().users)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)
	r := env.router(t, uuid.Nil)

	w := postForm(r, "/register", url.Values{"email": {"dev@example.com"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "All fields are required")
	assert.Empty(t, env.mem().users)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	r := env.router(t, uuid.Nil)

	form := url.Values{
		"name":     {"Dev"},
		"email":    {"dev@example.com"},
		"password": {"hunter22"},
	}
	require.Equal(t, http.StatusFound, postForm(r, "/register", form).Code)

	w := postForm(r, "/register", form)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
	assert.Len(t, env.mem().users, 1)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	r := env.router(t, uuid.Nil)

	require.Equal(t, http.StatusFound, postForm(r, "/register", url.Values{
		"name":     {"Dev"},
		"email":    {"dev@example.com"},
		"password": {"hunter22"},
	}).Code)

	w := postForm(r, "/login", url.Values{
		"email":    {"dev@example.com"},
		"password": {"hunter22"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/notes", w.Header().Get("Location"))

	cookie := w.Header().Get("Set-Cookie")
	require.Contains(t, cookie, "devvault_session=")
	assert.Contains(t, cookie, "HttpOnly")

	// the cookie value unseals back to a verifiable token
	sealed := strings.TrimPrefix(strings.Split(cookie, ";")[0], "devvault_session=")
	unescaped, err := url.QueryUnescape(sealed)
	require.NoError(t, err)
	token, err := env.handler.Crypto.Decrypt(unescaped)
	require.NoError(t, err)
	claims, err := env.handler.TokenMaker.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", claims.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	r := env.router(t, uuid.Nil)

	require.Equal(t, http.StatusFound, postForm(r, "/register", url.Values{
		"name":     {"Dev"},
		"email":    {"dev@example.com"},
		"password": {"hunter22"},
	}).Code)

	w := postForm(r, "/login", url.Values{
		"email":    {"dev@example.com"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")

	w = postForm(r, "/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"hunter22"},
	})
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestLoginCallbackMustBeLocal(t *testing.T) {
	env := newTestEnv(t)
	r := env.router(t, uuid.Nil)

	require.Equal(t, http.StatusFound, postForm(r, "/register", url.Values{
		"name":     {"Dev"},
		"email":    {"dev@example.com"},
		"password": {"hunter22"},
	}).Code)

	for _, callback := range []string{"https://evil.example.com/", "//evil.example.com/"} {
		w := postForm(r, "/login", url.Values{
			"email":       {"dev@example.com"},
			"password":    {"hunter22"},
			"callbackUrl": {callback},
		})

		require.Equal(t, http.StatusFound, w.Code, callback)
		assert.Equal(t, "/notes", w.Header().Get("Location"), "external callback is ignored")
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	w := postForm(env.router(t, uuid.New()), "/logout", url.Values{})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "devvault_session=;")
}

func TestAuthPagesRedirectWhenLoggedIn(t *testing.T) {
	env := newTestEnv(t)
	r := env.router(t, uuid.New())

	for _, path := range []string{"/login", "/register"} {
		w := get(r, path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/notes", w.Header().Get("Location"), path)
	}
}
