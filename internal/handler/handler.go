package handler

import (
	"context"
	"time"

	"github.com/abhishek622/devvault/internal/auth"
	"github.com/abhishek622/devvault/internal/cache"
	"github.com/abhishek622/devvault/internal/markdown"
	"github.com/abhishek622/devvault/pkg"
	"github.com/abhishek622/devvault/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the persistence surface the handlers depend on, implemented
// by internal/repository.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	ListNotes(ctx context.Context, userID, tagID uuid.UUID, search string) ([]model.Note, error)
	ListPublicNotes(ctx context.Context, noteType string, tagID uuid.UUID) ([]model.Note, error)
	GetNote(ctx context.Context, noteID, userID uuid.UUID) (*model.Note, error)
	GetPublicNote(ctx context.Context, noteID uuid.UUID) (*model.Note, error)
	CreateNote(ctx context.Context, userID uuid.UUID, title, content, noteType string, tagIDs []uuid.UUID) (*model.Note, error)
	UpdateNote(ctx context.Context, noteID, userID uuid.UUID, title, content, noteType string, tagIDs []uuid.UUID) error
	DeleteNote(ctx context.Context, noteID, userID uuid.UUID) error

	ListTags(ctx context.Context, userID uuid.UUID) ([]model.Tag, error)
	ListPublicTags(ctx context.Context) ([]model.Tag, error)
	ListNoteTags(ctx context.Context, noteID uuid.UUID) ([]model.Tag, error)
	MapNoteTags(ctx context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]model.Tag, error)
	CreateTag(ctx context.Context, userID uuid.UUID, name string) (*model.Tag, error)
	DeleteTag(ctx context.Context, tagID, userID uuid.UUID) error
}

type Handler struct {
	Logger       *zap.Logger
	Store        Store
	Cache        *cache.ListingCache
	Markdown     *markdown.Renderer
	TokenMaker   *auth.JWTMaker
	Crypto       *pkg.Crypto
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool
}

// ClaimsKey is the gin context key the session middleware stores the
// verified claims under.
const ClaimsKey = "claims"

// GetClaimsFromContext returns the session claims, or nil for an
// anonymous request.
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// SessionUserID returns the authenticated user id, or uuid.Nil for an
// anonymous request. The zero id flows into the repository, where
// owner-scoped reads treat it as "no results".
func (h *Handler) SessionUserID(c *gin.Context) uuid.UUID {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		return uuid.Nil
	}
	return claims.UserID
}

// invalidateListings drops the cached public listings after a
// mutation. Failures are logged, never surfaced.
func (h *Handler) invalidateListings(ctx context.Context) {
	if err := h.Cache.Invalidate(ctx); err != nil {
		h.Logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

// parseOptionalUUID returns uuid.Nil for an empty or malformed id. Bad
// filter values degrade to "no filter" rather than erroring a page.
func parseOptionalUUID(s string) uuid.UUID {
	if s == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
