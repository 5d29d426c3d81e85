package handler

import (
	"net/http"

	"github.com/abhishek622/devvault/internal/cache"
	"github.com/abhishek622/devvault/internal/content"
	"github.com/abhishek622/devvault/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type homePageData struct {
	Notes      []noteCard
	Interviews []noteCard
	Tags       []model.Tag
	ActiveTag  string
}

// Home serves the public landing page: the ten most recently updated
// notes and interview entries, with an optional tag filter.
// Authenticated users are redirected to their own notes.
func (h *Handler) Home(c *gin.Context) {
	if h.SessionUserID(c) != uuid.Nil {
		c.Redirect(http.StatusFound, "/notes")
		return
	}

	tagParam := c.Query("tag")
	tagID := parseOptionalUUID(tagParam)

	notes, err := h.publicNotes(c, content.TypeNote, tagID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load page"})
		return
	}
	interviews, err := h.publicNotes(c, content.TypeInterview, tagID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load page"})
		return
	}

	tags, err := h.publicTags(c)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load page"})
		return
	}

	noteCards, err := h.buildCards(c, notes)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load page"})
		return
	}
	interviewCards, err := h.buildCards(c, interviews)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load page"})
		return
	}

	c.HTML(http.StatusOK, "home.html", homePageData{
		Notes:      noteCards,
		Interviews: interviewCards,
		Tags:       tags,
		ActiveTag:  tagParam,
	})
}

// publicNotes reads a public listing through the cache.
func (h *Handler) publicNotes(c *gin.Context, noteType string, tagID uuid.UUID) ([]model.Note, error) {
	ctx := c.Request.Context()
	key := cache.NotesKey(noteType, tagID)

	var notes []model.Note
	if h.Cache.Get(ctx, key, &notes) {
		return notes, nil
	}

	notes, err := h.Store.ListPublicNotes(ctx, noteType, tagID)
	if err != nil {
		h.Logger.Error("public notes query failed", zap.String("type", noteType), zap.Error(err))
		return nil, err
	}

	if err := h.Cache.Set(ctx, key, notes); err != nil {
		h.Logger.Warn("public notes cache set failed", zap.Error(err))
	}
	return notes, nil
}

// publicTags reads the public tag filter list through the cache.
func (h *Handler) publicTags(c *gin.Context) ([]model.Tag, error) {
	ctx := c.Request.Context()

	var tags []model.Tag
	if h.Cache.Get(ctx, cache.TagsKey(), &tags) {
		return tags, nil
	}

	tags, err := h.Store.ListPublicTags(ctx)
	if err != nil {
		h.Logger.Error("public tags query failed", zap.Error(err))
		return nil, err
	}

	if err := h.Cache.Set(ctx, cache.TagsKey(), tags); err != nil {
		h.Logger.Warn("public tags cache set failed", zap.Error(err))
	}
	return tags, nil
}
