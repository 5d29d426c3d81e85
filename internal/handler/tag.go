package handler

import (
	"strings"

	"github.com/abhishek622/devvault/pkg/model"
	"github.com/abhishek622/devvault/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateTag creates a tag from the note editor. Names are lower-cased
// and a duplicate (name, owner) pair returns the existing tag rather
// than an error.
func (h *Handler) CreateTag(c *gin.Context) {
	userID := h.SessionUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.CreateTagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		response.ValidationError(c, "Tag name is required")
		return
	}

	tag, err := h.Store.CreateTag(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.Logger.Error("create_tag: failed to create",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		response.InternalError(c, "failed to create tag")
		return
	}

	h.invalidateListings(c.Request.Context())
	response.Created(c, tag)
}

// ListUserTags returns the caller's tags for the editor picker.
func (h *Handler) ListUserTags(c *gin.Context) {
	userID := h.SessionUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	tags, err := h.Store.ListTags(c.Request.Context(), userID)
	if err != nil {
		h.Logger.Error("list_tags: failed to fetch",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		response.InternalError(c, "failed to fetch tags")
		return
	}

	response.OK(c, tags)
}

// DeleteTag removes an owned tag; its note associations cascade. A
// non-owner's request affects zero rows.
func (h *Handler) DeleteTag(c *gin.Context) {
	userID := h.SessionUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tag id")
		return
	}

	if err := h.Store.DeleteTag(c.Request.Context(), tagID, userID); err != nil {
		h.Logger.Error("delete_tag: failed to delete",
			zap.String("tag_id", tagID.String()),
			zap.Error(err),
		)
		response.InternalError(c, "failed to delete tag")
		return
	}

	h.invalidateListings(c.Request.Context())
	response.Message(c, "tag deleted successfully")
}
