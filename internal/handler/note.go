package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/abhishek622/devvault/internal/content"
	"github.com/abhishek622/devvault/internal/repository"
	"github.com/abhishek622/devvault/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// noteCard is one entry of a listing page.
type noteCard struct {
	Note model.Note
	Tags []model.Tag
}

type notesPageData struct {
	Notes     []noteCard
	Tags      []model.Tag
	ActiveTag string
	Query     string
}

// sectionView is a rendered section of a note body.
type sectionView struct {
	Heading string
	Body    template.HTML
}

type followUpView struct {
	Question string
	Answer   template.HTML
}

type notePageData struct {
	Note      model.Note
	Tags      []model.Tag
	IsOwner   bool
	Sections  []sectionView
	Interview bool
	Answer    template.HTML
	FollowUps []followUpView
}

type noteFormData struct {
	Error    string
	Editing  bool
	Note     model.Note
	Form     model.NoteForm
	Tags     []model.Tag
	Selected map[uuid.UUID]bool
}

// ListNotes serves /notes: the owner's notes with optional tag or
// search filters, newest update first.
func (h *Handler) ListNotes(c *gin.Context) {
	var q model.ListNotesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = model.ListNotesQuery{}
	}

	ctx := c.Request.Context()
	userID := h.SessionUserID(c)
	tagID := parseOptionalUUID(q.Tag)

	notes, err := h.Store.ListNotes(ctx, userID, tagID, strings.TrimSpace(q.Q))
	if err != nil {
		h.Logger.Error("list_notes: query failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load notes"})
		return
	}

	tags, err := h.Store.ListTags(ctx, userID)
	if err != nil {
		h.Logger.Error("list_notes: tags query failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load notes"})
		return
	}

	cards, err := h.buildCards(c, notes)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load notes"})
		return
	}

	c.HTML(http.StatusOK, "notes.html", notesPageData{
		Notes:     cards,
		Tags:      tags,
		ActiveTag: q.Tag,
		Query:     q.Q,
	})
}

// ViewNote serves /notes/:id. The owner gets the full view; anyone
// else gets the read-only public variant of an existing note.
func (h *Handler) ViewNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "note not found"})
		return
	}

	ctx := c.Request.Context()
	note, err := h.Store.GetPublicNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "note not found"})
			return
		}
		h.Logger.Error("view_note: query failed", zap.String("note_id", noteID.String()), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load note"})
		return
	}

	tags, err := h.Store.ListNoteTags(ctx, noteID)
	if err != nil {
		h.Logger.Error("view_note: tags query failed", zap.String("note_id", noteID.String()), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load note"})
		return
	}

	data := notePageData{
		Note:    *note,
		Tags:    tags,
		IsOwner: note.UserID == h.SessionUserID(c) && note.UserID != uuid.Nil,
	}

	payload := content.Decode(note.Type, note.Content)
	switch payload.Kind {
	case content.KindInterview:
		data.Interview = true
		data.Answer = h.Markdown.Render(payload.Interview.Answer)
		for _, fu := range payload.Interview.FollowUps {
			data.FollowUps = append(data.FollowUps, followUpView{
				Question: fu.Question,
				Answer:   h.Markdown.Render(fu.Answer),
			})
		}
	default:
		for _, s := range payload.Sections {
			data.Sections = append(data.Sections, sectionView{
				Heading: s.Heading,
				Body:    h.Markdown.Render(s.Body),
			})
		}
	}

	c.HTML(http.StatusOK, "note.html", data)
}

// NewNotePage renders the create form.
func (h *Handler) NewNotePage(c *gin.Context) {
	tags, err := h.Store.ListTags(c.Request.Context(), h.SessionUserID(c))
	if err != nil {
		h.Logger.Error("new_note: tags query failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load form"})
		return
	}
	c.HTML(http.StatusOK, "note_form.html", noteFormData{
		Tags:     tags,
		Selected: map[uuid.UUID]bool{},
		Form:     model.NoteForm{Type: content.TypeNote},
	})
}

// CreateNote handles the create form post. A blank title is a field
// error with no insert; a missing session is a hard failure since the
// route is already gated.
func (h *Handler) CreateNote(c *gin.Context) {
	userID := h.SessionUserID(c)
	if userID == uuid.Nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "something went wrong"})
		return
	}

	var form model.NoteForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderNoteForm(c, noteFormData{Error: "invalid form submission", Form: form})
		return
	}

	title := strings.TrimSpace(form.Title)
	if title == "" {
		h.renderNoteForm(c, noteFormData{Error: "Title is required", Form: form})
		return
	}

	note, err := h.Store.CreateNote(c.Request.Context(), userID, title, form.Content,
		content.NormalizeType(form.Type), parseTagIDs(form.TagIDs))
	if err != nil {
		h.Logger.Error("create_note: insert failed", zap.String("user_id", userID.String()), zap.Error(err))
		h.renderNoteForm(c, noteFormData{Error: "could not create note", Form: form})
		return
	}

	h.Logger.Info("create_note: note created",
		zap.String("note_id", note.ID.String()),
		zap.String("user_id", userID.String()),
	)

	h.invalidateListings(c.Request.Context())
	c.Redirect(http.StatusFound, "/notes/"+note.ID.String())
}

// EditNotePage renders the edit form for an owned note.
func (h *Handler) EditNotePage(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "note not found"})
		return
	}

	ctx := c.Request.Context()
	userID := h.SessionUserID(c)
	note, err := h.Store.GetNote(ctx, noteID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "note not found"})
			return
		}
		h.Logger.Error("edit_note: query failed", zap.String("note_id", noteID.String()), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load note"})
		return
	}

	tags, err := h.Store.ListTags(ctx, userID)
	if err != nil {
		h.Logger.Error("edit_note: tags query failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load note"})
		return
	}

	noteTags, err := h.Store.ListNoteTags(ctx, noteID)
	if err != nil {
		h.Logger.Error("edit_note: note tags query failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not load note"})
		return
	}

	selected := map[uuid.UUID]bool{}
	for _, t := range noteTags {
		selected[t.ID] = true
	}

	c.HTML(http.StatusOK, "note_form.html", noteFormData{
		Editing:  true,
		Note:     *note,
		Form:     model.NoteForm{Title: note.Title, Content: note.Content, Type: note.Type},
		Tags:     tags,
		Selected: selected,
	})
}

// UpdateNote handles the edit form post: full replace of title,
// content, type, and the tag set.
func (h *Handler) UpdateNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "note not found"})
		return
	}

	userID := h.SessionUserID(c)
	if userID == uuid.Nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "something went wrong"})
		return
	}

	var form model.NoteForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderNoteForm(c, noteFormData{Error: "invalid form submission", Editing: true, Form: form})
		return
	}

	title := strings.TrimSpace(form.Title)
	if title == "" {
		h.renderNoteForm(c, noteFormData{Error: "Title is required", Editing: true, Form: form})
		return
	}

	err = h.Store.UpdateNote(c.Request.Context(), noteID, userID, title, form.Content,
		content.NormalizeType(form.Type), parseTagIDs(form.TagIDs))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "note not found"})
			return
		}
		h.Logger.Error("update_note: update failed", zap.String("note_id", noteID.String()), zap.Error(err))
		h.renderNoteForm(c, noteFormData{Error: "could not update note", Editing: true, Form: form})
		return
	}

	h.Logger.Info("update_note: note updated",
		zap.String("note_id", noteID.String()),
		zap.String("user_id", userID.String()),
	)

	h.invalidateListings(c.Request.Context())
	c.Redirect(http.StatusFound, "/notes/"+noteID.String())
}

// DeleteNote handles the delete form post. Deletion is scoped by id
// and owner, so deleting someone else's note silently affects nothing.
func (h *Handler) DeleteNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/notes")
		return
	}

	userID := h.SessionUserID(c)
	if err := h.Store.DeleteNote(c.Request.Context(), noteID, userID); err != nil {
		h.Logger.Error("delete_note: delete failed", zap.String("note_id", noteID.String()), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "could not delete note"})
		return
	}

	h.Logger.Info("delete_note: note deleted",
		zap.String("note_id", noteID.String()),
		zap.String("user_id", userID.String()),
	)

	h.invalidateListings(c.Request.Context())
	c.Redirect(http.StatusFound, "/notes")
}

// renderNoteForm re-renders the form with an error, reloading the tag
// list so the picker stays populated.
func (h *Handler) renderNoteForm(c *gin.Context, data noteFormData) {
	tags, err := h.Store.ListTags(c.Request.Context(), h.SessionUserID(c))
	if err == nil {
		data.Tags = tags
	}
	if data.Selected == nil {
		data.Selected = map[uuid.UUID]bool{}
		for _, id := range parseTagIDs(data.Form.TagIDs) {
			data.Selected[id] = true
		}
	}
	c.HTML(http.StatusOK, "note_form.html", data)
}

// buildCards joins notes with their tag sets for listing pages.
func (h *Handler) buildCards(c *gin.Context, notes []model.Note) ([]noteCard, error) {
	ids := make([]uuid.UUID, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}

	tagMap, err := h.Store.MapNoteTags(c.Request.Context(), ids)
	if err != nil {
		h.Logger.Error("note tag map query failed", zap.Error(err))
		return nil, err
	}

	cards := make([]noteCard, 0, len(notes))
	for _, n := range notes {
		cards = append(cards, noteCard{Note: n, Tags: tagMap[n.ID]})
	}
	return cards, nil
}

// parseTagIDs drops malformed ids instead of failing the mutation.
func parseTagIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
