package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abhishek622/devvault/internal/repository"
	"github.com/abhishek622/devvault/pkg/model"
	"github.com/google/uuid"
)

// memStore is an in-memory Store with the same observable semantics as
// the repository: owner scoping, silent no-op deletes, tag name
// dedupe, and the public listing cap.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]model.User
	notes    map[uuid.UUID]model.Note
	tags     map[uuid.UUID]model.Tag
	noteTags map[uuid.UUID]map[uuid.UUID]bool
	clock    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]model.User{},
		notes:    map[uuid.UUID]model.Note{},
		tags:     map[uuid.UUID]model.Tag{},
		noteTags: map[uuid.UUID]map[uuid.UUID]bool{},
		clock:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so updated_at ordering is deterministic.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return uuid.Nil, repository.ErrEmailTaken
		}
	}
	id := uuid.New()
	now := s.tick()
	s.users[id] = model.User{UserID: id, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memStore) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *memStore) ListNotes(_ context.Context, userID, tagID uuid.UUID, search string) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == uuid.Nil {
		return []model.Note{}, nil
	}

	out := []model.Note{}
	for _, n := range s.notes {
		if n.UserID != userID {
			continue
		}
		if tagID != uuid.Nil && !s.noteTags[n.ID][tagID] {
			continue
		}
		if tagID == uuid.Nil && search != "" {
			q := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(n.Title), q) &&
				!strings.Contains(strings.ToLower(n.Content), q) {
				continue
			}
		}
		out = append(out, n)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *memStore) ListPublicNotes(_ context.Context, noteType string, tagID uuid.UUID) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Note{}
	for _, n := range s.notes {
		if n.Type != noteType {
			continue
		}
		if tagID != uuid.Nil && !s.noteTags[n.ID][tagID] {
			continue
		}
		out = append(out, n)
	}
	sortNewestFirst(out)
	if len(out) > 10 {
		out = out[:10]
	}
	return out, nil
}

func (s *memStore) GetNote(_ context.Context, noteID, userID uuid.UUID) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[noteID]
	if !ok || userID == uuid.Nil || n.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (s *memStore) GetPublicNote(_ context.Context, noteID uuid.UUID) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[noteID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (s *memStore) CreateNote(_ context.Context, userID uuid.UUID, title, content, noteType string, tagIDs []uuid.UUID) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	n := model.Note{
		ID: uuid.New(), Title: title, Content: content, Type: noteType,
		UserID: userID, CreatedAt: now, UpdatedAt: now,
	}
	s.notes[n.ID] = n
	s.setNoteTags(n.ID, tagIDs)
	return &n, nil
}

func (s *memStore) UpdateNote(_ context.Context, noteID, userID uuid.UUID, title, content, noteType string, tagIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[noteID]
	if !ok || userID == uuid.Nil || n.UserID != userID {
		return repository.ErrNotFound
	}
	n.Title, n.Content, n.Type = title, content, noteType
	n.UpdatedAt = s.tick()
	s.notes[noteID] = n
	s.setNoteTags(noteID, tagIDs)
	return nil
}

func (s *memStore) DeleteNote(_ context.Context, noteID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[noteID]
	if !ok || n.UserID != userID {
		return nil // scoped delete affects zero rows
	}
	delete(s.notes, noteID)
	delete(s.noteTags, noteID)
	return nil
}

func (s *memStore) ListTags(_ context.Context, userID uuid.UUID) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == uuid.Nil {
		return []model.Tag{}, nil
	}
	out := []model.Tag{}
	for _, t := range s.tags {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) ListPublicTags(_ context.Context) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attached := map[uuid.UUID]bool{}
	for _, set := range s.noteTags {
		for id := range set {
			attached[id] = true
		}
	}
	out := []model.Tag{}
	for id, t := range s.tags {
		if attached[id] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) ListNoteTags(_ context.Context, noteID uuid.UUID) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Tag{}
	for id := range s.noteTags[noteID] {
		out = append(out, s.tags[id])
	}
	return out, nil
}

func (s *memStore) MapNoteTags(_ context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[uuid.UUID][]model.Tag{}
	for _, noteID := range noteIDs {
		for id := range s.noteTags[noteID] {
			out[noteID] = append(out[noteID], s.tags[id])
		}
	}
	return out, nil
}

func (s *memStore) CreateTag(_ context.Context, userID uuid.UUID, name string) (*model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range s.tags {
		if t.UserID == userID && t.Name == name {
			return &t, nil
		}
	}
	t := model.Tag{ID: uuid.New(), Name: name, UserID: userID, CreatedAt: s.tick()}
	s.tags[t.ID] = t
	return &t, nil
}

func (s *memStore) DeleteTag(_ context.Context, tagID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[tagID]
	if !ok || t.UserID != userID {
		return nil
	}
	delete(s.tags, tagID)
	for _, set := range s.noteTags {
		delete(set, tagID)
	}
	return nil
}

// setNoteTags replaces the full association set; callers hold the lock.
func (s *memStore) setNoteTags(noteID uuid.UUID, tagIDs []uuid.UUID) {
	set := map[uuid.UUID]bool{}
	for _, id := range tagIDs {
		set[id] = true
	}
	s.noteTags[noteID] = set
}

// tagSet returns the association set of a note for assertions.
func (s *memStore) tagSet(noteID uuid.UUID) map[uuid.UUID]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[uuid.UUID]bool{}
	for id := range s.noteTags[noteID] {
		out[id] = true
	}
	return out
}

func sortNewestFirst(notes []model.Note) {
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}
