package handlers

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/convitapp/convite-api/internal/models"
	"github.com/convitapp/convite-api/internal/repository"
)

// fakeTemplateRepo is an in-memory repository.TemplateRepository.
type fakeTemplateRepo struct {
	templates map[string]models.Template
	nextID    int
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]models.Template)}
}

func (r *fakeTemplateRepo) Create(t models.Template) (models.Template, error) {
	r.nextID++
	t.ID = fmt.Sprintf("tpl-%d", r.nextID)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.templates[t.ID] = t
	return t, nil
}

func (r *fakeTemplateRepo) GetByID(id string) (models.Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return models.Template{}, repository.ErrNotFound
	}
	return t, nil
}

func (r *fakeTemplateRepo) ListByOwner(ownerID string) ([]models.Template, error) {
	var out []models.Template
	for _, t := range r.templates {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sortTemplates(out)
	return out, nil
}

func (r *fakeTemplateRepo) ListAll() ([]models.Template, error) {
	out := make([]models.Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sortTemplates(out)
	return out, nil
}

func (r *fakeTemplateRepo) Update(t models.Template) (models.Template, error) {
	if _, ok := r.templates[t.ID]; !ok {
		return models.Template{}, repository.ErrNotFound
	}
	t.UpdatedAt = time.Now()
	r.templates[t.ID] = t
	return t, nil
}

func (r *fakeTemplateRepo) Delete(id string) error {
	if _, ok := r.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

func (r *fakeTemplateRepo) Count() (int, error) { return len(r.templates), nil }

func sortTemplates(templates []models.Template) {
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
}

// fakeInviteRepo is an in-memory repository.GeneratedInviteRepository.
type fakeInviteRepo struct {
	invites map[string]models.GeneratedInvite
	nextID  int
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[string]models.GeneratedInvite)}
}

func (r *fakeInviteRepo) Create(invite models.GeneratedInvite) (models.GeneratedInvite, error) {
	r.nextID++
	invite.ID = fmt.Sprintf("inv-%d", r.nextID)
	invite.CreatedAt = time.Now()
	r.invites[invite.ID] = invite
	return invite, nil
}

func (r *fakeInviteRepo) GetByID(id string) (models.GeneratedInvite, error) {
	invite, ok := r.invites[id]
	if !ok {
		return models.GeneratedInvite{}, repository.ErrNotFound
	}
	return invite, nil
}

func (r *fakeInviteRepo) ListByTemplate(templateID string) ([]models.GeneratedInvite, error) {
	var out []models.GeneratedInvite
	for _, invite := range r.invites {
		if invite.TemplateID == templateID {
			out = append(out, invite)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeInviteRepo) Count() (int, error) { return len(r.invites), nil }

func (r *fakeInviteRepo) CountSince(since time.Time) (int, error) {
	count := 0
	for _, invite := range r.invites {
		if !invite.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// memStore is an in-memory storage.Store.
type memStore struct {
	objects map[string][]byte
	nextID  int
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Put(data []byte, contentType string) (string, error) {
	s.nextID++
	url := fmt.Sprintf("/media/obj-%d", s.nextID)
	s.objects[url] = data
	return url, nil
}

func (s *memStore) Open(ref string) (io.ReadCloser, error) {
	data, ok := s.objects[ref]
	if !ok {
		return nil, fmt.Errorf("object %q not found", ref)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
