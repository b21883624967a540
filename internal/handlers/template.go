package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/convitapp/convite-api/internal/authz"
	"github.com/convitapp/convite-api/internal/fields"
	"github.com/convitapp/convite-api/internal/models"
	"github.com/convitapp/convite-api/internal/repository"
)

type TemplateHandler struct {
	templateRepo repository.TemplateRepository
	deriver      *fields.Deriver
	defaultDims  models.Dimensions
	logger       zerolog.Logger
}

type templateRequest struct {
	Name       string             `json:"name"`
	Background string             `json:"background"`
	Elements   []models.Element   `json:"elements"`
	Dimensions *models.Dimensions `json:"dimensions"`
}

func NewTemplateHandler(templateRepo repository.TemplateRepository, deriver *fields.Deriver, defaultDims models.Dimensions, logger zerolog.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateRepo: templateRepo,
		deriver:      deriver,
		defaultDims:  defaultDims,
		logger:       logger,
	}
}

func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var payload templateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	template := models.Template{
		OwnerID:    uid,
		Name:       strings.TrimSpace(payload.Name),
		Background: payload.Background,
		Elements:   payload.Elements,
		Dimensions: h.defaultDims,
	}
	if payload.Dimensions != nil {
		template.Dimensions = *payload.Dimensions
	}
	if template.Elements == nil {
		template.Elements = []models.Element{}
	}
	if err := template.Validate(); err != nil {
		http.Error(w, "Invalid template: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.templateRepo.Create(template)
	if err != nil {
		http.Error(w, "Failed to create template: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"id":           created.ID,
		"message":      "Template criado com sucesso",
		"api_endpoint": "/api/generate/" + created.ID,
	})
}

func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var (
		templates []models.Template
		err       error
	)
	if role, _ := authz.RoleFromRequest(r); role == models.RoleAdmin {
		templates, err = h.templateRepo.ListAll()
	} else {
		templates, err = h.templateRepo.ListByOwner(uid)
	}
	if err != nil {
		http.Error(w, "Failed to list templates: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(templates)
}

func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	template, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(template)
}

func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}
	if !authz.CanMutate(r, existing.OwnerID) {
		http.Error(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	var payload templateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(payload.Name)
	updated.Background = payload.Background
	updated.Elements = payload.Elements
	if updated.Elements == nil {
		updated.Elements = []models.Element{}
	}
	// Dimensions are fixed at creation; payload values are ignored.
	if err := updated.Validate(); err != nil {
		http.Error(w, "Invalid template: "+err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.templateRepo.Update(updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Template não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update template: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Template atualizado com sucesso"})
}

func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}
	if !authz.CanMutate(r, existing.OwnerID) {
		http.Error(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.templateRepo.Delete(existing.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Template não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete template: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Template excluído com sucesso"})
}

// GetTemplateFields exposes the derived customizable fields of a template
// together with an example generation payload.
func (h *TemplateHandler) GetTemplateFields(w http.ResponseWriter, r *http.Request) {
	template, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}

	names := h.deriver.Derive(template)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"template_id": template.ID,
		"fields":      names,
		"example":     h.deriver.ExamplePayload(names),
	})
}

func (h *TemplateHandler) loadTemplate(w http.ResponseWriter, r *http.Request) (models.Template, bool) {
	id := mux.Vars(r)["templateID"]
	if id == "" {
		http.Error(w, "template id is required", http.StatusBadRequest)
		return models.Template{}, false
	}
	template, err := h.templateRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Template não encontrado", http.StatusNotFound)
			return models.Template{}, false
		}
		http.Error(w, "Failed to load template: "+err.Error(), http.StatusInternalServerError)
		return models.Template{}, false
	}
	return template, true
}
