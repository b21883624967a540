package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/convitapp/convite-api/internal/models"
	"github.com/convitapp/convite-api/internal/render"
	"github.com/convitapp/convite-api/internal/repository"
	"github.com/convitapp/convite-api/internal/storage"
)

type GenerateHandler struct {
	templateRepo repository.TemplateRepository
	inviteRepo   repository.GeneratedInviteRepository
	renderer     *render.Renderer
	store        storage.Store
	logger       zerolog.Logger
}

func NewGenerateHandler(
	templateRepo repository.TemplateRepository,
	inviteRepo repository.GeneratedInviteRepository,
	renderer *render.Renderer,
	store storage.Store,
	logger zerolog.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		templateRepo: templateRepo,
		inviteRepo:   inviteRepo,
		renderer:     renderer,
		store:        store,
		logger:       logger,
	}
}

// Generate renders one personalized invite from the template and the
// customization map in the request body, stores the PNG and persists the
// generated-invite record.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateID"]
	template, err := h.templateRepo.GetByID(templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Template não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load template: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var customizations map[string]string
	if err := json.NewDecoder(r.Body).Decode(&customizations); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if customizations == nil {
		customizations = map[string]string{}
	}

	invite, err := h.generateOne(template, customizations)
	if err != nil {
		if errors.Is(err, render.ErrRender) {
			http.Error(w, "Failed to render invite: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "Failed to generate invite: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":          invite.ID,
		"template_id": invite.TemplateID,
		"image_url":   invite.ImageURL,
		"message":     "Convite personalizado gerado com sucesso",
	})
}

// BulkGenerate renders one invite per customization map in the request body.
// Entries fail independently: a bad image reference in one map aborts only
// that entry, never the batch.
func (h *GenerateHandler) BulkGenerate(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateID"]
	template, err := h.templateRepo.GetByID(templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Template não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load template: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var batch []map[string]string
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	type bulkResult struct {
		ID             string            `json:"id,omitempty"`
		ImageURL       string            `json:"image_url,omitempty"`
		Customizations map[string]string `json:"customizations"`
		Error          string            `json:"error,omitempty"`
	}

	results := make([]bulkResult, 0, len(batch))
	generated := 0
	for _, customizations := range batch {
		if customizations == nil {
			customizations = map[string]string{}
		}
		invite, err := h.generateOne(template, customizations)
		if err != nil {
			results = append(results, bulkResult{Customizations: customizations, Error: err.Error()})
			continue
		}
		generated++
		results = append(results, bulkResult{
			ID:             invite.ID,
			ImageURL:       invite.ImageURL,
			Customizations: invite.Customizations,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": fmt.Sprintf("%d convites gerados com sucesso", generated),
		"invites": results,
	})
}

func (h *GenerateHandler) GetGeneratedInvite(w http.ResponseWriter, r *http.Request) {
	invite, err := h.inviteRepo.GetByID(mux.Vars(r)["inviteID"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Convite gerado não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load invite: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invite)
}

func (h *GenerateHandler) ListGeneratedInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.inviteRepo.ListByTemplate(mux.Vars(r)["templateID"])
	if err != nil {
		http.Error(w, "Failed to list invites: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if invites == nil {
		invites = []models.GeneratedInvite{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invites)
}

// Stats reports usage totals.
func (h *GenerateHandler) Stats(w http.ResponseWriter, r *http.Request) {
	totalTemplates, err := h.templateRepo.Count()
	if err != nil {
		http.Error(w, "Failed to load stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	totalGenerated, err := h.inviteRepo.Count()
	if err != nil {
		http.Error(w, "Failed to load stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	recentGenerated, err := h.inviteRepo.CountSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		http.Error(w, "Failed to load stats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_templates":          totalTemplates,
		"total_generated_invites":  totalGenerated,
		"recent_generated_invites": recentGenerated,
		"timestamp":                time.Now().UTC(),
	})
}

// generateOne runs the full render-store-persist pipeline for one
// customization map. Nothing is persisted when rendering fails.
func (h *GenerateHandler) generateOne(template models.Template, customizations map[string]string) (models.GeneratedInvite, error) {
	data, err := h.renderer.RenderPNG(template, customizations)
	if err != nil {
		return models.GeneratedInvite{}, err
	}

	imageURL, err := h.store.Put(data, "image/png")
	if err != nil {
		return models.GeneratedInvite{}, errors.Wrap(err, "store rendered image")
	}

	invite, err := h.inviteRepo.Create(models.GeneratedInvite{
		TemplateID:     template.ID,
		TemplateName:   template.Name,
		Customizations: customizations,
		ImageURL:       imageURL,
	})
	if err != nil {
		return models.GeneratedInvite{}, errors.Wrap(err, "persist generated invite")
	}
	return invite, nil
}
