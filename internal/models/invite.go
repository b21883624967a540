package models

import "time"

// GeneratedInvite is one finished personalization of a template. Records are
// immutable: every generation request produces a new one, never an update.
type GeneratedInvite struct {
	ID             string            `json:"id"`
	TemplateID     string            `json:"template_id"`
	TemplateName   string            `json:"template_name"`
	Customizations map[string]string `json:"customizations"`
	ImageURL       string            `json:"image_url"`
	CreatedAt      time.Time         `json:"created_at"`
}
