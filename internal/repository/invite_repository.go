package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/convitapp/convite-api/internal/models"
)

type GeneratedInviteRepository interface {
	Create(invite models.GeneratedInvite) (models.GeneratedInvite, error)
	GetByID(id string) (models.GeneratedInvite, error)
	ListByTemplate(templateID string) ([]models.GeneratedInvite, error)
	Count() (int, error)
	CountSince(since time.Time) (int, error)
}

type generatedInviteRepository struct {
	db *sql.DB
}

func NewGeneratedInviteRepository(db *sql.DB) GeneratedInviteRepository {
	return &generatedInviteRepository{db: db}
}

func (r *generatedInviteRepository) Create(invite models.GeneratedInvite) (models.GeneratedInvite, error) {
	const query = `
		INSERT INTO convites.generated_invites (template_id, template_name, customizations, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`

	customizations, err := json.Marshal(invite.Customizations)
	if err != nil {
		return models.GeneratedInvite{}, errors.Wrap(err, "marshal customizations")
	}

	err = r.db.QueryRow(query,
		invite.TemplateID,
		invite.TemplateName,
		customizations,
		invite.ImageURL,
	).Scan(&invite.ID, &invite.CreatedAt)
	if err != nil {
		return models.GeneratedInvite{}, err
	}
	return invite, nil
}

func (r *generatedInviteRepository) GetByID(id string) (models.GeneratedInvite, error) {
	const query = `
		SELECT id, template_id, template_name, customizations, image_url, created_at
		FROM convites.generated_invites
		WHERE id = $1;
	`

	invite, err := scanGeneratedInvite(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.GeneratedInvite{}, ErrNotFound
	}
	return invite, err
}

func (r *generatedInviteRepository) ListByTemplate(templateID string) ([]models.GeneratedInvite, error) {
	const query = `
		SELECT id, template_id, template_name, customizations, image_url, created_at
		FROM convites.generated_invites
		WHERE template_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := r.db.Query(query, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []models.GeneratedInvite
	for rows.Next() {
		invite, err := scanGeneratedInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, rows.Err()
}

func (r *generatedInviteRepository) Count() (int, error) {
	const query = `SELECT count(*) FROM convites.generated_invites;`

	var count int
	err := r.db.QueryRow(query).Scan(&count)
	return count, err
}

func (r *generatedInviteRepository) CountSince(since time.Time) (int, error) {
	const query = `SELECT count(*) FROM convites.generated_invites WHERE created_at >= $1;`

	var count int
	err := r.db.QueryRow(query, since).Scan(&count)
	return count, err
}

func scanGeneratedInvite(row rowScanner) (models.GeneratedInvite, error) {
	var (
		invite         models.GeneratedInvite
		customizations []byte
	)
	err := row.Scan(
		&invite.ID,
		&invite.TemplateID,
		&invite.TemplateName,
		&customizations,
		&invite.ImageURL,
		&invite.CreatedAt,
	)
	if err != nil {
		return models.GeneratedInvite{}, err
	}
	if err := json.Unmarshal(customizations, &invite.Customizations); err != nil {
		return models.GeneratedInvite{}, errors.Wrap(err, "unmarshal customizations")
	}
	return invite, nil
}
