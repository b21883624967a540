package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/convitapp/convite-api/internal/models"
)

type TemplateRepository interface {
	Create(t models.Template) (models.Template, error)
	GetByID(id string) (models.Template, error)
	ListByOwner(ownerID string) ([]models.Template, error)
	ListAll() ([]models.Template, error)
	Update(t models.Template) (models.Template, error)
	Delete(id string) error
	Count() (int, error)
}

type templateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(t models.Template) (models.Template, error) {
	const query = `
		INSERT INTO convites.templates (owner_id, name, background, elements, width, height)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at;
	`

	elements, err := json.Marshal(t.Elements)
	if err != nil {
		return models.Template{}, errors.Wrap(err, "marshal elements")
	}

	err = r.db.QueryRow(query,
		t.OwnerID,
		t.Name,
		t.Background,
		elements,
		t.Dimensions.Width,
		t.Dimensions.Height,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Template{}, err
	}
	return t, nil
}

func (r *templateRepository) GetByID(id string) (models.Template, error) {
	const query = `
		SELECT id, owner_id, name, background, elements, width, height, created_at, updated_at
		FROM convites.templates
		WHERE id = $1;
	`

	t, err := scanTemplate(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Template{}, ErrNotFound
	}
	return t, err
}

func (r *templateRepository) ListByOwner(ownerID string) ([]models.Template, error) {
	const query = `
		SELECT id, owner_id, name, background, elements, width, height, created_at, updated_at
		FROM convites.templates
		WHERE owner_id = $1
		ORDER BY created_at DESC;
	`
	return r.list(query, ownerID)
}

func (r *templateRepository) ListAll() ([]models.Template, error) {
	const query = `
		SELECT id, owner_id, name, background, elements, width, height, created_at, updated_at
		FROM convites.templates
		ORDER BY created_at DESC;
	`
	return r.list(query)
}

func (r *templateRepository) Update(t models.Template) (models.Template, error) {
	const query = `
		UPDATE convites.templates
		SET name = $2, background = $3, elements = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at;
	`

	elements, err := json.Marshal(t.Elements)
	if err != nil {
		return models.Template{}, errors.Wrap(err, "marshal elements")
	}

	err = r.db.QueryRow(query, t.ID, t.Name, t.Background, elements).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Template{}, ErrNotFound
	}
	if err != nil {
		return models.Template{}, err
	}
	return t, nil
}

func (r *templateRepository) Delete(id string) error {
	const query = `DELETE FROM convites.templates WHERE id = $1;`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *templateRepository) Count() (int, error) {
	const query = `SELECT count(*) FROM convites.templates;`

	var count int
	err := r.db.QueryRow(query).Scan(&count)
	return count, err
}

func (r *templateRepository) list(query string, args ...interface{}) ([]models.Template, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (models.Template, error) {
	var (
		t        models.Template
		elements []byte
	)
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Name,
		&t.Background,
		&elements,
		&t.Dimensions.Width,
		&t.Dimensions.Height,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return models.Template{}, err
	}
	if err := json.Unmarshal(elements, &t.Elements); err != nil {
		return models.Template{}, errors.Wrap(err, "unmarshal elements")
	}
	return t, nil
}
