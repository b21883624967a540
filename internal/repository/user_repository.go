package repository

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/convitapp/convite-api/internal/models"
)

type UserRepository interface {
	CreateUser(email, password, fullName string, role models.UserRole) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	GetUserByID(userID string) (models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (u *userRepository) CreateUser(email, password, fullName string, role models.UserRole) (models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !models.IsValidRole(role) {
		return models.User{}, errors.New("invalid role")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)
	if email == "" {
		return models.User{}, errors.New("email is required")
	}
	if len(password) < 8 {
		return models.User{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	const query = `
		INSERT INTO convites.users (email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`
	err = u.db.QueryRow(query, user.Email, user.FullName, user.PasswordHash, string(user.Role), user.IsActive).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return models.User{}, errors.New("email already registered")
		}
		return models.User{}, err
	}
	return user, nil
}

func (u *userRepository) AuthenticateUser(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	const query = `
		SELECT id, email, full_name, password_hash, role, is_active, created_at, last_login
		FROM convites.users
		WHERE email = $1;
	`

	user, err := scanUser(u.db.QueryRow(query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, errors.New("invalid credentials")
	}
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive {
		return models.User{}, errors.New("account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, errors.New("invalid credentials")
	}

	const touch = `
		UPDATE convites.users SET last_login = now() WHERE id = $1
		RETURNING last_login;
	`
	if err := u.db.QueryRow(touch, user.ID).Scan(&user.LastLogin); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (u *userRepository) GetUserByID(userID string) (models.User, error) {
	const query = `
		SELECT id, email, full_name, password_hash, role, is_active, created_at, last_login
		FROM convites.users
		WHERE id = $1;
	`

	user, err := scanUser(u.db.QueryRow(query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user      models.User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&role,
		&user.IsActive,
		&user.CreatedAt,
		&lastLogin,
	)
	if err != nil {
		return models.User{}, err
	}
	user.Role = models.UserRole(role)
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return user, nil
}
