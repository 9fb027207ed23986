package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
)

type organizerRepository struct {
	db *sql.DB
}

func NewOrganizerRepository(db *sql.DB) repository.OrganizerRepository {
	return &organizerRepository{db: db}
}

func (r *organizerRepository) Create(ctx context.Context, org *domain.Organizer) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	query := `INSERT INTO organizers (id, slug, name) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, org.ID, org.Slug, i18n(&org.Name))
	return err
}

func (r *organizerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organizer, error) {
	org := &domain.Organizer{}
	query := `SELECT id, slug, name FROM organizers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Slug, i18n(&org.Name))
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizerRepository) GetBySlug(ctx context.Context, slug string) (*domain.Organizer, error) {
	org := &domain.Organizer{}
	query := `SELECT id, slug, name FROM organizers WHERE lower(slug) = lower($1)`
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&org.ID, &org.Slug, i18n(&org.Name))
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizerRepository) Update(ctx context.Context, org *domain.Organizer) error {
	query := `UPDATE organizers SET slug = $1, name = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, org.Slug, i18n(&org.Name), org.ID)
	return err
}

func (r *organizerRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Organizer, error) {
	query := `SELECT o.id, o.slug, o.name FROM organizers o
	          JOIN organizer_members m ON m.organizer_id = o.id
	          WHERE m.user_id = $1 ORDER BY o.slug`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.Organizer
	for rows.Next() {
		var org domain.Organizer
		if err := rows.Scan(&org.ID, &org.Slug, i18n(&org.Name)); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *organizerRepository) AddMember(ctx context.Context, organizerID, userID uuid.UUID) error {
	query := `INSERT INTO organizer_members (organizer_id, user_id) VALUES ($1, $2)
	          ON CONFLICT DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, organizerID, userID)
	return err
}

func (r *organizerRepository) RemoveMember(ctx context.Context, organizerID, userID uuid.UUID) error {
	query := `DELETE FROM organizer_members WHERE organizer_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, organizerID, userID)
	return err
}

func (r *organizerRepository) ListMembers(ctx context.Context, organizerID uuid.UUID) ([]domain.User, error) {
	query := `SELECT u.id, u.email, u.name, u.password_hash, u.locale, u.created_at FROM users u
	          JOIN organizer_members m ON m.user_id = u.id
	          WHERE m.organizer_id = $1 ORDER BY u.email`
	rows, err := r.db.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Locale, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *organizerRepository) IsMember(ctx context.Context, organizerID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM organizer_members WHERE organizer_id = $1 AND user_id = $2)`
	err := r.db.QueryRowContext(ctx, query, organizerID, userID).Scan(&exists)
	return exists, err
}
