package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
)

var ErrLastMember = errors.New("an organizer must keep at least one member")

type organizerService struct {
	orgRepo  repository.OrganizerRepository
	userRepo repository.UserRepository
}

func NewOrganizerService(orgRepo repository.OrganizerRepository, userRepo repository.UserRepository) OrganizerService {
	return &organizerService{orgRepo: orgRepo, userRepo: userRepo}
}

func (s *organizerService) CreateOrganizer(ctx context.Context, userID uuid.UUID, org *domain.Organizer) error {
	if org.Slug == "" {
		return &domain.ValidationError{Field: "slug", Message: "slug is required"}
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return fmt.Errorf("failed to create organizer: %w", err)
	}
	// The creator becomes the first member; organizers without members
	// would be unreachable.
	if err := s.orgRepo.AddMember(ctx, org.ID, userID); err != nil {
		return fmt.Errorf("failed to add creator as member: %w", err)
	}
	return nil
}

func (s *organizerService) GetOrganizer(ctx context.Context, id uuid.UUID) (*domain.Organizer, error) {
	return s.orgRepo.GetByID(ctx, id)
}

func (s *organizerService) GetOrganizerBySlug(ctx context.Context, slug string) (*domain.Organizer, error) {
	return s.orgRepo.GetBySlug(ctx, slug)
}

func (s *organizerService) UpdateOrganizer(ctx context.Context, org *domain.Organizer) error {
	return s.orgRepo.Update(ctx, org)
}

func (s *organizerService) ListMyOrganizers(ctx context.Context, userID uuid.UUID) ([]domain.Organizer, error) {
	return s.orgRepo.ListForUser(ctx, userID)
}

func (s *organizerService) ListMembers(ctx context.Context, organizerID uuid.UUID) ([]domain.User, error) {
	return s.orgRepo.ListMembers(ctx, organizerID)
}

func (s *organizerService) AddMember(ctx context.Context, organizerID uuid.UUID, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("no user with email %s: %w", email, err)
	}
	return s.orgRepo.AddMember(ctx, organizerID, user.ID)
}

func (s *organizerService) RemoveMember(ctx context.Context, organizerID, userID uuid.UUID) error {
	members, err := s.orgRepo.ListMembers(ctx, organizerID)
	if err != nil {
		return err
	}
	if len(members) <= 1 {
		return ErrLastMember
	}
	return s.orgRepo.RemoveMember(ctx, organizerID, userID)
}

func (s *organizerService) IsMember(ctx context.Context, organizerID, userID uuid.UUID) (bool, error) {
	return s.orgRepo.IsMember(ctx, organizerID, userID)
}
