package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
)

// ErrQuestionnaireNotAccessible is returned when cloning a questionnaire
// that is neither owned by the target organizer nor public.
var ErrQuestionnaireNotAccessible = errors.New("questionnaire is not public and belongs to another organizer")

type questionnaireService struct {
	repo repository.QuestionnaireRepository
}

func NewQuestionnaireService(repo repository.QuestionnaireRepository) QuestionnaireService {
	return &questionnaireService{repo: repo}
}

func (s *questionnaireService) CreateQuestionnaire(ctx context.Context, q *domain.Questionnaire) error {
	return s.repo.Create(ctx, q)
}

func (s *questionnaireService) GetQuestionnaire(ctx context.Context, id uuid.UUID) (*QuestionnaireDetail, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &QuestionnaireDetail{Questionnaire: *q}

	blocks, err := s.repo.ListBlocks(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	for _, block := range blocks {
		bd := BlockDetail{Block: block}
		questions, err := s.repo.ListQuestions(ctx, block.ID)
		if err != nil {
			return nil, err
		}
		for _, question := range questions {
			qd := QuestionDetail{Question: question}
			if question.Kind.HasOptions() {
				options, err := s.repo.ListOptions(ctx, question.ID)
				if err != nil {
					return nil, err
				}
				qd.Options = options
			}
			bd.Questions = append(bd.Questions, qd)
		}
		detail.Blocks = append(detail.Blocks, bd)
	}
	return detail, nil
}

func (s *questionnaireService) UpdateQuestionnaire(ctx context.Context, q *domain.Questionnaire) error {
	return s.repo.Update(ctx, q)
}

func (s *questionnaireService) DeleteQuestionnaire(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *questionnaireService) ListQuestionnaires(ctx context.Context, organizerID uuid.UUID) ([]domain.Questionnaire, error) {
	return s.repo.ListByOrganizer(ctx, organizerID)
}

func (s *questionnaireService) ListPublicQuestionnaires(ctx context.Context) ([]domain.Questionnaire, error) {
	return s.repo.ListPublic(ctx)
}

func (s *questionnaireService) AddBlock(ctx context.Context, b *domain.QuestionBlock) error {
	return s.repo.CreateBlock(ctx, b)
}

func (s *questionnaireService) AddQuestion(ctx context.Context, q *domain.Question, options []domain.QuestionOption) error {
	if !q.Kind.Valid() {
		return &domain.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown question kind %q", q.Kind)}
	}
	if len(options) > 0 && !q.Kind.HasOptions() {
		return &domain.ValidationError{Field: "options", Message: "only choice questions may define options"}
	}
	if err := s.repo.CreateQuestion(ctx, q); err != nil {
		return err
	}
	for i := range options {
		options[i].QuestionID = q.ID
		if err := s.repo.CreateOption(ctx, &options[i]); err != nil {
			return err
		}
	}
	return nil
}

// CloneQuestionnaire deep-copies the source questionnaire with fresh IDs
// into the target organizer. The copy starts private.
func (s *questionnaireService) CloneQuestionnaire(ctx context.Context, sourceID, targetOrganizerID uuid.UUID) (*domain.Questionnaire, error) {
	source, err := s.repo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if source.OrganizerID != targetOrganizerID && !source.IsPublic {
		return nil, ErrQuestionnaireNotAccessible
	}

	clone := &domain.Questionnaire{
		OrganizerID: targetOrganizerID,
		Name:        source.Name,
		IsPublic:    false,
	}
	if err := s.repo.Create(ctx, clone); err != nil {
		return nil, err
	}

	blocks, err := s.repo.ListBlocks(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	for _, block := range blocks {
		blockClone := domain.QuestionBlock{
			QuestionnaireID: clone.ID,
			Name:            block.Name,
			Order:           block.Order,
		}
		if err := s.repo.CreateBlock(ctx, &blockClone); err != nil {
			return nil, err
		}

		questions, err := s.repo.ListQuestions(ctx, block.ID)
		if err != nil {
			return nil, err
		}
		for _, question := range questions {
			questionClone := domain.Question{
				BlockID:  blockClone.ID,
				Kind:     question.Kind,
				Required: question.Required,
				Name:     question.Name,
				Help:     question.Help,
				Order:    question.Order,
			}
			if err := s.repo.CreateQuestion(ctx, &questionClone); err != nil {
				return nil, err
			}

			if !question.Kind.HasOptions() {
				continue
			}
			options, err := s.repo.ListOptions(ctx, question.ID)
			if err != nil {
				return nil, err
			}
			for _, option := range options {
				optionClone := domain.QuestionOption{
					QuestionID: questionClone.ID,
					Value:      option.Value,
					Order:      option.Order,
				}
				if err := s.repo.CreateOption(ctx, &optionClone); err != nil {
					return nil, err
				}
			}
		}
	}
	return clone, nil
}
