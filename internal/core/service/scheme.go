package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/gitedu/docuvault/internal/core/domain"
	"github.com/gitedu/docuvault/internal/core/ports"
)

// SchemeService manages the scheme/subject taxonomy.
type SchemeService struct {
	repo   ports.SchemeRepository
	logger zerolog.Logger
}

func NewSchemeService(repo ports.SchemeRepository, logger zerolog.Logger) *SchemeService {
	return &SchemeService{repo: repo, logger: logger}
}

func (s *SchemeService) Create(ctx context.Context, scheme string, subjects []string) (*domain.Scheme, error) {
	if scheme == "" || len(subjects) == 0 {
		return nil, domain.ErrMissingParameters
	}

	entry := &domain.Scheme{Scheme: scheme, Subjects: subjects}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().Str("scheme", scheme).Int("subjects", len(subjects)).Msg("scheme created")
	return entry, nil
}

func (s *SchemeService) List(ctx context.Context) ([]*domain.Scheme, error) {
	return s.repo.List(ctx)
}

func (s *SchemeService) Delete(ctx context.Context, scheme string) error {
	if scheme == "" {
		return domain.ErrMissingParameters
	}
	if err := s.repo.DeleteByName(ctx, scheme); err != nil {
		return err
	}
	s.logger.Info().Str("scheme", scheme).Msg("scheme deleted")
	return nil
}

// Check reports whether the (scheme, subject) pair is registered. An unknown
// scheme is not an error here; uploads translate false into ErrInvalidScheme.
func (s *SchemeService) Check(ctx context.Context, scheme, subject string) (bool, error) {
	entry, err := s.repo.FindByName(ctx, scheme)
	if err != nil {
		if errors.Is(err, domain.ErrSchemeNotFound) {
			return false, nil
		}
		return false, err
	}
	return entry.HasSubject(subject), nil
}
