package services

import (
	"context"
	"database/sql"
	gerrors "errors"

	"github.com/gwarchivist/gwarchivist/internal/errors"
	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository"
)

// PseudoService handles player pseudonym business logic.
type PseudoService interface {
	// CreatePseudo inserts a pseudo, or reports the existing one. The bool
	// result is true for new inserts.
	CreatePseudo(ctx context.Context, pseudo string, userID *int64) (int64, bool, error)
	GetPseudo(ctx context.Context, pseudo string) (*models.Pseudo, error)
}

type pseudoService struct {
	repo repository.PseudoRepository
}

// NewPseudoService creates a new PseudoService.
func NewPseudoService(repo repository.PseudoRepository) PseudoService {
	return &pseudoService{repo: repo}
}

func (s *pseudoService) CreatePseudo(ctx context.Context, pseudo string, userID *int64) (int64, bool, error) {
	log := logger.FromContext(ctx)

	if pseudo == "" {
		return 0, false, errors.NewValidationError("pseudo", "pseudo is required")
	}

	existing, err := s.repo.Get(ctx, pseudo)
	if err != nil && !gerrors.Is(err, sql.ErrNoRows) {
		return 0, false, errors.NewInternalError(err)
	}
	if existing != nil {
		log.Debug("pseudo already exists: id=%d", existing.ID)
		return existing.ID, false, nil
	}

	id, err := s.repo.Insert(ctx, pseudo, userID)
	if err != nil {
		return 0, false, errors.NewInternalError(err)
	}
	return id, true, nil
}

func (s *pseudoService) GetPseudo(ctx context.Context, pseudo string) (*models.Pseudo, error) {
	p, err := s.repo.Get(ctx, pseudo)
	if err != nil {
		if gerrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("pseudo", pseudo)
		}
		return nil, errors.NewInternalError(err)
	}
	return p, nil
}
