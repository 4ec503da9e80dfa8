package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository"
)

type pseudoRepository struct {
	db *sql.DB
}

// NewPseudoRepository creates a new PseudoRepository implementation.
func NewPseudoRepository(db *sql.DB) repository.PseudoRepository {
	return &pseudoRepository{db: db}
}

func (r *pseudoRepository) Get(ctx context.Context, pseudo string) (*models.Pseudo, error) {
	log := logger.FromContext(ctx).WithPrefix("pseudo_repo")
	log.Debug("getting pseudo: %q", pseudo)

	var p models.Pseudo
	err := r.db.QueryRowContext(ctx,
		`SELECT id, pseudo, user_id, created_at FROM pseudos WHERE pseudo = ?`, pseudo,
	).Scan(&p.ID, &p.Pseudo, &p.UserID, &p.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to get pseudo: %v", err)
		}
		return nil, err
	}
	return &p, nil
}

func (r *pseudoRepository) Insert(ctx context.Context, pseudo string, userID *int64) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("pseudo_repo")
	log.Debug("inserting pseudo: %q", pseudo)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO pseudos (pseudo, user_id) VALUES (?, ?)`, pseudo, userID)
	if err != nil {
		log.Error("failed to insert pseudo: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *pseudoRepository) Upsert(ctx context.Context, pseudo string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("pseudo_repo")

	res, err := r.db.ExecContext(ctx, `
INSERT INTO pseudos (pseudo) VALUES (?)
ON CONFLICT(pseudo) DO NOTHING`, pseudo)
	if err != nil {
		log.Error("failed to upsert pseudo: %v", err)
		return 0, err
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		if affected, err := res.RowsAffected(); err == nil && affected > 0 {
			return id, nil
		}
	}

	var id int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT id FROM pseudos WHERE pseudo = ?`, pseudo).Scan(&id); err != nil {
		log.Error("failed to get pseudo id: %v", err)
		return 0, err
	}
	return id, nil
}
