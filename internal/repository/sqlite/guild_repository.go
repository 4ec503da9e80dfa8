package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/gwarchivist/gwarchivist/internal/logger"
	"github.com/gwarchivist/gwarchivist/internal/models"
	"github.com/gwarchivist/gwarchivist/internal/repository"
)

type guildRepository struct {
	db *sql.DB
}

// NewGuildRepository creates a new GuildRepository implementation.
func NewGuildRepository(db *sql.DB) repository.GuildRepository {
	return &guildRepository{db: db}
}

func (r *guildRepository) Get(ctx context.Context, id int64) (*models.Guild, error) {
	return r.getWhere(ctx, `id = ?`, id)
}

func (r *guildRepository) GetByName(ctx context.Context, name string) (*models.Guild, error) {
	g, err := r.getWhere(ctx, `name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

func (r *guildRepository) GetByKey(ctx context.Context, key string) (*models.Guild, error) {
	return r.getWhere(ctx, `key = ?`, key)
}

func (r *guildRepository) getWhere(ctx context.Context, where string, arg any) (*models.Guild, error) {
	log := logger.FromContext(ctx).WithPrefix("guild_repo")

	var g models.Guild
	err := r.db.QueryRowContext(ctx,
		`SELECT id, key, name, tag, created_at FROM guilds WHERE `+where, arg,
	).Scan(&g.ID, &g.Key, &g.Name, &g.Tag, &g.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to get guild: %v", err)
		}
		return nil, err
	}
	return &g, nil
}

// Resolve looks up a guild by id, then exact name, then exact tag. Numeric
// references that miss by id still fall through to name and tag, since guild
// names can be numeric too.
func (r *guildRepository) Resolve(ctx context.Context, ref string) (*models.Guild, error) {
	log := logger.FromContext(ctx).WithPrefix("guild_repo")
	log.Debug("resolving guild reference: %q", ref)

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		g, err := r.Get(ctx, id)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	var g models.Guild
	err := r.db.QueryRowContext(ctx, `
SELECT id, key, name, tag, created_at
FROM guilds
WHERE name = ? OR tag = ?
ORDER BY CASE WHEN name = ? THEN 1 ELSE 2 END
LIMIT 1`, ref, ref, ref).Scan(&g.ID, &g.Key, &g.Name, &g.Tag, &g.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to resolve guild: %v", err)
		}
		return nil, err
	}
	return &g, nil
}

func (r *guildRepository) List(ctx context.Context, limit int) ([]models.Guild, error) {
	log := logger.FromContext(ctx).WithPrefix("guild_repo")
	log.Debug("listing guilds: limit=%d", limit)

	query := `SELECT id, key, name, tag, created_at FROM guilds`
	var args []any
	if limit > 0 {
		query += ` ORDER BY id DESC LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list guilds: %v", err)
		return nil, err
	}
	defer rows.Close()

	var guilds []models.Guild
	for rows.Next() {
		var g models.Guild
		if err := rows.Scan(&g.ID, &g.Key, &g.Name, &g.Tag, &g.CreatedAt); err != nil {
			log.Error("failed to scan guild row: %v", err)
			return nil, err
		}
		guilds = append(guilds, g)
	}
	return guilds, rows.Err()
}

func (r *guildRepository) Insert(ctx context.Context, key, name, tag string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("guild_repo")
	log.Debug("inserting guild: name=%s, tag=%s", name, tag)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO guilds (key, name, tag) VALUES (?, ?, ?)`, key, name, tag)
	if err != nil {
		log.Error("failed to insert guild: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get guild id: %v", err)
		return 0, err
	}
	log.Debug("guild inserted: id=%d", id)
	return id, nil
}
