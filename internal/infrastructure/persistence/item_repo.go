package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
	"github.com/nefeygt/wowscraper/pkg/lox"
)

type ItemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Upsert(ctx context.Context, item entity.Item) error {
	query := `
		INSERT INTO items (id, name, quality, icon_url, updated_at)
		VALUES (:id, :name, :quality, :icon_url, :updated_at)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    quality = EXCLUDED.quality,
		    icon_url = EXCLUDED.icon_url,
		    updated_at = EXCLUDED.updated_at`

	schema := itemSchema{
		ID:        item.ID,
		Name:      item.Name,
		Quality:   item.Quality,
		IconURL:   item.IconURL,
		UpdatedAt: time.Now(),
	}

	if _, err := r.db.NamedExecContext(ctx, query, schema); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert item")
	}

	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (entity.Item, error) {
	query := `SELECT id, name, quality, icon_url, updated_at FROM items WHERE id = $1`

	var schema itemSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Item{}, domain.NewError(errcodes.ItemNotFound, "item not found")
		}
		return entity.Item{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get item")
	}

	return schema.toDomain(), nil
}

func (r *ItemRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, quality, icon_url, updated_at
		FROM items
		WHERE id IN (?)`, ids)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to build query")
	}

	var schemas []itemSchema
	if err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get items")
	}

	return lox.Map(schemas, itemSchema.toDomain), nil
}

// ExistingIDs filters ids down to the ones already enriched with item data,
// so the scanner only fetches metadata for items it has never seen.
func (r *ItemRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}

	query, args, err := sqlx.In(`SELECT id FROM items WHERE id IN (?)`, ids)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to build query")
	}

	var found []int64
	if err := r.db.SelectContext(ctx, &found, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to check item ids")
	}

	existing := make(map[int64]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}

	return existing, nil
}
