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

type RealmRepository struct {
	db *sqlx.DB
}

func NewRealmRepository(db *sqlx.DB) *RealmRepository {
	return &RealmRepository{db: db}
}

func (r *RealmRepository) UpsertBatch(ctx context.Context, realms []entity.Realm) error {
	if len(realms) == 0 {
		return nil
	}

	query := `
		INSERT INTO realms (id, name, updated_at)
		VALUES (:id, :name, :updated_at)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    updated_at = EXCLUDED.updated_at`

	now := time.Now()

	schemas := make([]realmSchema, 0, len(realms))
	for _, realm := range realms {
		schemas = append(schemas, realmSchema{
			ID:        realm.ID,
			Name:      realm.Name,
			UpdatedAt: now,
		})
	}

	if _, err := r.db.NamedExecContext(ctx, query, schemas); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert realms")
	}

	return nil
}

func (r *RealmRepository) GetByID(ctx context.Context, id int64) (entity.Realm, error) {
	query := `SELECT id, name, updated_at FROM realms WHERE id = $1`

	var schema realmSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Realm{}, domain.NewError(errcodes.RealmNotFound, "realm not found")
		}
		return entity.Realm{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get realm")
	}

	return schema.toDomain(), nil
}

func (r *RealmRepository) List(ctx context.Context) ([]entity.Realm, error) {
	query := `SELECT id, name, updated_at FROM realms ORDER BY id`

	var schemas []realmSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list realms")
	}

	return lox.Map(schemas, realmSchema.toDomain), nil
}
