package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
)

// insertChunkSize keeps a batch insert well under the postgres parameter
// limit (65535 / 7 columns).
const insertChunkSize = 500

type AuctionRepository struct {
	db *sqlx.DB
}

func NewAuctionRepository(db *sqlx.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// ReplaceRealm atomically swaps one realm's auction snapshot for a fresh one.
// Readers either see the old snapshot or the new one, never a mix.
func (r *AuctionRepository) ReplaceRealm(ctx context.Context, realmID int64, auctions []entity.Auction) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM auctions WHERE realm_id = $1`, realmID); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to clear realm snapshot")
		}

		query := `
			INSERT INTO auctions (id, item_id, realm_id, buyout, quantity, time_left, scanned_at)
			VALUES (:id, :item_id, :realm_id, :buyout, :quantity, :time_left, :scanned_at)
			ON CONFLICT (realm_id, id) DO NOTHING`

		for start := 0; start < len(auctions); start += insertChunkSize {
			end := min(start+insertChunkSize, len(auctions))

			chunk := make([]auctionSchema, 0, end-start)
			for _, auction := range auctions[start:end] {
				chunk = append(chunk, fromAuction(auction))
			}

			if _, err := tx.NamedExecContext(ctx, query, chunk); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to insert auction chunk")
			}
		}

		return nil
	})
}

// RealmMinimums returns the cheapest active buyout of every (item, realm)
// pair. Bid-only listings carry a NULL buyout and never qualify.
func (r *AuctionRepository) RealmMinimums(ctx context.Context) ([]entity.PriceObservation, error) {
	query := `
		SELECT item_id, realm_id, MIN(buyout) AS min_price
		FROM auctions
		WHERE buyout IS NOT NULL AND buyout > 0
		GROUP BY item_id, realm_id`

	var observations []entity.PriceObservation
	if err := r.db.SelectContext(ctx, &observations, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load realm minimums")
	}

	return observations, nil
}

// ItemRealmMinimums returns one item's cheapest buyout per realm.
func (r *AuctionRepository) ItemRealmMinimums(ctx context.Context, itemID int64) ([]entity.RealmPrice, error) {
	query := `
		SELECT realm_id, MIN(buyout) AS min_price
		FROM auctions
		WHERE item_id = $1 AND buyout IS NOT NULL AND buyout > 0
		GROUP BY realm_id`

	var rows []struct {
		RealmID int64 `db:"realm_id"`
		Price   int64 `db:"min_price"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, itemID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load item prices")
	}

	prices := make([]entity.RealmPrice, 0, len(rows))
	for _, row := range rows {
		prices = append(prices, entity.RealmPrice{RealmID: row.RealmID, Price: row.Price})
	}

	return prices, nil
}

// DistinctItemIDs lists every item id present in the current snapshots.
func (r *AuctionRepository) DistinctItemIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT item_id FROM auctions`); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list item ids")
	}

	return ids, nil
}
