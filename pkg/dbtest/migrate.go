package dbtest

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
)

// MigrateFromFile applies SQL migration files over a database connection,
// in the order given.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		queries, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.Exec(string(queries)); err != nil {
			return fmt.Errorf("db.Exec %s: %w", fileName, err)
		}
	}

	return nil
}
