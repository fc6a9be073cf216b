package storage

import (
	_ "embed"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

// RunMigrations executes the database schema and any necessary
// migrations. This function is idempotent and safe to run multiple times.
func RunMigrations(db *sqlx.DB) error {
	_, err := db.Exec(schemaSQL)
	if err != nil {
		return err
	}

	// Migration: add the priority column to Revision for databases
	// created before priority tiers existed. Idempotent.
	var colExists int
	err = db.Get(&colExists, `SELECT COUNT(*) FROM pragma_table_info('Revision') WHERE name = 'priority'`)
	if err != nil {
		return err
	}
	if colExists == 0 {
		_, err = db.Exec(`ALTER TABLE Revision ADD COLUMN priority TEXT NOT NULL DEFAULT 'medium'`)
		if err != nil {
			return err
		}
	}

	// Migration: add the role column to User. Early databases stored a
	// separate admin flag table; the role string replaces it.
	err = db.Get(&colExists, `SELECT COUNT(*) FROM pragma_table_info('User') WHERE name = 'role'`)
	if err != nil {
		return err
	}
	if colExists == 0 {
		_, err = db.Exec(`ALTER TABLE User ADD COLUMN role TEXT NOT NULL DEFAULT 'user'`)
		if err != nil {
			return err
		}
	}

	return nil
}
