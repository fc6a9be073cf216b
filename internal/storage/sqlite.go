package storage

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// PreparedStatements holds the prepared SQL statements used for database
// queries. This struct is exported to allow reuse in test utilities.
type PreparedStatements struct {
	SelectRevisionStmt         *sqlx.Stmt
	SelectUserStmt             *sqlx.Stmt
	SelectUserByScreenNameStmt *sqlx.Stmt
}

// InitializeStatements prepares all the SQL statements needed for
// database operations. Exported to allow reuse in test utilities.
func InitializeStatements(conn *sqlx.DB) (*PreparedStatements, error) {
	stmts := &PreparedStatements{}
	var err error

	stmts.SelectRevisionStmt, err = conn.Preparex(`
		SELECT Revision.*, User.screenname, User.email, User.role
		FROM Revision JOIN User ON Revision.proposer_id = User.id
		WHERE Revision.id = ?`)
	if err != nil {
		return nil, err
	}

	stmts.SelectUserStmt, err = conn.Preparex(`SELECT id, screenname, email, role, created_at FROM User WHERE id = ?`)
	if err != nil {
		return nil, err
	}

	stmts.SelectUserByScreenNameStmt, err = conn.Preparex(`SELECT id, screenname, email, role, created_at FROM User WHERE screenname = ?`)
	if err != nil {
		return nil, err
	}

	return stmts, nil
}

// sqliteDb is the main database struct that embeds all repository
// functionality. Methods are defined in separate files:
//   - revision_repo.go: Revision workflow operations
//   - user_repo.go: User operations
type sqliteDb struct {
	*PreparedStatements
	conn *sqlx.DB
}

// Init initializes the storage layer with an existing database
// connection. The connection should already have migrations applied
// via RunMigrations.
func Init(db *sqlx.DB) (*sqliteDb, error) {
	store := &sqliteDb{conn: db}

	var err error
	store.PreparedStatements, err = InitializeStatements(db)
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Open connects to the SQLite database file, runs migrations and
// initializes the storage layer.
func Open(dbfile string) (*sqliteDb, error) {
	conn, err := sqlx.Open("sqlite", dbfile)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return Init(conn)
}
