package storage

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/ekrsw/knowledge-app-sub001/knowledge"
)

// User repository methods for sqliteDb

func (db *sqliteDb) InsertUser(user *knowledge.User) error {
	result, err := db.conn.Exec(`INSERT INTO User (screenname, email, role) VALUES (?, ?, ?)`,
		user.ScreenName, user.Email, user.Role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return knowledge.NewValidationError("screenname", "already in use")
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	return nil
}

func (db *sqliteDb) SelectUser(id int) (*knowledge.User, error) {
	user := &knowledge.User{}
	err := db.SelectUserStmt.Get(user, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, knowledge.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (db *sqliteDb) SelectUserByScreenName(screenname string) (*knowledge.User, error) {
	user := &knowledge.User{}
	err := db.SelectUserByScreenNameStmt.Get(user, screenname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, knowledge.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}
