package store

import (
	"database/sql"
	"time"

	"github.com/steamvault/steamvault/internal/domain"
)

// UpsertUser inserts the user if not already present. Profile fields are
// captured on first sight and left alone afterwards. Returns true when a
// row was created.
func (db *DB) UpsertUser(user *domain.User) (bool, error) {
	exists, err := db.UserExists(user.SteamID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err = db.NamedExec(`INSERT INTO users (
		steam_id, persona_name, profile_url, avatar_url, real_name, country_code, state_code, created_at
	) VALUES (
		:steam_id, :persona_name, :profile_url, :avatar_url, :real_name, :country_code, :state_code, :created_at
	)`, user)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) UserExists(steamID string) (bool, error) {
	var count int
	err := db.Get(&count, `SELECT COUNT(*) FROM users WHERE steam_id = ?`, steamID)
	return count > 0, err
}

func (db *DB) GetUser(steamID string) (*domain.User, error) {
	var user domain.User
	err := db.Get(&user, `SELECT * FROM users WHERE steam_id = ?`, steamID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
