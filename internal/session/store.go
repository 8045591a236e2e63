// Package session owns authentication state: the access/refresh token pair
// and the cached user profile, persisted so they survive restarts.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	gorm_zerolog "github.com/wei840222/gorm-zerolog"
	"gorm.io/gorm"
)

// Session is the durable session state for one console session key. It is
// cleared in full on logout or failed refresh.
type Session struct {
	Key          string `gorm:"primaryKey"`
	AccessToken  string
	RefreshToken string
	User         string // serialized JSON profile
	ActiveEntity string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists sessions in a local sqlite database.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (and migrates) the session database at the given path.
func OpenStore(path string) (*Store, error) {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: gorm_zerolog.New(),
	}

	db, err := gorm.Open(sqlite.Open(path), config)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.AutoMigrate(Session{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Get returns the persisted session for the key. A key without persisted
// state returns an empty session, not an error.
func (s *Store) Get(key string) (Session, error) {
	var sess Session
	err := s.db.First(&sess, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{Key: key}, nil
	}
	if err != nil {
		return Session{}, err
	}

	return sess, nil
}

// Put upserts the session.
func (s *Store) Put(sess Session) error {
	return s.db.Save(&sess).Error
}

// Delete removes all persisted state for the key.
func (s *Store) Delete(key string) error {
	return s.db.Delete(&Session{}, "key = ?", key).Error
}
