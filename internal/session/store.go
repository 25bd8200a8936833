package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskdeck/taskdeck/internal/models"
)

// Record is the single persisted session row: the token plus a snapshot of
// the user it belonged to when it was issued.
type Record struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Token    string `gorm:"not null"`
	UserJSON string
}

// Store persists the session in a local SQLite database.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (creating if needed) the session database under dataDir.
func OpenStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(dataDir, "taskdeck.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Save replaces any existing session with token and user.
func (s *Store) Save(token string, user *models.User) error {
	snapshot, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := s.db.Where("1 = 1").Delete(&Record{}).Error; err != nil {
		return err
	}
	return s.db.Create(&Record{Token: token, UserJSON: string(snapshot)}).Error
}

// Load returns the stored token and user snapshot, or ("", nil) when no
// session is stored.
func (s *Store) Load() (string, *models.User, error) {
	var record Record
	err := s.db.First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	var user models.User
	if record.UserJSON != "" {
		if err := json.Unmarshal([]byte(record.UserJSON), &user); err != nil {
			return record.Token, nil, nil // stale snapshot, token still usable
		}
	}
	return record.Token, &user, nil
}

// Clear removes any stored session.
func (s *Store) Clear() error {
	return s.db.Where("1 = 1").Delete(&Record{}).Error
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
