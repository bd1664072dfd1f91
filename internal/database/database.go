package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"market-value-dashboard/internal/config"
	"market-value-dashboard/internal/dataset"
	"market-value-dashboard/internal/models"
)

// ErrNoLoad is returned when no load has been recorded yet.
var ErrNoLoad = errors.New("no load recorded")

// NewDatabase opens the snapshot catalog and migrates its schema.
func NewDatabase(cfg *config.Database) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to an in-memory sqlite database sees its own empty
	// database unless they all share one.
	if strings.Contains(cfg.DSN, ":memory:") || strings.Contains(cfg.DSN, "mode=memory") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the catalog tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SourceSnapshot{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// RecordLoad stores one row per snapshot under a fresh load id and returns it.
func RecordLoad(db *gorm.DB, snapshots []dataset.Snapshot) (string, error) {
	loadID := uuid.NewString()

	rows := make([]models.SourceSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, models.SourceSnapshot{
			LoadID:     loadID,
			Source:     s.Source,
			URL:        s.URL,
			Bytes:      s.Bytes,
			Rows:       s.Rows,
			Duplicates: s.Duplicates,
			SHA256:     s.SHA256,
			FetchedAt:  s.FetchedAt,
		})
	}
	if len(rows) == 0 {
		return loadID, nil
	}

	if err := db.Create(&rows).Error; err != nil {
		return "", fmt.Errorf("failed to record load %s: %w", loadID, err)
	}
	return loadID, nil
}

// LatestLoad returns the snapshots of the most recently recorded load.
func LatestLoad(db *gorm.DB) ([]models.SourceSnapshot, error) {
	var last models.SourceSnapshot
	if err := db.Order("id desc").First(&last).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoLoad
		}
		return nil, fmt.Errorf("failed to find latest load: %w", err)
	}

	var snapshots []models.SourceSnapshot
	if err := db.Where("load_id = ?", last.LoadID).Order("id asc").Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to get snapshots for load %s: %w", last.LoadID, err)
	}
	return snapshots, nil
}
