// Package store keeps the download history in SQLite so finished songs are
// not fetched twice.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("store: record not found")

// DownloadModel mirrors the downloads table. One row exists per platform,
// track and quality.
type DownloadModel struct {
	gorm.Model
	Platform string `gorm:"not null;index:idx_platform_track_quality,unique"`
	TrackID  string `gorm:"not null;index:idx_platform_track_quality,unique"`
	Quality  string `gorm:"not null;index:idx_platform_track_quality,unique"`
	SongName string
	Artist   string
	Album    string
	Format   string
	Bitrate  int
	Size     int64
	Path     string
}

func (DownloadModel) TableName() string {
	return "downloads"
}

// Download is one finished download.
type Download struct {
	ID        uint      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Platform  string    `json:"platform"`
	TrackID   string    `json:"track_id"`
	Quality   string    `json:"quality"`
	SongName  string    `json:"song_name"`
	Artist    string    `json:"artist,omitempty"`
	Album     string    `json:"album,omitempty"`
	Format    string    `json:"format"`
	Bitrate   int       `json:"bitrate,omitempty"`
	Size      int64     `json:"size"`
	Path      string    `json:"path"`
}

func toInternal(m DownloadModel) *Download {
	return &Download{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Platform:  m.Platform,
		TrackID:   m.TrackID,
		Quality:   m.Quality,
		SongName:  m.SongName,
		Artist:    m.Artist,
		Album:     m.Album,
		Format:    m.Format,
		Bitrate:   m.Bitrate,
		Size:      m.Size,
		Path:      m.Path,
	}
}

func toModel(d *Download) *DownloadModel {
	return &DownloadModel{
		Platform: d.Platform,
		TrackID:  d.TrackID,
		Quality:  d.Quality,
		SongName: d.SongName,
		Artist:   d.Artist,
		Album:    d.Album,
		Format:   d.Format,
		Bitrate:  d.Bitrate,
		Size:     d.Size,
		Path:     d.Path,
	}
}

// Repository provides access to the download history.
type Repository struct {
	db *gorm.DB
}

// NewSQLiteRepository opens (and migrates) the history database at dsn.
func NewSQLiteRepository(dsn string, gormLogger logger.Interface) (*Repository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn required")
	}
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	dbDir := filepath.Dir(dsn)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, err
	}
	if err := applySQLitePragmas(db); err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&DownloadModel{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Repository{db: db}, nil
}

// Find returns the record for platform, track and quality.
func (r *Repository) Find(ctx context.Context, platform, trackID, quality string) (*Download, error) {
	var m DownloadModel
	err := r.db.WithContext(ctx).
		Where("platform = ? AND track_id = ? AND quality = ?", platform, trackID, quality).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toInternal(m), nil
}

// Record inserts d, or refreshes the existing row for the same platform,
// track and quality.
func (r *Repository) Record(ctx context.Context, d *Download) error {
	if d == nil {
		return errors.New("store: nil download")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toModel(d)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "platform"},
				{Name: "track_id"},
				{Name: "quality"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"deleted_at",
				"updated_at",
				"song_name",
				"artist",
				"album",
				"format",
				"bitrate",
				"size",
				"path",
			}),
		}).Create(m).Error; err != nil {
			return err
		}
		if err := tx.Where("platform = ? AND track_id = ? AND quality = ?", m.Platform, m.TrackID, m.Quality).First(m).Error; err != nil {
			return err
		}
		d.ID = m.ID
		d.CreatedAt = m.CreatedAt
		d.UpdatedAt = m.UpdatedAt
		return nil
	})
}

// Query filters List. Empty fields match everything.
type Query struct {
	Platform string
	Keyword  string
	Limit    int
}

// List returns matching records, most recently updated first.
func (r *Repository) List(ctx context.Context, q Query) ([]*Download, error) {
	query := r.db.WithContext(ctx).Model(&DownloadModel{})
	if platform := strings.TrimSpace(q.Platform); platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if keyword := strings.ToLower(strings.TrimSpace(q.Keyword)); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("(LOWER(song_name) LIKE ? OR LOWER(artist) LIKE ? OR LOWER(album) LIKE ?)", like, like, like)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var models []DownloadModel
	if err := query.Order("updated_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	results := make([]*Download, 0, len(models))
	for _, m := range models {
		results = append(results, toInternal(m))
	}
	return results, nil
}

// Delete removes every quality recorded for a track.
func (r *Repository) Delete(ctx context.Context, platform, trackID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&DownloadModel{}, "platform = ? AND track_id = ?", platform, trackID).Error
	})
}

// CountByPlatform returns record counts grouped by platform.
func (r *Repository) CountByPlatform(ctx context.Context) (map[string]int64, error) {
	rows := make([]struct {
		Platform string
		Count    int64
	}, 0)
	err := r.db.WithContext(ctx).Model(&DownloadModel{}).
		Select("platform, COUNT(*) as count").
		Group("platform").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Platform] = row.Count
	}
	return result, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func applySQLitePragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, stmt := range pragmas {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
