package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// SQLiteStore persists seasons and records through gorm on a pure-Go SQLite driver.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and migrates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	if err := configureSQLite(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if err := db.AutoMigrate(&seasonModel{}, &matchModel{}, &activityModel{}, &adjustmentModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func configureSQLite(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("exec %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) ListSeasons(ctx context.Context) ([]points.Season, error) {
	var rows []seasonModel
	if err := s.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	out := make([]points.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *SQLiteStore) GetSeason(ctx context.Context, id string) (points.Season, error) {
	var row seasonModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return points.Season{}, translateGormError("get season", err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) ActiveSeason(ctx context.Context) (points.Season, error) {
	var row seasonModel
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id asc").First(&row).Error
	if err != nil {
		return points.Season{}, translateGormError("active season", err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) SaveSeason(ctx context.Context, season points.Season) error {
	row := seasonToModel(season)
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("save season: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ActivateSeason(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&seasonModel{}).Where("id = ?", id).Update("is_active", true)
		if res.Error != nil {
			return fmt.Errorf("activate season: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&seasonModel{}).Where("id <> ?", id).Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate seasons: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) ListMatches(ctx context.Context, seasonID string, filter RecordFilter) ([]points.MatchRecord, error) {
	var rows []matchModel
	if err := s.recordQuery(ctx, seasonID, filter).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]points.MatchRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *SQLiteStore) GetMatch(ctx context.Context, seasonID, id string) (points.MatchRecord, error) {
	var row matchModel
	if err := s.db.WithContext(ctx).Where("season_id = ? AND id = ?", seasonID, id).First(&row).Error; err != nil {
		return points.MatchRecord{}, translateGormError("get match", err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) SaveMatch(ctx context.Context, rec points.MatchRecord) error {
	row := matchToModel(rec)
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteMatch(ctx context.Context, seasonID, id string) error {
	return s.deleteRecord(ctx, &matchModel{}, seasonID, id)
}

func (s *SQLiteStore) ListActivities(ctx context.Context, seasonID string, filter RecordFilter) ([]points.ActivityRecord, error) {
	var rows []activityModel
	if err := s.recordQuery(ctx, seasonID, filter).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	out := make([]points.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *SQLiteStore) GetActivity(ctx context.Context, seasonID, id string) (points.ActivityRecord, error) {
	var row activityModel
	if err := s.db.WithContext(ctx).Where("season_id = ? AND id = ?", seasonID, id).First(&row).Error; err != nil {
		return points.ActivityRecord{}, translateGormError("get activity", err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) SaveActivity(ctx context.Context, rec points.ActivityRecord) error {
	row := activityToModel(rec)
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteActivity(ctx context.Context, seasonID, id string) error {
	return s.deleteRecord(ctx, &activityModel{}, seasonID, id)
}

func (s *SQLiteStore) ListAdjustments(ctx context.Context, seasonID string) ([]points.Adjustment, error) {
	var rows []adjustmentModel
	err := s.db.WithContext(ctx).Where("season_id = ?", seasonID).Order("created_at desc, id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	out := make([]points.Adjustment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *SQLiteStore) AddAdjustment(ctx context.Context, adj points.Adjustment) error {
	row := adjustmentToModel(adj)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("add adjustment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) recordQuery(ctx context.Context, seasonID string, filter RecordFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Where("season_id = ?", seasonID)
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.PlayerUID != "" {
		q = q.Where("player_uid = ?", filter.PlayerUID)
	}
	q = q.Order("created_at desc, id asc")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return q
}

func (s *SQLiteStore) deleteRecord(ctx context.Context, model any, seasonID, id string) error {
	res := s.db.WithContext(ctx).Where("season_id = ? AND id = ?", seasonID, id).Delete(model)
	if res.Error != nil {
		return fmt.Errorf("delete record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translateGormError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ Store = (*SQLiteStore)(nil)
