package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gtmdash/internal/models"
	"gtmdash/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Scenarios ---------------------------------------------------------------

func (s *Store) InsertScenario(ctx context.Context, item *models.Scenario) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetScenarioByID(ctx context.Context, id uint64) (*models.Scenario, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Scenario
	err := s.db.WithContext(ctx).Model(&models.Scenario{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) scenarioQuery(ctx context.Context, params repository.ListScenariosParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Scenario{})
	if params.Query != nil && strings.TrimSpace(*params.Query) != "" {
		needle := "%" + strings.TrimSpace(*params.Query) + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", needle, needle)
	}
	return query
}

func (s *Store) ListScenarios(ctx context.Context, params repository.ListScenariosParams) ([]models.Scenario, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.scenarioQuery(ctx, params), params.OrderBy, params.Asc, "updated_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Scenario
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountScenarios(ctx context.Context, params repository.ListScenariosParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.scenarioQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) UpdateScenario(ctx context.Context, item *models.Scenario) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Scenario{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":        item.Name,
			"description": item.Description,
			"config":      item.Config,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (s *Store) DeleteScenario(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Scenario{}).Error
}

// --- Snapshot history --------------------------------------------------------

func (s *Store) InsertSnapshot(ctx context.Context, item *models.ScenarioSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetLatestSnapshot(ctx context.Context, scenarioID uint64) (*models.ScenarioSnapshot, error) {
	if s == nil || s.db == nil || scenarioID == 0 {
		return nil, nil
	}
	var item models.ScenarioSnapshot
	err := s.db.WithContext(ctx).Model(&models.ScenarioSnapshot{}).
		Where("scenario_id = ?", scenarioID).
		Order("created_at desc").
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSnapshots(ctx context.Context, params repository.ListSnapshotsParams) ([]models.ScenarioSnapshot, error) {
	if s == nil || s.db == nil || params.ScenarioID == 0 {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.ScenarioSnapshot{}).
		Where("scenario_id = ?", params.ScenarioID)
	if params.Source != nil && strings.TrimSpace(*params.Source) != "" {
		query = query.Where("source = ?", strings.TrimSpace(*params.Source))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.ScenarioSnapshot
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteSnapshotsBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if before.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.ScenarioSnapshot{})
	return res.RowsAffected, res.Error
}

func (s *Store) DeleteSnapshotsByScenario(ctx context.Context, scenarioID uint64) error {
	if s == nil || s.db == nil || scenarioID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Delete(&models.ScenarioSnapshot{}).Error
}

// --- System settings ---------------------------------------------------------

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Key = strings.TrimSpace(item.Key)
	if item.Key == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"description",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.SystemSetting
	err := s.db.WithContext(ctx).Model(&models.SystemSetting{}).Where("key = ?", key).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SystemSetting
	if err := s.db.WithContext(ctx).Model(&models.SystemSetting{}).Order("key asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers -----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	switch column {
	case "name", "created_at", "updated_at":
	default:
		column = fallback
	}
	direction := "desc"
	if asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
