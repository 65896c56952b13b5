package service

import (
	"context"
	"sort"
	"time"

	"gtmdash/internal/models"
	"gtmdash/internal/repository"
)

// stubRepo is an in-memory Repository for service tests.
type stubRepo struct {
	scenarios map[uint64]*models.Scenario
	snapshots []*models.ScenarioSnapshot
	settings  map[string]*models.SystemSetting

	nextScenarioID uint64
	nextSnapshotID uint64

	insertSnapshotErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		scenarios: map[uint64]*models.Scenario{},
		settings:  map[string]*models.SystemSetting{},
	}
}

func (r *stubRepo) InsertScenario(_ context.Context, item *models.Scenario) error {
	r.nextScenarioID++
	item.ID = r.nextScenarioID
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt
	cp := *item
	r.scenarios[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetScenarioByID(_ context.Context, id uint64) (*models.Scenario, error) {
	item, ok := r.scenarios[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *stubRepo) ListScenarios(_ context.Context, params repository.ListScenariosParams) ([]models.Scenario, error) {
	ids := make([]uint64, 0, len(r.scenarios))
	for id := range r.scenarios {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Scenario, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.scenarios[id])
	}
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *stubRepo) CountScenarios(_ context.Context, _ repository.ListScenariosParams) (int64, error) {
	return int64(len(r.scenarios)), nil
}

func (r *stubRepo) UpdateScenario(_ context.Context, item *models.Scenario) error {
	item.UpdatedAt = time.Now().UTC()
	cp := *item
	r.scenarios[item.ID] = &cp
	return nil
}

func (r *stubRepo) DeleteScenario(_ context.Context, id uint64) error {
	delete(r.scenarios, id)
	return nil
}

func (r *stubRepo) InsertSnapshot(_ context.Context, item *models.ScenarioSnapshot) error {
	if r.insertSnapshotErr != nil {
		return r.insertSnapshotErr
	}
	r.nextSnapshotID++
	item.ID = r.nextSnapshotID
	item.CreatedAt = time.Now().UTC()
	cp := *item
	r.snapshots = append(r.snapshots, &cp)
	return nil
}

func (r *stubRepo) GetLatestSnapshot(_ context.Context, scenarioID uint64) (*models.ScenarioSnapshot, error) {
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if r.snapshots[i].ScenarioID == scenarioID {
			cp := *r.snapshots[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListSnapshots(_ context.Context, params repository.ListSnapshotsParams) ([]models.ScenarioSnapshot, error) {
	var out []models.ScenarioSnapshot
	for _, s := range r.snapshots {
		if s.ScenarioID != params.ScenarioID {
			continue
		}
		if params.Source != nil && s.Source != *params.Source {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubRepo) DeleteSnapshotsBefore(_ context.Context, before time.Time) (int64, error) {
	var kept []*models.ScenarioSnapshot
	var removed int64
	for _, s := range r.snapshots {
		if s.CreatedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.snapshots = kept
	return removed, nil
}

func (r *stubRepo) DeleteSnapshotsByScenario(_ context.Context, scenarioID uint64) error {
	var kept []*models.ScenarioSnapshot
	for _, s := range r.snapshots {
		if s.ScenarioID != scenarioID {
			kept = append(kept, s)
		}
	}
	r.snapshots = kept
	return nil
}

func (r *stubRepo) GetSystemSettingByKey(_ context.Context, key string) (*models.SystemSetting, error) {
	item, ok := r.settings[key]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *stubRepo) UpsertSystemSetting(_ context.Context, item *models.SystemSetting) error {
	cp := *item
	r.settings[item.Key] = &cp
	return nil
}

func (r *stubRepo) ListSystemSettings(_ context.Context) ([]models.SystemSetting, error) {
	keys := make([]string, 0, len(r.settings))
	for k := range r.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.SystemSetting, 0, len(keys))
	for _, k := range keys {
		out = append(out, *r.settings[k])
	}
	return out, nil
}

var _ repository.Repository = (*stubRepo)(nil)
