package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tidestom/internal/models"
	"tidestom/internal/repository"
)

var targetOrderColumns = map[string]struct{}{
	"tides_id":    {},
	"name":        {},
	"last_date":   {},
	"modified_at": {},
	"created_at":  {},
}

func (s *Store) GetTarget(ctx context.Context, candidateID int64) (*models.Target, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Target
	err := s.db.WithContext(ctx).First(&item, "tides_id = ?", candidateID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetTargetByName(ctx context.Context, name string) (*models.Target, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var item models.Target
	err := s.db.WithContext(ctx).First(&item, "name = ?", name).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListTargets(ctx context.Context, params repository.ListTargetsParams) ([]models.Target, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := filterTargets(s.db.WithContext(ctx).Model(&models.Target{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "tides_id", targetOrderColumns)
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Target
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountTargets(ctx context.Context, params repository.ListTargetsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := filterTargets(s.db.WithContext(ctx).Model(&models.Target{}), params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func filterTargets(query *gorm.DB, params repository.ListTargetsParams) *gorm.DB {
	if params.AfterID != nil {
		query = query.Where("tides_id > ?", *params.AfterID)
	}
	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(*params.Name))+"%")
	}
	return query
}

func (s *Store) ListTargetsByCandidateIDs(ctx context.Context, candidateIDs []int64) ([]models.Target, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	ids := cleanIDs(candidateIDs)
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Target
	if err := s.db.WithContext(ctx).
		Model(&models.Target{}).
		Where("tides_id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SaveTarget inserts the target or overwrites the existing row with the
// same candidate id.
func (s *Store) SaveTarget(ctx context.Context, item *models.Target) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tides_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"type",
			"ra",
			"dec",
			"lsst_sn_id",
			"lsst_host_id",
			"last_date",
			"classification",
			"z_best",
			"z_sn",
			"z_gal",
			"z_source",
			"confidence",
			"modified_at",
		}),
	}).Create(item).Error
}

func (s *Store) ListStaleTargetIDs(ctx context.Context, limit int) ([]int64, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 100)
	var ids []int64
	if err := staleTargets(s.db.WithContext(ctx)).
		Order("tides_id asc").
		Limit(limit).
		Pluck("tides_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) CountStaleTargets(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := staleTargets(s.db.WithContext(ctx)).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func staleTargets(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Target{}).
		Where("NOT EXISTS (SELECT 1 FROM tides_cand c WHERE c.tides_id = targets.tides_id)")
}
