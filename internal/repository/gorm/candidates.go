package gormrepository

import (
	"context"

	"tidestom/internal/models"
	"tidestom/internal/repository"
)

func (s *Store) ListCandidates(ctx context.Context, params repository.ListCandidatesParams) ([]models.Candidate, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit := normalizeLimit(params.Limit, 500)
	var items []models.Candidate
	if err := s.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("tides_id > ?", params.AfterID).
		Order("tides_id asc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountCandidates(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Candidate{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
