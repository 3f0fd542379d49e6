package gormrepository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tidestom/internal/models"
	"tidestom/internal/repository"
)

func (s *Store) ListSpectra(ctx context.Context, params repository.ListSpectraParams) ([]models.Spectrum, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Spectrum
	if err := filterSpectra(s.db.WithContext(ctx).Model(&models.Spectrum{}), params).
		Order("obs_date desc").
		Order("qmost_id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSpectra(ctx context.Context, params repository.ListSpectraParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := filterSpectra(s.db.WithContext(ctx).Model(&models.Spectrum{}), params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func filterSpectra(query *gorm.DB, params repository.ListSpectraParams) *gorm.DB {
	if params.CandidateID != nil {
		query = query.Where("tides_id = ?", *params.CandidateID)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("obs_date >= ?", params.Since.UTC())
	}
	return query
}

func (s *Store) GetLatestSpectrum(ctx context.Context, candidateID int64) (*models.Spectrum, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Spectrum
	err := s.db.WithContext(ctx).
		Model(&models.Spectrum{}).
		Where("tides_id = ?", candidateID).
		Order("obs_date IS NULL").
		Order("obs_date desc").
		Order("qmost_id desc").
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) DataProductExists(ctx context.Context, targetID int64, data string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.DataProduct{}).
		Where("target_id = ?", targetID).
		Where("data = ?", data).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (s *Store) InsertDataProduct(ctx context.Context, item *models.DataProduct) (bool, error) {
	if s == nil || s.db == nil || item == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) ListDataProducts(ctx context.Context, targetID int64) ([]models.DataProduct, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.DataProduct
	if err := s.db.WithContext(ctx).
		Model(&models.DataProduct{}).
		Where("target_id = ?", targetID).
		Order("created_at desc").
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
