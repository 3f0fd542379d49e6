package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"tidestom/internal/models"
)

func (s *Store) ListPipelineClassifications(ctx context.Context, candidateID int64) ([]models.PipelineClassification, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.PipelineClassification
	if err := s.db.WithContext(ctx).
		Model(&models.PipelineClassification{}).
		Where("tides_target_id = ?", candidateID).
		// portable "NULLS LAST" for postgres and sqlite
		Order("probability IS NULL").
		Order("probability desc").
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) LatestPipelineClassification(ctx context.Context, candidateID int64, classifier string) (*models.PipelineClassification, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.PipelineClassification{}).
		Where("tides_target_id = ?", candidateID)
	if classifier = strings.TrimSpace(classifier); classifier != "" {
		query = query.Where("classifier = ?", classifier)
	}
	var item models.PipelineClassification
	err := query.Order("created_at desc").Order("id desc").First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// PipelineClassificationIsCurrent reports whether the newest record for the
// same candidate, source and classifier carries the same verdict. An older
// matching record does not count.
func (s *Store) PipelineClassificationIsCurrent(ctx context.Context, item *models.PipelineClassification) (bool, error) {
	if s == nil || s.db == nil || item == nil {
		return false, nil
	}
	var latest models.PipelineClassification
	err := s.db.WithContext(ctx).
		Model(&models.PipelineClassification{}).
		Where("tides_target_id = ?", item.CandidateID).
		Where("source = ?", item.Source).
		Where("classifier = ?", item.Classifier).
		Order("created_at desc").
		Order("id desc").
		First(&latest).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sameVerdict(&latest, item), nil
}

func sameVerdict(a, b *models.PipelineClassification) bool {
	return equalPtr(a.SNType, b.SNType) &&
		equalPtr(a.Subclass, b.Subclass) &&
		equalPtr(a.Probability, b.Probability) &&
		equalPtr(a.Version, b.Version)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *Store) InsertPipelineClassification(ctx context.Context, item *models.PipelineClassification) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListHumanClassifications(ctx context.Context, candidateID int64, asc bool) ([]models.HumanClassification, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	direction := "desc"
	if asc {
		direction = "asc"
	}
	var items []models.HumanClassification
	if err := s.db.WithContext(ctx).
		Model(&models.HumanClassification{}).
		Where("tides_id = ?", candidateID).
		Order("created " + direction).
		Order("id " + direction).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) InsertHumanClassificationTx(ctx context.Context, tx *gorm.DB, item *models.HumanClassification) error {
	if item == nil {
		return nil
	}
	if tx == nil {
		if s == nil || s.db == nil {
			return nil
		}
		tx = s.db
	}
	return tx.WithContext(ctx).Create(item).Error
}
