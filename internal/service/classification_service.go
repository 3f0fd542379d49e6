package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tidestom/internal/metrics"
	"tidestom/internal/models"
	"tidestom/internal/repository"
)

type ClassificationService struct {
	Repo    repository.Repository
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

// TargetDetail is everything shown for one mirrored target.
type TargetDetail struct {
	Target                    *models.Target                  `json:"target"`
	PipelineClassifications   []models.PipelineClassification `json:"pipeline_classifications"`
	CurrentAutoClassification *models.PipelineClassification `json:"current_auto_classification"`
	HumanClassifications      []models.HumanClassification    `json:"human_classifications"`
	Aggregation               *Aggregation                    `json:"aggregated_human_class"`
	DataProducts              []models.DataProduct            `json:"data_products"`
}

// SubmissionError hides a persistence failure behind a reference that is
// safe to show to the submitter.
type SubmissionError struct {
	Ref string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed (ref %s): %v", e.Ref, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

type SubmitInput struct {
	CandidateID int64
	SubmitterID int64
	Form        ClassificationForm
}

type SubmitResult struct {
	Classification *models.HumanClassification
	FieldErrors    FieldErrors
}

func (s *ClassificationService) Aggregate(ctx context.Context, candidateID int64) (*Aggregation, error) {
	records, err := s.Repo.ListHumanClassifications(ctx, candidateID, true)
	if err != nil {
		return nil, err
	}
	return AggregateHumanClassifications(records), nil
}

// TargetDetail returns (nil, nil) when the target is not mirrored.
func (s *ClassificationService) TargetDetail(ctx context.Context, candidateID int64) (*TargetDetail, error) {
	target, err := s.Repo.GetTarget(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, nil
	}

	detail := &TargetDetail{Target: target}

	human, err := s.Repo.ListHumanClassifications(ctx, candidateID, true)
	if err != nil {
		return nil, err
	}
	detail.Aggregation = AggregateHumanClassifications(human)
	// newest first for display
	detail.HumanClassifications = make([]models.HumanClassification, len(human))
	for i := range human {
		detail.HumanClassifications[len(human)-1-i] = human[i]
	}

	auto, err := s.Repo.ListPipelineClassifications(ctx, candidateID)
	if err != nil {
		// machine classifications are secondary; the page still renders
		s.logger().Error("list pipeline classifications failed", zap.Int64("tides_id", candidateID), zap.Error(err))
		auto = nil
	}
	detail.PipelineClassifications = nonNil(auto)

	current, err := s.Repo.LatestPipelineClassification(ctx, candidateID, models.ClassifierAggregate)
	if err != nil {
		s.logger().Error("load current auto classification failed", zap.Int64("tides_id", candidateID), zap.Error(err))
	}
	detail.CurrentAutoClassification = current

	products, err := s.Repo.ListDataProducts(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	detail.DataProducts = nonNil(products)
	return detail, nil
}

// Submit validates and stores one human classification. Field errors come
// back in the result; persistence failures as *SubmissionError.
func (s *ClassificationService) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	target, err := s.Repo.GetTarget(ctx, in.CandidateID)
	if err != nil {
		return SubmitResult{}, s.failSubmission(in, err)
	}
	if target == nil {
		return SubmitResult{}, ErrTargetNotFound
	}

	form := in.Form
	form.Normalize()
	if errs := form.Validate(); len(errs) > 0 {
		s.Metrics.RecordSubmission("invalid")
		return SubmitResult{FieldErrors: errs}, nil
	}

	record := &models.HumanClassification{
		CandidateID:   target.CandidateID,
		ObservationID: form.ObservationID,
		SubmitterID:   in.SubmitterID,
		SNType:        form.SNType,
		Redshift:      form.Redshift,
		Subtype:       strPtr(form.Subtype),
		Comments:      strPtr(form.Comments),
		CreatedAt:     s.now(),
	}
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		return s.Repo.InsertHumanClassificationTx(ctx, tx, record)
	})
	if err != nil {
		return SubmitResult{}, s.failSubmission(in, err)
	}

	s.Metrics.RecordSubmission("accepted")
	s.logger().Info("classification submitted",
		zap.Int64("tides_id", record.CandidateID),
		zap.Int64("person_id", record.SubmitterID),
		zap.String("sn_type", record.SNType),
	)
	return SubmitResult{Classification: record}, nil
}

func (s *ClassificationService) failSubmission(in SubmitInput, err error) error {
	ref := uuid.NewString()
	s.Metrics.RecordSubmission("failed")
	s.logger().Error("store classification failed",
		zap.String("ref", ref),
		zap.Int64("tides_id", in.CandidateID),
		zap.Int64("person_id", in.SubmitterID),
		zap.Error(err),
	)
	return &SubmissionError{Ref: ref, Err: err}
}

func (s *ClassificationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ClassificationService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
