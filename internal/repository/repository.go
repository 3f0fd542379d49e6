package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tidestom/internal/models"
)

// MaxPageSize caps the rows any list call returns.
const MaxPageSize = 500

// CandidateRepository reads the externally populated candidate table.
type CandidateRepository interface {
	ListCandidates(ctx context.Context, params ListCandidatesParams) ([]models.Candidate, error)
	CountCandidates(ctx context.Context) (int64, error)
}

type TargetRepository interface {
	GetTarget(ctx context.Context, candidateID int64) (*models.Target, error)
	GetTargetByName(ctx context.Context, name string) (*models.Target, error)
	ListTargets(ctx context.Context, params ListTargetsParams) ([]models.Target, error)
	CountTargets(ctx context.Context, params ListTargetsParams) (int64, error)
	ListTargetsByCandidateIDs(ctx context.Context, candidateIDs []int64) ([]models.Target, error)
	SaveTarget(ctx context.Context, item *models.Target) error
	// ListStaleTargetIDs returns mirrored targets whose candidate no longer exists.
	ListStaleTargetIDs(ctx context.Context, limit int) ([]int64, error)
	CountStaleTargets(ctx context.Context) (int64, error)
}

type ClassificationRepository interface {
	// ListPipelineClassifications orders by probability desc with nulls last.
	ListPipelineClassifications(ctx context.Context, candidateID int64) ([]models.PipelineClassification, error)
	LatestPipelineClassification(ctx context.Context, candidateID int64, classifier string) (*models.PipelineClassification, error)
	PipelineClassificationIsCurrent(ctx context.Context, item *models.PipelineClassification) (bool, error)
	InsertPipelineClassification(ctx context.Context, item *models.PipelineClassification) error

	// ListHumanClassifications orders by submission time, then id.
	ListHumanClassifications(ctx context.Context, candidateID int64, asc bool) ([]models.HumanClassification, error)
	InsertHumanClassificationTx(ctx context.Context, tx *gorm.DB, item *models.HumanClassification) error
}

type SpectrumRepository interface {
	ListSpectra(ctx context.Context, params ListSpectraParams) ([]models.Spectrum, error)
	CountSpectra(ctx context.Context, params ListSpectraParams) (int64, error)
	GetLatestSpectrum(ctx context.Context, candidateID int64) (*models.Spectrum, error)
}

type DataProductRepository interface {
	DataProductExists(ctx context.Context, targetID int64, data string) (bool, error)
	// InsertDataProduct reports false when the (target, data) pair already exists.
	InsertDataProduct(ctx context.Context, item *models.DataProduct) (bool, error)
	ListDataProducts(ctx context.Context, targetID int64) ([]models.DataProduct, error)
}

type SyncStateRepository interface {
	GetSyncState(ctx context.Context, scope string) (*models.SyncState, error)
	SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error
	ListSyncStates(ctx context.Context) ([]models.SyncState, error)
}

type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	CandidateRepository
	TargetRepository
	ClassificationRepository
	SpectrumRepository
	DataProductRepository
	SyncStateRepository
}

// ListCandidatesParams pages by key: rows with tides_id > AfterID, ascending.
type ListCandidatesParams struct {
	AfterID int64
	Limit   int
}

type ListTargetsParams struct {
	Limit   int
	Offset  int
	AfterID *int64
	Name    *string
	OrderBy string
	Asc     *bool
}

type ListSpectraParams struct {
	Limit       int
	Offset      int
	CandidateID *int64
	Since       *time.Time
}
