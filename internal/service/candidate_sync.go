package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tidestom/internal/metrics"
	"tidestom/internal/models"
	"tidestom/internal/repository"
)

const (
	defaultSyncPageSize = 500
	staleSampleSize     = 20
)

// CandidateSyncService mirrors every candidate into the target table.
type CandidateSyncService struct {
	Repo     repository.Repository
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	PageSize int
}

type CandidateSyncResult struct {
	Candidates  int     `json:"candidates"`
	Created     int     `json:"created"`
	Updated     int     `json:"updated"`
	Unchanged   int     `json:"unchanged"`
	Failed      int     `json:"failed"`
	Stale       int64   `json:"stale"`
	StaleSample []int64 `json:"stale_sample,omitempty"`
}

// Sync upserts one target per candidate. Running it twice without candidate
// changes writes nothing the second time. Targets whose candidate vanished
// are reported, never deleted.
func (s *CandidateSyncService) Sync(ctx context.Context) (CandidateSyncResult, error) {
	started := time.Now()
	defer func() { s.Metrics.ObserveJob(metrics.JobCandidateSync, time.Since(started)) }()

	pageSize := clampPageSize(s.PageSize, defaultSyncPageSize)

	var result CandidateSyncResult
	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			writeSyncError(ctx, s.Repo, s.Logger, models.SyncScopeCandidates, err)
			return result, err
		}
		page, err := s.Repo.ListCandidates(ctx, repository.ListCandidatesParams{AfterID: afterID, Limit: pageSize})
		if err != nil {
			writeSyncError(ctx, s.Repo, s.Logger, models.SyncScopeCandidates, err)
			return result, err
		}
		for i := range page {
			s.syncOne(ctx, &page[i], &result)
		}
		if len(page) == 0 {
			break
		}
		afterID = page[len(page)-1].CandidateID
		if len(page) < pageSize {
			break
		}
	}

	stale, err := s.Repo.CountStaleTargets(ctx)
	if err != nil {
		s.logger().Warn("count stale targets failed", zap.Error(err))
	} else if stale > 0 {
		result.Stale = stale
		sample, err := s.Repo.ListStaleTargetIDs(ctx, staleSampleSize)
		if err != nil {
			s.logger().Warn("list stale targets failed", zap.Error(err))
		}
		result.StaleSample = sample
		s.logger().Warn("targets without candidate",
			zap.Int64("stale", stale),
			zap.Int64s("sample", sample),
		)
	}

	s.Metrics.AddSyncCandidates("created", result.Created)
	s.Metrics.AddSyncCandidates("updated", result.Updated)
	s.Metrics.AddSyncCandidates("unchanged", result.Unchanged)
	s.Metrics.AddSyncCandidates("failed", result.Failed)

	if err := writeSyncSuccess(ctx, s.Repo, models.SyncScopeCandidates, time.Now().UTC(), result); err != nil {
		s.logger().Warn("save sync state failed", zap.Error(err))
	}
	s.logger().Info("synced candidates to target table",
		zap.Int("candidates", result.Candidates),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("failed", result.Failed),
		zap.Int64("stale", result.Stale),
	)
	return result, nil
}

func (s *CandidateSyncService) syncOne(ctx context.Context, cand *models.Candidate, result *CandidateSyncResult) {
	result.Candidates++
	desired := MirrorTarget(cand)

	existing, err := s.Repo.GetTarget(ctx, cand.CandidateID)
	if err != nil {
		result.Failed++
		s.logger().Error("load target failed", zap.Int64("tides_id", cand.CandidateID), zap.Error(err))
		return
	}
	if existing != nil && sameMirror(existing, desired) {
		result.Unchanged++
		return
	}
	if err := s.Repo.SaveTarget(ctx, desired); err != nil {
		result.Failed++
		s.logger().Error("save target failed", zap.Int64("tides_id", cand.CandidateID), zap.Error(err))
		return
	}
	if existing == nil {
		result.Created++
	} else {
		result.Updated++
	}
}

// clampPageSize applies fallback to unset sizes and caps the rest at what a
// single repository call returns, so a short page always means the end.
func clampPageSize(size, fallback int) int {
	if size <= 0 {
		size = fallback
	}
	return min(size, repository.MaxPageSize)
}

func (s *CandidateSyncService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// MirrorTarget builds the target row for a candidate. Coordinates are
// placeholders; the candidate table carries none.
func MirrorTarget(cand *models.Candidate) *models.Target {
	return &models.Target{
		CandidateID:    cand.CandidateID,
		Name:           models.TargetName(cand.CandidateID),
		Type:           models.TargetTypeSidereal,
		RA:             0,
		Dec:            0,
		ExternalSNID:   cand.ExternalSNID,
		HostID:         cand.HostID,
		LastSeen:       cand.LastSeen,
		Classification: cand.Classification,
		ZBest:          cand.ZBest,
		ZSN:            cand.ZSN,
		ZGal:           cand.ZGal,
		ZSource:        cand.ZSource,
		Confidence:     cand.Confidence,
	}
}

func sameMirror(a, b *models.Target) bool {
	return a.Name == b.Name &&
		a.Type == b.Type &&
		a.RA == b.RA &&
		a.Dec == b.Dec &&
		a.ExternalSNID == b.ExternalSNID &&
		equalPtr(a.HostID, b.HostID) &&
		equalTimePtr(a.LastSeen, b.LastSeen) &&
		equalPtr(a.Classification, b.Classification) &&
		equalPtr(a.ZBest, b.ZBest) &&
		equalPtr(a.ZSN, b.ZSN) &&
		equalPtr(a.ZGal, b.ZGal) &&
		equalPtr(a.ZSource, b.ZSource) &&
		equalPtr(a.Confidence, b.Confidence)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
