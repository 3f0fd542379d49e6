package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidestom/internal/models"
	"tidestom/internal/repository"
)

func seedCandidates(t *testing.T, create func(any) error, ids ...int64) {
	t.Helper()
	seen := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range ids {
		class := "SN Ia"
		require.NoError(t, create(&models.Candidate{
			CandidateID:    id,
			ExternalSNID:   id * 10,
			LastSeen:       &seen,
			Classification: &class,
			ZBest:          f64Ptr(0.05),
		}))
	}
}

func TestCandidateSync_CreatesAndIsIdempotent(t *testing.T) {
	repo, gdb := newTestRepo(t)
	ctx := context.Background()
	seedCandidates(t, func(v any) error { return gdb.Create(v).Error }, 3, 1, 2)

	svc := &CandidateSyncService{Repo: repo, PageSize: 2}
	first, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Candidates)
	assert.Equal(t, 3, first.Created)
	assert.Equal(t, 0, first.Failed)

	second, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Unchanged)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)

	total, err := repo.CountTargets(ctx, repository.ListTargetsParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	target, err := repo.GetTarget(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, "TIDES_2", target.Name)
	assert.Equal(t, models.TargetTypeSidereal, target.Type)
	assert.Equal(t, 0.0, target.RA)
	assert.Equal(t, 0.0, target.Dec)
	assert.Equal(t, int64(20), target.ExternalSNID)
	require.NotNil(t, target.Classification)
	assert.Equal(t, "SN Ia", *target.Classification)
}

func TestCandidateSync_UpdatesChangedCandidate(t *testing.T) {
	repo, gdb := newTestRepo(t)
	ctx := context.Background()
	seedCandidates(t, func(v any) error { return gdb.Create(v).Error }, 1, 2)

	svc := &CandidateSyncService{Repo: repo}
	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	require.NoError(t, gdb.Model(&models.Candidate{}).
		Where("tides_id = ?", 2).
		Update("classification", "TDE").Error)

	res, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Unchanged)

	target, err := repo.GetTarget(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "TDE", *target.Classification)
}

func TestCandidateSync_ReportsStaleWithoutDeleting(t *testing.T) {
	repo, gdb := newTestRepo(t)
	ctx := context.Background()
	seedCandidates(t, func(v any) error { return gdb.Create(v).Error }, 1)
	seedTarget(t, repo, 99)

	res, err := (&CandidateSyncService{Repo: repo}).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Stale)
	assert.Equal(t, []int64{99}, res.StaleSample)

	stale, err := repo.GetTarget(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, stale)
}

func TestCandidateSync_RecordsSyncState(t *testing.T) {
	repo, gdb := newTestRepo(t)
	ctx := context.Background()
	seedCandidates(t, func(v any) error { return gdb.Create(v).Error }, 1, 2)

	_, err := (&CandidateSyncService{Repo: repo}).Sync(ctx)
	require.NoError(t, err)

	state, err := repo.GetSyncState(ctx, models.SyncScopeCandidates)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.NotNil(t, state.LastSuccessAt)
	assert.Nil(t, state.LastError)

	var stats CandidateSyncResult
	require.NoError(t, json.Unmarshal(state.StatsJSON, &stats))
	assert.Equal(t, 2, stats.Created)
}

func TestCandidateSync_EmptyCandidateTable(t *testing.T) {
	repo, _ := newTestRepo(t)
	res, err := (&CandidateSyncService{Repo: repo}).Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CandidateSyncResult{}, res)
}

func TestCandidateSync_CancelledContext(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&CandidateSyncService{Repo: repo}).Sync(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	state, err := repo.GetSyncState(context.Background(), models.SyncScopeCandidates)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.NotNil(t, state.LastError)
	assert.Contains(t, *state.LastError, context.Canceled.Error())
	assert.NotNil(t, state.LastAttemptAt)
	assert.Nil(t, state.LastSuccessAt)
}

func TestCandidateSync_PageSizeAboveRepositoryCap(t *testing.T) {
	repo, gdb := newTestRepo(t)
	ctx := context.Background()
	total := repository.MaxPageSize + 100
	candidates := make([]models.Candidate, 0, total)
	for id := int64(1); id <= int64(total); id++ {
		candidates = append(candidates, models.Candidate{CandidateID: id, ExternalSNID: id * 10})
	}
	require.NoError(t, gdb.CreateInBatches(candidates, 100).Error)

	res, err := (&CandidateSyncService{Repo: repo, PageSize: 2 * repository.MaxPageSize}).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, total, res.Candidates)
	assert.Equal(t, total, res.Created)

	last, err := repo.GetTarget(ctx, int64(total))
	require.NoError(t, err)
	assert.NotNil(t, last)
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 50, clampPageSize(0, 50))
	assert.Equal(t, 50, clampPageSize(-3, 50))
	assert.Equal(t, 20, clampPageSize(20, 50))
	assert.Equal(t, repository.MaxPageSize, clampPageSize(repository.MaxPageSize+1, 50))
}
