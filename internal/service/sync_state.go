package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tidestom/internal/models"
	"tidestom/internal/repository"
)

// ErrTargetNotFound is returned when an operation names a target that is
// not mirrored.
var ErrTargetNotFound = errors.New("target not found")

type syncStateStore interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	repository.SyncStateRepository
}

func writeSyncSuccess(ctx context.Context, store syncStateStore, scope string, now time.Time, stats any) error {
	return store.InTx(ctx, func(tx *gorm.DB) error {
		state := &models.SyncState{
			Scope:         scope,
			LastAttemptAt: &now,
			LastSuccessAt: &now,
			LastError:     nil,
			StatsJSON:     mustJSON(stats),
		}
		return store.SaveSyncStateTx(ctx, tx, state)
	})
}

// writeSyncError records a failed attempt, keeping the previous success time.
// The write survives cancellation of ctx so interrupted runs are recorded.
func writeSyncError(ctx context.Context, store syncStateStore, logger *zap.Logger, scope string, err error) {
	if logger != nil {
		logger.Warn("batch job failed", zap.String("scope", scope), zap.Error(err))
	}
	ctx = context.WithoutCancel(ctx)
	now := time.Now().UTC()
	var lastSuccess *time.Time
	if prev, getErr := store.GetSyncState(ctx, scope); getErr == nil && prev != nil {
		lastSuccess = prev.LastSuccessAt
	}
	saveErr := store.InTx(ctx, func(tx *gorm.DB) error {
		state := &models.SyncState{
			Scope:         scope,
			LastAttemptAt: &now,
			LastSuccessAt: lastSuccess,
			LastError:     strPtr(err.Error()),
		}
		return store.SaveSyncStateTx(ctx, tx, state)
	})
	if saveErr != nil && logger != nil {
		logger.Warn("save sync state failed", zap.String("scope", scope), zap.Error(saveErr))
	}
}

func mustJSON(v any) datatypes.JSON {
	payload, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(payload)
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
