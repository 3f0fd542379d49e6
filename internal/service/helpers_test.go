package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tidestom/internal/config"
	"tidestom/internal/db"
	"tidestom/internal/models"
	gormrepository "tidestom/internal/repository/gorm"
)

func newTestRepo(t *testing.T) (*gormrepository.Store, *gorm.DB) {
	t.Helper()
	conn, err := db.Open(config.DBConfig{Driver: db.DriverSQLite})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.AutoMigrate(conn, true))
	return gormrepository.New(conn.Gorm), conn.Gorm
}

func seedTarget(t *testing.T, repo *gormrepository.Store, id int64) *models.Target {
	t.Helper()
	target := MirrorTarget(&models.Candidate{CandidateID: id, ExternalSNID: id * 1000})
	require.NoError(t, repo.SaveTarget(context.Background(), target))
	return target
}

func writeTestFile(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func f64Ptr(v float64) *float64 { return &v }
