package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidestom/internal/models"
	"tidestom/internal/repository"
	"tidestom/internal/spectrum"
)

func TestQueryService_LatestSpectra(t *testing.T) {
	repo, gdb := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	seedTarget(t, repo, 1)

	at := func(days int) *time.Time {
		v := now.AddDate(0, 0, -days)
		return &v
	}
	require.NoError(t, gdb.Create(&[]models.Spectrum{
		{QMostID: 10, CandidateID: 1, ObsDate: at(2)},
		{QMostID: 11, CandidateID: 2, ObsDate: at(10)},
		{QMostID: 12, CandidateID: 1, ObsDate: at(45)},
	}).Error)

	svc := &QueryService{Repo: repo, Now: func() time.Time { return now }}

	page, err := svc.LatestSpectra(ctx, -1, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, page.DaysRange)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(10), page.Items[0].Spectrum.QMostID)
	require.NotNil(t, page.Items[0].Target)
	assert.Equal(t, "TIDES_1", page.Items[0].Target.Name)
	assert.Nil(t, page.Items[1].Target)

	page, err = svc.LatestSpectra(ctx, 60, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = svc.LatestSpectra(ctx, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(1), page.Total)
}

func TestQueryService_LatestSpectraPaging(t *testing.T) {
	repo, gdb := newTestRepo(t)
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 3; i++ {
		obs := now.Add(-time.Duration(i) * time.Hour)
		require.NoError(t, gdb.Create(&models.Spectrum{QMostID: i, CandidateID: i, ObsDate: &obs}).Error)
	}
	svc := &QueryService{Repo: repo, PageSize: 2, Now: func() time.Time { return now }}

	page, err := svc.LatestSpectra(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Items[0].Spectrum.QMostID)
}

func TestQueryService_LatestSpectraPageSizeCapped(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := &QueryService{Repo: repo, PageSize: 5 * repository.MaxPageSize}

	page, err := svc.LatestSpectra(context.Background(), -1, 3)
	require.NoError(t, err)
	assert.Equal(t, repository.MaxPageSize, page.PageSize)
}

func TestQueryService_TargetSpectrum(t *testing.T) {
	repo, gdb := newTestRepo(t)
	ctx := context.Background()
	dir := t.TempDir()
	seedTarget(t, repo, 1)
	seedTarget(t, repo, 2)
	seedTarget(t, repo, 3)
	seedTarget(t, repo, 4)

	writeTestFile(t, filepath.Join(dir, "obs1.txt"), "5000 1\n5001 2\n")
	obs := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rel := "obs1.txt"
	missing := "gone.txt"
	require.NoError(t, gdb.Create(&[]models.Spectrum{
		{QMostID: 1, CandidateID: 1, ObsDate: &obs, FilePath: &rel},
		{QMostID: 2, CandidateID: 2, ObsDate: &obs, FilePath: &missing},
	}).Error)
	attached := writeTestFile(t, filepath.Join(dir, "attached.dat"), "6000 3\n")
	_, err := repo.InsertDataProduct(ctx, &models.DataProduct{TargetID: 4, Data: attached, ProductType: models.DataProductSpectroscopy})
	require.NoError(t, err)

	svc := &QueryService{Repo: repo, Spectra: spectrum.NewLoader(time.Minute), SpectraDir: dir}

	view, err := svc.TargetSpectrum(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, view.Message)
	assert.Equal(t, []float64{5000, 5001}, view.Wavelength)
	assert.Equal(t, []float64{1, 2}, view.Flux)
	assert.Equal(t, "tides_spec", view.Source)

	view, err = svc.TargetSpectrum(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, msgSpectrumUnreadable, view.Message)
	assert.Empty(t, view.Flux)

	view, err = svc.TargetSpectrum(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, msgNoSpectrum, view.Message)

	view, err = svc.TargetSpectrum(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "data_product", view.Source)
	assert.Equal(t, []float64{6000}, view.Wavelength)

	_, err = svc.TargetSpectrum(ctx, 404)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestQueryService_ListTargets(t *testing.T) {
	repo, _ := newTestRepo(t)
	for _, id := range []int64{1, 2, 3} {
		seedTarget(t, repo, id)
	}
	svc := &QueryService{Repo: repo}

	items, total, err := svc.ListTargets(context.Background(), repository.ListTargetsParams{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)
}
