package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"tidestom/internal/models"
	"tidestom/internal/repository"
	"tidestom/internal/spectrum"
)

const (
	defaultDaysRange      = 30
	defaultLatestPageSize = 200
)

// QueryService answers the read-only views over targets and spectra.
type QueryService struct {
	Repo             repository.Repository
	Spectra          *spectrum.Loader
	Logger           *zap.Logger
	SpectraDir       string
	DefaultDaysRange int
	PageSize         int
	Now              func() time.Time
}

type LatestSpectrum struct {
	Spectrum models.Spectrum `json:"spectrum"`
	Target   *models.Target  `json:"target"`
}

type LatestSpectraPage struct {
	DaysRange int              `json:"days_range"`
	Since     time.Time        `json:"since"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	Total     int64            `json:"total"`
	Items     []LatestSpectrum `json:"items"`
}

// SpectrumView is a parsed spectrum, or a Message explaining why there is
// none to show.
type SpectrumView struct {
	Source     string     `json:"source,omitempty"`
	QMostID    *int64     `json:"qmost_id,omitempty"`
	ObsDate    *time.Time `json:"obs_date,omitempty"`
	FilePath   string     `json:"filepath,omitempty"`
	Format     string     `json:"format,omitempty"`
	Wavelength []float64  `json:"wavelength,omitempty"`
	Flux       []float64  `json:"flux,omitempty"`
	Message    string     `json:"message,omitempty"`
}

const (
	msgNoSpectrum         = "No spectrum available for this target."
	msgSpectrumUnreadable = "The spectrum file could not be read."
)

func (s *QueryService) ListTargets(ctx context.Context, params repository.ListTargetsParams) ([]models.Target, int64, error) {
	items, err := s.Repo.ListTargets(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountTargets(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return nonNil(items), total, nil
}

// LatestSpectra lists spectra observed in the last daysRange days, newest
// first. A negative daysRange selects the default window; page is 1-based.
func (s *QueryService) LatestSpectra(ctx context.Context, daysRange, page int) (LatestSpectraPage, error) {
	if daysRange < 0 {
		daysRange = s.DefaultDaysRange
		if daysRange <= 0 {
			daysRange = defaultDaysRange
		}
	}
	if page < 1 {
		page = 1
	}
	pageSize := clampPageSize(s.PageSize, defaultLatestPageSize)

	since := s.now().AddDate(0, 0, -daysRange)
	params := repository.ListSpectraParams{
		Since:  &since,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	out := LatestSpectraPage{DaysRange: daysRange, Since: since, Page: page, PageSize: pageSize}

	total, err := s.Repo.CountSpectra(ctx, params)
	if err != nil {
		return out, err
	}
	out.Total = total

	rows, err := s.Repo.ListSpectra(ctx, params)
	if err != nil {
		return out, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CandidateID)
	}
	targets, err := s.Repo.ListTargetsByCandidateIDs(ctx, ids)
	if err != nil {
		return out, err
	}
	byID := make(map[int64]*models.Target, len(targets))
	for i := range targets {
		byID[targets[i].CandidateID] = &targets[i]
	}

	out.Items = make([]LatestSpectrum, 0, len(rows))
	for _, row := range rows {
		out.Items = append(out.Items, LatestSpectrum{Spectrum: row, Target: byID[row.CandidateID]})
	}
	return out, nil
}

// TargetSpectrum loads the newest observed spectrum of a target, falling
// back to the newest attached spectroscopy file. Missing or unreadable
// files produce a message, not an error.
func (s *QueryService) TargetSpectrum(ctx context.Context, candidateID int64) (*SpectrumView, error) {
	target, err := s.Repo.GetTarget(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrTargetNotFound
	}

	view := &SpectrumView{}
	latest, err := s.Repo.GetLatestSpectrum(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.FilePath != nil && strings.TrimSpace(*latest.FilePath) != "" {
		view.Source = "tides_spec"
		view.QMostID = &latest.QMostID
		view.ObsDate = latest.ObsDate
		view.FilePath = s.resolvePath(*latest.FilePath)
	} else {
		products, err := s.Repo.ListDataProducts(ctx, candidateID)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			if p.ProductType == models.DataProductSpectroscopy {
				view.Source = "data_product"
				view.FilePath = p.Data
				break
			}
		}
	}
	if view.FilePath == "" {
		view.Message = msgNoSpectrum
		return view, nil
	}

	parsed, err := s.Spectra.Load(view.FilePath)
	if err != nil {
		level := zap.WarnLevel
		if errors.Is(err, os.ErrNotExist) {
			level = zap.InfoLevel
		}
		s.logger().Log(level, "read spectrum failed",
			zap.Int64("tides_id", candidateID),
			zap.String("path", view.FilePath),
			zap.Error(err),
		)
		view.Message = msgSpectrumUnreadable
		return view, nil
	}
	view.Format = parsed.Format
	view.Wavelength = parsed.Wavelength
	view.Flux = parsed.Flux
	return view, nil
}

func (s *QueryService) resolvePath(path string) string {
	path = strings.TrimSpace(path)
	if filepath.IsAbs(path) || strings.TrimSpace(s.SpectraDir) == "" {
		return path
	}
	return filepath.Join(s.SpectraDir, path)
}

func (s *QueryService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *QueryService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
