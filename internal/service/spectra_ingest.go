package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tidestom/internal/metrics"
	"tidestom/internal/models"
	"tidestom/internal/repository"
	"tidestom/internal/spectrum"
	"tidestom/internal/taxonomy"
)

const (
	IngestModeMock     = "mock"
	IngestModePipeline = "pipeline"

	mockClassPrefix    = "AutoClass_"
	mockSubclassPrefix = "AutoClass_SubClass_"
	mockProbPrefix     = "AutoClassProb_"

	colObjName         = "obj_name"
	colSpectrumFile    = "spectrum_file"
	colAutoClass       = "auto_class_agg"
	colAutoSubclass    = "auto_class_subclass_agg"
	colAutoProbability = "auto_class_prob_agg"

	ingestPageSize = repository.MaxPageSize
)

// SpectraIngestService attaches spectrum files to targets and appends the
// machine classifications that come with them.
type SpectraIngestService struct {
	Repo     repository.Repository
	Taxonomy *taxonomy.Taxonomy
	Spectra  *spectrum.Loader
	Metrics  *metrics.Metrics
	Logger   *zap.Logger

	TestDir             string
	MockCatalogue       string
	MockSpectrumPattern string
}

type IngestResult struct {
	Mode            string `json:"mode"`
	Rows            int    `json:"rows"`
	Attached        int    `json:"attached"`
	AlreadyAttached int    `json:"already_attached"`
	Classifications int    `json:"classifications"`
	Duplicates      int    `json:"duplicates"`
	Skipped         int    `json:"skipped"`
	Failed          int    `json:"failed"`
}

// IngestMock walks every mirrored target, attaches its simulated spectrum
// and copies the per-classifier verdicts of the mock catalogue. A missing
// catalogue is logged and ends the run without error.
func (s *SpectraIngestService) IngestMock(ctx context.Context) (IngestResult, error) {
	started := time.Now()
	defer func() { s.Metrics.ObserveJob(metrics.JobIngestMock, time.Since(started)) }()

	result := IngestResult{Mode: IngestModeMock}
	catalogue, err := readMockCatalogue(s.MockCatalogue)
	if errors.Is(err, os.ErrNotExist) {
		s.logger().Error("mock catalogue not found", zap.String("path", s.MockCatalogue))
		return result, nil
	}
	if err != nil {
		writeSyncError(ctx, s.Repo, s.Logger, models.SyncScopeIngestMock, err)
		return result, err
	}
	s.logger().Info("loaded mock catalogue",
		zap.String("path", s.MockCatalogue),
		zap.Int("rows", len(catalogue.rows)),
		zap.Strings("classifiers", catalogue.classifiers),
	)

	asc := true
	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			writeSyncError(ctx, s.Repo, s.Logger, models.SyncScopeIngestMock, err)
			return result, err
		}
		targets, err := s.Repo.ListTargets(ctx, repository.ListTargetsParams{
			AfterID: &afterID,
			Limit:   ingestPageSize,
			OrderBy: "tides_id",
			Asc:     &asc,
		})
		if err != nil {
			writeSyncError(ctx, s.Repo, s.Logger, models.SyncScopeIngestMock, err)
			return result, err
		}
		for i := range targets {
			outcome := s.ingestMockTarget(ctx, &targets[i], catalogue, &result)
			s.Metrics.RecordIngestRow(IngestModeMock, outcome)
		}
		if len(targets) < ingestPageSize {
			break
		}
		afterID = targets[len(targets)-1].CandidateID
	}

	s.finish(ctx, models.SyncScopeIngestMock, result)
	return result, nil
}

func (s *SpectraIngestService) ingestMockTarget(ctx context.Context, target *models.Target, catalogue *mockCatalogue, result *IngestResult) string {
	result.Rows++
	log := s.logger().With(zap.String("target", target.Name))

	path := filepath.Join(s.TestDir, fmt.Sprintf(s.mockPattern(), target.Name))
	if !fileExists(path) {
		log.Warn("spectrum file not found", zap.String("path", path))
		result.Skipped++
		return "skipped"
	}
	if err := s.attach(ctx, target, path, result); err != nil {
		log.Error("attach spectrum failed", zap.String("path", path), zap.Error(err))
		result.Failed++
		return "failed"
	}

	row, ok := catalogue.lookup(target)
	if !ok {
		log.Warn("target not found in mock catalogue")
		return "processed"
	}
	for _, classifier := range catalogue.classifiers {
		class := cleanCell(row[mockClassPrefix+classifier])
		if class == "" {
			log.Warn("no classification in mock catalogue", zap.String("classifier", classifier))
			continue
		}
		rec := &models.PipelineClassification{
			CandidateID: target.CandidateID,
			Source:      models.ClassificationSourceMock,
			Classifier:  classifier,
			SNType:      &class,
			Subclass:    strPtr(cleanCell(row[mockSubclassPrefix+classifier])),
			Probability: s.parseProbability(log, row[mockProbPrefix+classifier]),
		}
		if err := s.appendClassification(ctx, rec, result); err != nil {
			log.Error("store classification failed", zap.String("classifier", classifier), zap.Error(err))
			result.Failed++
			return "failed"
		}
	}
	return "processed"
}

// IngestPipeline reads a pipeline results CSV. A missing file or a file
// without obj_name/spectrum_file columns is a configuration error and halts
// the run; bad rows are skipped.
func (s *SpectraIngestService) IngestPipeline(ctx context.Context, path string) (IngestResult, error) {
	started := time.Now()
	defer func() { s.Metrics.ObserveJob(metrics.JobIngestPipeline, time.Since(started)) }()

	result := IngestResult{Mode: IngestModePipeline}
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("open pipeline results: %w", err)
		writeSyncError(ctx, s.Repo, s.Logger, models.SyncScopeIngestPipeline, err)
		return result, err
	}
	defer f.Close()

	reader := newCSVReader(f)
	header, err := reader.Read()
	if err != nil {
		err = fmt.Errorf("read pipeline results header: %w", err)
		writeSyncError(ctx, s.Repo, s.Logger, models.SyncScopeIngestPipeline, err)
		return result, err
	}
	cols := indexHeader(header)
	for _, required := range []string{colObjName, colSpectrumFile} {
		if _, ok := cols[required]; !ok {
			err := fmt.Errorf("pipeline results %s: missing column %q", path, required)
			writeSyncError(ctx, s.Repo, s.Logger, models.SyncScopeIngestPipeline, err)
			return result, err
		}
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			writeSyncError(ctx, s.Repo, s.Logger, models.SyncScopeIngestPipeline, err)
			return result, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			s.logger().Warn("malformed pipeline row", zap.Int("line", line), zap.Error(err))
			result.Rows++
			result.Skipped++
			s.Metrics.RecordIngestRow(IngestModePipeline, "skipped")
			continue
		}
		row := make(map[string]string, len(cols))
		for name, idx := range cols {
			if idx < len(record) {
				row[name] = record[idx]
			}
		}
		outcome := s.ingestPipelineRow(ctx, row, &result)
		s.Metrics.RecordIngestRow(IngestModePipeline, outcome)
	}

	s.finish(ctx, models.SyncScopeIngestPipeline, result)
	return result, nil
}

func (s *SpectraIngestService) ingestPipelineRow(ctx context.Context, row map[string]string, result *IngestResult) string {
	result.Rows++
	objName := strings.TrimSpace(row[colObjName])
	path := strings.TrimSpace(row[colSpectrumFile])
	log := s.logger().With(zap.String("target", objName))

	target, err := s.Repo.GetTargetByName(ctx, objName)
	if err != nil {
		log.Error("load target failed", zap.Error(err))
		result.Failed++
		return "failed"
	}
	if target == nil {
		log.Warn("target not found")
		result.Skipped++
		return "skipped"
	}
	if path == "" || !fileExists(path) {
		log.Warn("spectrum file not found", zap.String("path", path))
		result.Skipped++
		return "skipped"
	}
	if err := s.attach(ctx, target, path, result); err != nil {
		log.Error("attach spectrum failed", zap.String("path", path), zap.Error(err))
		result.Failed++
		return "failed"
	}

	class := cleanCell(row[colAutoClass])
	if class == "" {
		log.Warn("no auto classification")
		return "processed"
	}
	rec := &models.PipelineClassification{
		CandidateID: target.CandidateID,
		Source:      models.ClassificationSourcePipeline,
		Classifier:  models.ClassifierAggregate,
		SNType:      &class,
		Subclass:    s.resolveSubclass(log, cleanCell(row[colAutoSubclass])),
		Probability: s.parseProbability(log, row[colAutoProbability]),
	}
	if err := s.appendClassification(ctx, rec, result); err != nil {
		log.Error("store classification failed", zap.Error(err))
		result.Failed++
		return "failed"
	}
	return "processed"
}

// attach records path as a spectroscopy data product of target unless it is
// already attached. Unparseable files are still attached without a summary.
func (s *SpectraIngestService) attach(ctx context.Context, target *models.Target, path string, result *IngestResult) error {
	exists, err := s.Repo.DataProductExists(ctx, target.CandidateID, path)
	if err != nil {
		return err
	}
	if exists {
		s.logger().Info("spectrum already attached", zap.String("target", target.Name), zap.String("path", path))
		result.AlreadyAttached++
		return nil
	}

	product := &models.DataProduct{
		TargetID:    target.CandidateID,
		Data:        path,
		ProductType: models.DataProductSpectroscopy,
	}
	if parsed, err := s.Spectra.Load(path); err != nil {
		s.logger().Warn("parse spectrum failed", zap.String("target", target.Name), zap.String("path", path), zap.Error(err))
		product.Metadata = mustJSON(map[string]any{"error": err.Error()})
	} else {
		product.Metadata = mustJSON(parsed.Summary())
	}

	inserted, err := s.Repo.InsertDataProduct(ctx, product)
	if err != nil {
		return err
	}
	if !inserted {
		result.AlreadyAttached++
		return nil
	}
	result.Attached++
	s.logger().Info("attached spectrum", zap.String("target", target.Name), zap.String("path", path))
	return nil
}

// appendClassification stores rec unless it repeats the current verdict of
// its classifier. A verdict that changed back to an earlier value is stored
// again so it becomes current.
func (s *SpectraIngestService) appendClassification(ctx context.Context, rec *models.PipelineClassification, result *IngestResult) error {
	current, err := s.Repo.PipelineClassificationIsCurrent(ctx, rec)
	if err != nil {
		return err
	}
	if current {
		result.Duplicates++
		return nil
	}
	if err := s.Repo.InsertPipelineClassification(ctx, rec); err != nil {
		return err
	}
	result.Classifications++
	return nil
}

func (s *SpectraIngestService) resolveSubclass(log *zap.Logger, subclass string) *string {
	if subclass == "" {
		return nil
	}
	if s.Taxonomy != nil {
		if _, ok := s.Taxonomy.Resolve(subclass); ok {
			return &subclass
		}
	}
	log.Warn("subclass not in taxonomy", zap.String("subclass", subclass))
	return nil
}

func (s *SpectraIngestService) parseProbability(log *zap.Logger, raw string) *float64 {
	raw = cleanCell(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		log.Warn("invalid probability", zap.String("value", raw))
		return nil
	}
	return &v
}

func (s *SpectraIngestService) finish(ctx context.Context, scope string, result IngestResult) {
	if err := writeSyncSuccess(ctx, s.Repo, scope, time.Now().UTC(), result); err != nil {
		s.logger().Warn("save sync state failed", zap.Error(err))
	}
	s.logger().Info("spectra ingest finished",
		zap.String("mode", result.Mode),
		zap.Int("rows", result.Rows),
		zap.Int("attached", result.Attached),
		zap.Int("already_attached", result.AlreadyAttached),
		zap.Int("classifications", result.Classifications),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
}

func (s *SpectraIngestService) mockPattern() string {
	if strings.Contains(s.MockSpectrumPattern, "%s") {
		return s.MockSpectrumPattern
	}
	return "sims/l1_obs_joined_%s.fits"
}

func (s *SpectraIngestService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

type mockCatalogue struct {
	classifiers []string
	rows        map[string]map[string]string
}

// readMockCatalogue loads a CSV whose first column is the target index.
func readMockCatalogue(path string) (*mockCatalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := newCSVReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read mock catalogue header: %w", err)
	}
	cols := indexHeader(header)

	out := &mockCatalogue{rows: map[string]map[string]string{}}
	for _, name := range header[1:] {
		name = strings.TrimSpace(name)
		if !strings.HasPrefix(name, mockClassPrefix) {
			continue
		}
		classifier := strings.TrimPrefix(name, mockClassPrefix)
		_, hasSub := cols[mockSubclassPrefix+classifier]
		_, hasProb := cols[mockProbPrefix+classifier]
		if classifier != "" && hasSub && hasProb {
			out.classifiers = append(out.classifiers, classifier)
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read mock catalogue: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		row := make(map[string]string, len(cols))
		for name, idx := range cols {
			if idx < len(record) {
				row[name] = record[idx]
			}
		}
		out.rows[normalizeIndex(record[0])] = row
	}
	return out, nil
}

// lookup matches the catalogue index against the candidate id, then the
// full target name.
func (c *mockCatalogue) lookup(target *models.Target) (map[string]string, bool) {
	if row, ok := c.rows[strconv.FormatInt(target.CandidateID, 10)]; ok {
		return row, true
	}
	row, ok := c.rows[normalizeIndex(target.Name)]
	return row, ok
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

// normalizeIndex maps "12", "12.0" and " 12 " to the same key.
func normalizeIndex(raw string) string {
	raw = strings.TrimSpace(raw)
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatInt(int64(v), 10)
	}
	return raw
}

// cleanCell treats empty and NaN-like cells as missing.
func cleanCell(raw string) string {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "nan", "none", "null":
		return ""
	}
	return raw
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
