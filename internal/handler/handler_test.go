package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidestom/internal/auth"
	"tidestom/internal/config"
	"tidestom/internal/db"
	"tidestom/internal/models"
	gormrepository "tidestom/internal/repository/gorm"
	"tidestom/internal/service"
	"tidestom/internal/taxonomy"
)

type testServer struct {
	engine *gin.Engine
	store  *gormrepository.Store
	conn   *db.DB
}

func newTestServer(t *testing.T, authn *auth.Authenticator) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.Open(config.DBConfig{Driver: db.DriverSQLite})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.AutoMigrate(conn, true))
	store := gormrepository.New(conn.Gorm)

	tax := taxonomy.Default()
	query := &service.QueryService{Repo: store}
	classifications := &service.ClassificationService{Repo: store}
	flash := NewFlashStore(config.SessionConfig{Secret: "test-secret-test-secret", MaxAge: 600})

	var guard gin.HandlerFunc
	if authn != nil {
		guard = authn.RequireSubmitter()
	} else {
		guard = auth.Authenticator{AnonymousSubmitterID: 7}.RequireSubmitter()
	}

	r := gin.New()
	(&HealthHandler{DB: conn}).Register(r)
	(&TargetHandler{
		Query:            query,
		Classifications:  classifications,
		Taxonomy:         tax,
		Flash:            flash,
		RequireSubmitter: guard,
	}).Register(r)
	(&SpectraHandler{Query: query}).Register(r)
	(&ClassificationHandler{Taxonomy: tax}).Register(r)
	(&SyncHandler{Service: &service.CandidateSyncService{Repo: store}, RequireSubmitter: guard}).Register(r)
	RegisterDocs(r)
	return &testServer{engine: r, store: store, conn: conn}
}

func (s *testServer) seedTarget(t *testing.T, id int64) {
	t.Helper()
	target := service.MirrorTarget(&models.Candidate{CandidateID: id, ExternalSNID: id * 100})
	require.NoError(t, s.store.SaveTarget(context.Background(), target))
}

func (s *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type detailBody struct {
	Target               models.Target                `json:"target"`
	HumanClassifications []models.HumanClassification `json:"human_classifications"`
	Aggregation          *service.Aggregation         `json:"aggregated_human_class"`
	Flashes              []Flash                      `json:"flashes"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestTargetDetail_NotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/targets/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/targets/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitClassification_SuccessFlashesOnce(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedTarget(t, 1)

	rec := s.do(postForm("/api/targets/1/classifications", url.Values{
		"sn_type":  {"SN Ia"},
		"subtype":  {"Ia-norm"},
		"comments": {" looks normal "},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/api/targets/1", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/targets/1", nil), cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var body detailBody
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.Equal(t, "TIDES_1", body.Target.Name)
	require.Len(t, body.HumanClassifications, 1)
	hc := body.HumanClassifications[0]
	assert.Equal(t, "SN Ia", hc.SNType)
	assert.Equal(t, int64(7), hc.SubmitterID)
	require.NotNil(t, hc.Comments)
	assert.Equal(t, "looks normal", *hc.Comments)
	require.NotNil(t, body.Aggregation)
	assert.Equal(t, "SN Ia", body.Aggregation.MostCommonClass)
	require.Len(t, body.Flashes, 1)
	assert.Equal(t, FlashSuccess, body.Flashes[0].Level)

	// the popped flash is gone on the next view
	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/targets/1", nil), rec.Result().Cookies()...)
	require.Equal(t, http.StatusOK, rec.Code)
	body = detailBody{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.Empty(t, body.Flashes)
}

func TestSubmitClassification_InvalidFormNotPersisted(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedTarget(t, 2)

	rec := s.do(postForm("/api/targets/2/classifications", url.Values{"sn_type": {"Other"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/targets/2", nil), rec.Result().Cookies()...)
	var body detailBody
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.Empty(t, body.HumanClassifications)
	assert.Nil(t, body.Aggregation)
	require.Len(t, body.Flashes, 1)
	assert.Equal(t, FlashError, body.Flashes[0].Level)
	assert.Contains(t, body.Flashes[0].Fields, "redshift")
}

func TestSubmitClassification_JSONBody(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedTarget(t, 3)

	req := httptest.NewRequest(http.MethodPost, "/api/targets/3/classifications",
		strings.NewReader(`{"sn_type":"Other","redshift":0.12,"comments":"odd"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	items, err := s.store.ListHumanClassifications(context.Background(), 3, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Redshift)
	assert.InDelta(t, 0.12, *items[0].Redshift, 1e-9)
}

func TestSubmitClassification_MissingTarget(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(postForm("/api/targets/404/classifications", url.Values{"sn_type": {"SN Ia"}}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitClassification_RequiresToken(t *testing.T) {
	signer := auth.JWT{Secret: []byte("handler-test-secret"), TokenTTL: time.Hour}
	s := newTestServer(t, &auth.Authenticator{JWT: signer, Enabled: true})
	s.seedTarget(t, 4)

	rec := s.do(postForm("/api/targets/4/classifications", url.Values{"sn_type": {"SN II"}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := signer.Sign(auth.Claims{SubmitterID: 42})
	require.NoError(t, err)
	req := postForm("/api/targets/4/classifications", url.Values{"sn_type": {"SN II"}})
	req.Header.Set("Authorization", "Bearer "+token)
	rec = s.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	items, err := s.store.ListHumanClassifications(context.Background(), 4, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(42), items[0].SubmitterID)
}

func TestClassificationForm(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedTarget(t, 5)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/targets/5/classification-form", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var form classificationFormResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &form))
	assert.Equal(t, "/api/targets/5/classifications", form.Action)
	assert.Contains(t, form.MainClasses, "Other")

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/targets/6/classification-form", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTargetSpectrum_MessageWhenMissing(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedTarget(t, 8)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/targets/8/spectrum", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var view service.SpectrumView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &view))
	assert.NotEmpty(t, view.Message)
	assert.Empty(t, view.Flux)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/targets/9/spectrum", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTargets(t *testing.T) {
	s := newTestServer(t, nil)
	for id := int64(1); id <= 3; id++ {
		s.seedTarget(t, id)
	}

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/targets?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	var items []models.Target
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 2)
	assert.Equal(t, float64(3), env.Meta["total"])
	assert.Equal(t, true, env.Meta["has_next"])
}

func TestLatestSpectra_DaysRangeFallback(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedTarget(t, 1)
	recent := time.Now().UTC().Add(-24 * time.Hour)
	old := time.Now().UTC().AddDate(0, 0, -40)
	require.NoError(t, s.conn.Gorm.Create(&[]models.Spectrum{
		{QMostID: 1, CandidateID: 1, ObsDate: &recent},
		{QMostID: 2, CandidateID: 1, ObsDate: &old},
	}).Error)

	cases := []struct {
		query string
		days  float64
		total float64
	}{
		{"", 30, 1},
		{"?days_range=abc", 30, 1},
		{"?days_range=-3", 30, 1},
		{"?days_range=60", 60, 2},
	}
	for _, tc := range cases {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/spectra/latest"+tc.query, nil))
		require.Equal(t, http.StatusOK, rec.Code, tc.query)
		env := decode(t, rec)
		assert.Equal(t, tc.days, env.Meta["days_range"], tc.query)
		assert.Equal(t, tc.total, env.Meta["total"], tc.query)
	}
}

func TestSubclasses(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/classifications/subclasses?main_class="+url.QueryEscape("SN Ia"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var subs []string
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &subs))
	assert.Contains(t, subs, "Ia-norm")

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/classifications/subclasses?main_class=Unknown", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decode(t, rec).Data))

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/classifications/main", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var mains []string
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &mains))
	assert.Equal(t, "SN Ia", mains[0])
}

func TestSyncCandidates(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.conn.Gorm.Create(&[]models.Candidate{
		{CandidateID: 1, ExternalSNID: 100},
		{CandidateID: 2, ExternalSNID: 200},
	}).Error)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/api/sync/candidates", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var result service.CandidateSyncResult
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.Equal(t, 2, result.Created)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/sync/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var states []models.SyncState
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &states))
	require.Len(t, states, 1)
	assert.Equal(t, "candidates", states[0].Scope)
}

func TestDocs(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/targets/{id}/classifications")
}
