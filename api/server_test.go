package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

type fakeRunner struct {
	analyzeResult  []models.BrokerProfile
	analyzeErr     error
	discoverResult []models.BrokerProfile
	discoverErr    error

	gotBrokers []models.BrokerInput
	gotStates  []string
	gotPages   int
}

func (f *fakeRunner) AnalyzeBrokers(_ context.Context, brokers []models.BrokerInput) ([]models.BrokerProfile, error) {
	f.gotBrokers = brokers
	return f.analyzeResult, f.analyzeErr
}

func (f *fakeRunner) DiscoverBrokers(_ context.Context, regions []string, maxPages int) ([]models.BrokerProfile, error) {
	f.gotStates = regions
	f.gotPages = maxPages
	return f.discoverResult, f.discoverErr
}

func newTestServer(runner *fakeRunner) *Server {
	return NewServer(runner, zap.NewNop().Sugar(), false)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doJSON(t, newTestServer(&fakeRunner{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyzeBrokersOK(t *testing.T) {
	runner := &fakeRunner{
		analyzeResult: []models.BrokerProfile{{
			Name:       "Alice Smith",
			ProfileURL: "https://traded.co/agent/alice",
			Classification: models.ClassificationResult{
				Good: 4, Bad: 1, PercentGood: 80, Qualifies: true,
			},
		}},
	}
	srv := newTestServer(runner)

	body := `[{"name":"Alice Smith","profile_url":"https://traded.co/agent/alice","company":"Keystone"}]`
	w := doJSON(t, srv, http.MethodPost, "/analyze-brokers", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, runner.gotBrokers, 1)
	assert.Equal(t, "Alice Smith", runner.gotBrokers[0].Name)

	var got []models.BrokerProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.True(t, got[0].Classification.Qualifies)
}

func TestAnalyzeBrokersCoreError(t *testing.T) {
	runner := &fakeRunner{analyzeErr: errors.New("chrome exited: credentials rejected for user x")}
	w := doJSON(t, newTestServer(runner), http.MethodPost, "/analyze-brokers", `[]`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal detail must not leak to the caller.
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestAnalyzeBrokersBadBody(t *testing.T) {
	w := doJSON(t, newTestServer(&fakeRunner{}), http.MethodPost, "/analyze-brokers", `{"not":"a list"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeBrokersEmptyResultIsEmptyArray(t *testing.T) {
	w := doJSON(t, newTestServer(&fakeRunner{}), http.MethodPost, "/analyze-brokers", `[]`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDiscoverBrokersOK(t *testing.T) {
	runner := &fakeRunner{
		discoverResult: []models.BrokerProfile{{Name: "Bob Jones", Region: "Florida"}},
	}
	srv := newTestServer(runner)

	w := doJSON(t, srv, http.MethodPost, "/discover-brokers",
		`{"states":["Florida","Texas"],"max_pages_per_state":3}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Florida", "Texas"}, runner.gotStates)
	assert.Equal(t, 3, runner.gotPages)
}

func TestDiscoverBrokersMissingStates(t *testing.T) {
	w := doJSON(t, newTestServer(&fakeRunner{}), http.MethodPost, "/discover-brokers", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiscoverBrokersCoreError(t *testing.T) {
	runner := &fakeRunner{discoverErr: errors.New("driver init failed")}
	w := doJSON(t, newTestServer(runner), http.MethodPost, "/discover-brokers",
		`{"states":["Florida"]}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}
