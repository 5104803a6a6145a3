package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhouse-labs/propscore/internal/config"
	"github.com/openhouse-labs/propscore/internal/engine"
	"github.com/openhouse-labs/propscore/internal/model"
	"github.com/openhouse-labs/propscore/internal/store"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	comparisons map[string]model.PropertyComparison
	properties  map[string]model.PropertyAttributes
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		comparisons: make(map[string]model.PropertyComparison),
		properties:  make(map[string]model.PropertyAttributes),
	}
}

func (f *fakeStore) SaveComparison(_ context.Context, name string, properties []model.PropertyAttributes, criteria model.ComparisonCriteria, results []model.ComparisonResult) (*model.PropertyComparison, error) {
	f.nextID++
	pc := model.PropertyComparison{
		ID:         fmt.Sprintf("cmp-%d", f.nextID),
		Name:       name,
		Properties: properties,
		Criteria:   criteria,
		Results:    results,
		CreatedAt:  time.Now().UTC(),
	}
	pc.UpdatedAt = pc.CreatedAt
	f.comparisons[pc.ID] = pc
	return &pc, nil
}

func (f *fakeStore) GetComparison(_ context.Context, id string) (*model.PropertyComparison, error) {
	pc, ok := f.comparisons[id]
	if !ok {
		return nil, eris.Wrapf(store.ErrNotFound, "comparison %s", id)
	}
	return &pc, nil
}

func (f *fakeStore) ListComparisons(_ context.Context, _ store.ComparisonFilter) ([]model.PropertyComparison, error) {
	var out []model.PropertyComparison
	for _, pc := range f.comparisons {
		out = append(out, pc)
	}
	return out, nil
}

func (f *fakeStore) DeleteComparison(_ context.Context, id string) error {
	if _, ok := f.comparisons[id]; !ok {
		return eris.Wrapf(store.ErrNotFound, "comparison %s", id)
	}
	delete(f.comparisons, id)
	return nil
}

func (f *fakeStore) UpsertProperty(_ context.Context, p model.PropertyAttributes) error {
	f.properties[p.ID] = p
	return nil
}

func (f *fakeStore) GetProperty(_ context.Context, id string) (*model.PropertyAttributes, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, eris.Wrapf(store.ErrNotFound, "property %s", id)
	}
	return &p, nil
}

func (f *fakeStore) ListProperties(_ context.Context, _, _ int) ([]model.PropertyAttributes, error) {
	var out []model.PropertyAttributes
	for _, p := range f.properties {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) ImportProperties(ctx context.Context, props []model.PropertyAttributes) (int, error) {
	for _, p := range props {
		if err := f.UpsertProperty(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(props), nil
}

func (f *fakeStore) Migrate(context.Context) error { return nil }
func (f *fakeStore) Close() error                  { return nil }

func newTestServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	s := New(config.ServerConfig{}, engine.New(engine.DefaultConfig()), st)
	ts := httptest.NewServer(s.Handler(t.Context()))
	t.Cleanup(ts.Close)
	return ts
}

func compareBody(t *testing.T, name string) *bytes.Buffer {
	t.Helper()
	req := compareRequest{
		Name: name,
		Properties: []model.PropertyAttributes{
			{ID: "prop-1", Price: 300000, LivingArea: 1500},
			{ID: "prop-2", Price: 400000, LivingArea: 2100},
		},
		Criteria: model.ComparisonCriteria{
			Enabled: map[model.ScoringDimension]bool{
				model.DimensionPrice: true,
				model.DimensionSize:  true,
			},
		},
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCompare_OK(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/v1/compare", "application/json", compareBody(t, ""))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out compareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Results, 2)
	assert.Equal(t, 1, out.Results[0].Rank)
	assert.Equal(t, 2, out.Results[1].Rank)
}

func TestCompare_CohortTooSmall(t *testing.T) {
	ts := newTestServer(t, nil)

	body, err := json.Marshal(compareRequest{
		Properties: []model.PropertyAttributes{{ID: "prop-1", Price: 300000, LivingArea: 1500}},
	})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/v1/compare", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCompare_BadJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/v1/compare", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateComparison(t *testing.T) {
	st := newFakeStore()
	ts := newTestServer(t, st)

	resp, err := http.Post(ts.URL+"/v1/comparisons", "application/json", compareBody(t, "spring shortlist"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var saved model.PropertyComparison
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "spring shortlist", saved.Name)
	assert.Len(t, saved.Results, 2)
	assert.Contains(t, st.comparisons, saved.ID)
}

func TestCreateComparison_NameRequired(t *testing.T) {
	ts := newTestServer(t, newFakeStore())

	resp, err := http.Post(ts.URL+"/v1/comparisons", "application/json", compareBody(t, ""))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateComparison_NoStore(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/v1/comparisons", "application/json", compareBody(t, "x"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetComparison_NotFound(t *testing.T) {
	ts := newTestServer(t, newFakeStore())

	resp, err := http.Get(ts.URL + "/v1/comparisons/nonexistent")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteComparison(t *testing.T) {
	st := newFakeStore()
	saved, err := st.SaveComparison(context.Background(), "x", nil, model.ComparisonCriteria{}, nil)
	require.NoError(t, err)

	ts := newTestServer(t, st)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/v1/comparisons/"+saved.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotContains(t, st.comparisons, saved.ID)
}

func TestPutProperty(t *testing.T) {
	st := newFakeStore()
	ts := newTestServer(t, st)

	body, err := json.Marshal(model.PropertyAttributes{Price: 250000, LivingArea: 1200})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/v1/properties/prop-9", bytes.NewBuffer(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, ok := st.properties["prop-9"]
	require.True(t, ok)
	assert.Equal(t, 250000.0, stored.Price)
}

func TestPutProperty_IDMismatch(t *testing.T) {
	ts := newTestServer(t, newFakeStore())

	body, err := json.Marshal(model.PropertyAttributes{ID: "other", Price: 250000})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/v1/properties/prop-9", bytes.NewBuffer(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportProperties(t *testing.T) {
	st := newFakeStore()
	ts := newTestServer(t, st)

	body := `{"properties":[{"id":"prop-1","price":300000,"livingArea":1500},{"id":"prop-2","price":400000,"livingArea":2100}]}`
	resp, err := http.Post(ts.URL+"/v1/properties/import", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out["imported"])
	assert.Len(t, st.properties, 2)
}

func TestRateLimit(t *testing.T) {
	s := New(config.ServerConfig{RateLimit: 1, RateBurst: 1}, engine.New(engine.DefaultConfig()), nil)
	ts := httptest.NewServer(s.Handler(t.Context()))
	defer ts.Close()

	// Burst of 1: first request passes, second is throttled.
	resp, err := http.Get(ts.URL + "/v1/comparisons")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/v1/comparisons")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestClientLimiters_CleanupStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cl := &clientLimiters{limiters: make(map[string]*clientLimiter), rps: 1, burst: 1}
	done := make(chan struct{})
	go func() {
		cl.cleanupLoop(ctx, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop kept running after cancellation")
	}
}

func TestClientLimiters_EvictsIdleEntries(t *testing.T) {
	cl := &clientLimiters{limiters: make(map[string]*clientLimiter), rps: 1, burst: 1}
	cl.allow("10.0.0.1")
	cl.mu.Lock()
	cl.limiters["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	cl.mu.Unlock()

	go cl.cleanupLoop(t.Context(), 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		cl.mu.Lock()
		defer cl.mu.Unlock()
		return len(cl.limiters) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestRateLimit_SkipsHealth(t *testing.T) {
	s := New(config.ServerConfig{RateLimit: 1, RateBurst: 1}, engine.New(engine.DefaultConfig()), nil)
	ts := httptest.NewServer(s.Handler(t.Context()))
	defer ts.Close()

	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
