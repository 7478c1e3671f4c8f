package provisioner

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/provisioner/api"
)

func testServer(t *testing.T) (*httptest.Server, *Config) {
	t.Helper()
	cfg := testConfig(t)
	handler := NewHandler(New(cfg, discardLogger()), discardLogger())

	mux := chi.NewRouter()
	handler.RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func postProvision(t *testing.T, url string, req api.ProvisionRequest) *http.Response {
	t.Helper()
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleProvision_Success(t *testing.T) {
	srv, _ := testServer(t)

	resp := postProvision(t, srv.URL+"/api/provision", testRequest())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "https://acmecorp.example.com/auth/login/tok123", string(body))
}

func TestHandleProvision_LegacyRootRoute(t *testing.T) {
	srv, _ := testServer(t)

	resp := postProvision(t, srv.URL+"/", testRequest())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleProvision_Duplicate(t *testing.T) {
	srv, _ := testServer(t)

	resp := postProvision(t, srv.URL+"/api/provision", testRequest())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postProvision(t, srv.URL+"/api/provision", testRequest())
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var dup api.DuplicateSiteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dup))
	assert.Equal(t, "Site acmecorp.example.com already exists", dup.Message)
}

func TestHandleProvision_BadRequests(t *testing.T) {
	srv, _ := testServer(t)

	invalidIdentity := testRequest()
	invalidIdentity.Company.Name = "!!!"
	resp := postProvision(t, srv.URL+"/api/provision", invalidIdentity)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	missingPlans := testRequest()
	missingPlans.Plans = nil
	resp = postProvision(t, srv.URL+"/api/provision", missingPlans)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleProvision_MalformedBody(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/api/provision", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleProvision_InternalFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.SecretKey = "" // fails settings validation
	handler := NewHandler(New(cfg, discardLogger()), discardLogger())

	mux := chi.NewRouter()
	handler.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp := postProvision(t, srv.URL+"/api/provision", testRequest())
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestClient_Provision(t *testing.T) {
	srv, _ := testServer(t)
	client := &Client{ServerAddr: srv.URL}

	loginURL, err := client.Provision(testRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://acmecorp.example.com/auth/login/tok123", loginURL)

	_, err = client.Provision(testRequest())
	var dup *api.DuplicateSiteError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "acmecorp.example.com", dup.Address)
}
