//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/api"
	"github.com/OleksandrShtyka/parser/internal/app"
	"github.com/OleksandrShtyka/parser/internal/domain"
)

type fakeEngine struct {
	payload []byte
}

func (e *fakeEngine) Probe(ctx context.Context, url string) (*domain.MediaInfo, error) {
	return &domain.MediaInfo{
		ID:    "vid1",
		Title: "Integration Clip",
		Formats: []domain.Format{
			{FormatID: "18", Ext: "mp4", Resolution: "640x360"},
			{FormatID: "251", Ext: "opus"},
		},
	}, nil
}

func (e *fakeEngine) Fetch(ctx context.Context, url string, opts domain.FetchOptions) (*domain.FetchResult, error) {
	path := filepath.Join(opts.OutputDir, "Integration Clip.mp4")
	if err := os.WriteFile(path, e.payload, 0644); err != nil {
		return nil, err
	}
	return &domain.FetchResult{OutputPath: path}, nil
}

type fakeMailer struct{}

func (fakeMailer) SendVerification(ctx context.Context, email, code, name string) (bool, error) {
	return false, nil
}

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	scratchRoot := t.TempDir()
	engine := &fakeEngine{payload: []byte(strings.Repeat("frame", 2048))}
	downloadCfg := &domain.DownloadConfig{ScratchRoot: scratchRoot}
	engineCfg := &domain.EngineConfig{Binary: "yt-dlp", AcceleratorBinary: "aria2c"}
	orchestrator := app.NewOrchestrator(engine, downloadCfg, engineCfg, zap.NewNop())

	router := api.SetupRouter(engine, orchestrator, fakeMailer{}, zap.NewNop())
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, scratchRoot
}

func TestAPI_InfoThenDownload(t *testing.T) {
	server, scratchRoot := setupTestServer(t)

	resp, err := http.Post(server.URL+"/api/info", "application/json",
		strings.NewReader(`{"url": "https://example.com/v"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info domain.MediaInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.Len(t, info.Formats, 1)

	dlResp, err := http.Get(server.URL + "/api/download?url=https%3A%2F%2Fexample.com%2Fv&format_id=" + info.Formats[0].FormatID)
	require.NoError(t, err)
	defer dlResp.Body.Close()
	require.Equal(t, http.StatusOK, dlResp.StatusCode)

	body, err := io.ReadAll(dlResp.Body)
	require.NoError(t, err)
	assert.Len(t, body, 5*2048)
	assert.Contains(t, dlResp.Header.Get("Content-Disposition"), "Integration Clip.mp4")

	entries, err := os.ReadDir(scratchRoot)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory should be reclaimed after streaming")
}

func TestAPI_HealthAndVerification(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	vResp, err := http.Post(server.URL+"/api/send-verification", "application/json",
		strings.NewReader(`{"email": "a@b.com", "code": "123456"}`))
	require.NoError(t, err)
	defer vResp.Body.Close()
	assert.Equal(t, http.StatusOK, vResp.StatusCode)
}
