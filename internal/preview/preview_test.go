package preview

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectsol/solclient/internal/api"
	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/lint"
	"github.com/projectsol/solclient/internal/writeup"
)

type plainRenderer struct{}

func (plainRenderer) Writeup(markdown string, mission *api.Mission) writeup.Document {
	if mission != nil {
		markdown = strings.ReplaceAll(markdown, "{{CONTAINER_HOST}}", mission.URL)
	}
	return writeup.Render(writeup.Sanitize(markdown))
}

type countingLinter struct {
	mu    sync.Mutex
	calls int
}

func (l *countingLinter) LintContent(name string, content []byte) (*lint.Result, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return lint.NewLinter(nil).LintContent(name, content)
}

func writeWriteup(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func get(t *testing.T, url string) string {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, url, http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.md"), plainRenderer{}, Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))

	_, err = New(t.TempDir(), plainRenderer{}, Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestRefresh_RendersAndLints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.md")
	writeWriteup(t, path, "# Recon\n\nHit {{CONTAINER_HOST}} with <script>\n")

	linter := &countingLinter{}
	p, err := New(path, plainRenderer{}, Options{
		Mission: &api.Mission{URL: "10.0.0.5:31337"},
		Linter:  linter,
	})
	require.NoError(t, err)
	require.NoError(t, p.Refresh())

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Recon</h1>")
	assert.Contains(t, body, "10.0.0.5:31337")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Equal(t, 1, linter.calls)
}

func TestRefresh_MissingFileShowsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.md")
	writeWriteup(t, path, "# Before\n")
	p, err := New(path, plainRenderer{}, Options{})
	require.NoError(t, err)
	require.NoError(t, p.Refresh())

	require.NoError(t, os.Remove(path))
	require.Error(t, p.Refresh())

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Contains(t, rec.Body.String(), `class="error"`)
	// The last good render stays visible.
	assert.Contains(t, rec.Body.String(), "<h1>Before</h1>")
}

func TestStart_ReRendersOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.md")
	writeWriteup(t, path, "# First\n")

	p, err := New(path, plainRenderer{}, Options{Addr: "127.0.0.1:0", Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	require.NoError(t, p.Start(ctx))
	t.Cleanup(func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		_ = p.Stop(shutdownCtx)
	})

	base := "http://" + p.Addr().String()
	assert.Contains(t, get(t, base+"/"), "<h1>First</h1>")
	before := get(t, base+"/version")

	writeWriteup(t, path, "# Second\n")

	require.Eventually(t, func() bool {
		return strings.Contains(get(t, base+"/"), "<h1>Second</h1>")
	}, 5*time.Second, 25*time.Millisecond)
	assert.NotEqual(t, before, get(t, base+"/version"))
}

func TestDebouncerCoalesces(t *testing.T) {
	req, trigger := newDebouncer(30 * time.Millisecond)
	for range 5 {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced request never fired")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent(fsnotify.Event{Name: "/w/a.md", Op: fsnotify.Chmod}))
	assert.True(t, shouldIgnoreEvent(fsnotify.Event{Name: "/w/a.md~", Op: fsnotify.Write}))
	assert.False(t, shouldIgnoreEvent(fsnotify.Event{Name: "/w/a.md", Op: fsnotify.Write}))
}
