package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("solclient"),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Vars{"version": "test"},
	)
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Out: &out})
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// platform fakes the challenge platform API.
func platform(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/challenges", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"challenge_id":"web-2","title":"Cookie Jar","category":"web","difficulty":"3","points":300,
			 "writeup":"# Cookie Jar\n\nBrowse to {{CONTAINER_HOST}} and inspect **cookies**."},
			{"challenge_id":"intro","title":"Hello","category":"misc","difficulty":1,"points":50,"writeup":"Say hi"}
		]`))
	})
	mux.HandleFunc("POST /api/containers/start", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","container_id":"c-123","port":40001,
			"url":"http://10.1.2.3:40001","message":"MISSION ENVIRONMENT DEPLOYED.","challenge_name":"Cookie Jar"}`))
	})
	mux.HandleFunc("POST /api/challenges/submit", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		correct := body["flag_submission"] == "SOL{ok}"
		msg := "ACCESS DENIED. INCORRECT FLAG."
		if correct {
			msg = "FLAG ACCEPTED. MISSION COMPLETE."
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"correct": correct, "message": msg, "challenge_id": body["challenge_id"]})
	})
	mux.HandleFunc("POST /api/containers/stop", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"deleted","id":"` + r.URL.Query().Get("container_id") + `"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func onlineConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "solclient.yaml")
	writeFile(t, path, "api:\n  base_url: "+baseURL+"\nauth:\n  access_token: test-token\njournal:\n  path: "+
		filepath.Join(dir, "journal.db")+"\n")
	return path
}

func TestRender_Formats(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "missing.yaml")
	file := filepath.Join(dir, "w.md")
	writeFile(t, file, "# Intro\n\nConnect to {{CONTAINER_HOST}} <b>now</b>\n\n- **one**\n")

	html, err := run(t, "--config", cfg, "render", file, "--format", "html", "--host", "10.0.0.9:31337")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Intro</h1>\n<p>Connect to 10.0.0.9:31337 &lt;b&gt;now&lt;/b&gt;</p>\n<ul>\n<li><strong>one</strong></li>\n</ul>\n", html)

	trusted, err := run(t, "--config", cfg, "render", file, "--format", "html", "--trusted")
	require.NoError(t, err)
	assert.Contains(t, trusted, "<b>now</b>")
	assert.Contains(t, trusted, "{{CONTAINER_HOST}}")

	text, err := run(t, "--config", cfg, "render", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Intro\n=====\n"))

	js, err := run(t, "--config", cfg, "render", file, "-f", "json")
	require.NoError(t, err)
	var blocks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &blocks))
	require.Len(t, blocks, 3)
	assert.Equal(t, "heading", blocks[0]["type"])
}

func TestRender_TextKeepsEntitiesWhenTrusted(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "missing.yaml")
	file := filepath.Join(dir, "w.md")
	writeFile(t, file, "Escape &lt;script&gt; tags.\n")

	out, err := run(t, "--config", cfg, "render", file)
	require.NoError(t, err)
	assert.Equal(t, "Escape &lt;script&gt; tags.\n", out)

	out, err = run(t, "--config", cfg, "render", file, "--trusted")
	require.NoError(t, err)
	assert.Equal(t, "Escape &lt;script&gt; tags.\n", out)
}

func TestRender_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--config", filepath.Join(dir, "c.yaml"), "render", filepath.Join(dir, "nope.md"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestLint_ReportsErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "c.yaml")
	writeFile(t, filepath.Join(dir, "good.md"), "# Fine\n")

	out, err := run(t, "--config", cfg, "lint", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "All writeups pass linting")

	writeFile(t, filepath.Join(dir, "bad.md"), "```\nunclosed\n")
	out, err = run(t, "--config", cfg, "lint", dir, "--format", "json")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Contains(t, out, `"rule": "unclosed-fence"`)
}

func TestLint_StrictFailsOnWarnings(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "c.yaml")
	writeFile(t, filepath.Join(dir, "w.md"), "See [docs](https://x.test)\n")

	_, err := run(t, "--config", cfg, "lint", dir)
	require.NoError(t, err)

	_, err = run(t, "--config", cfg, "lint", dir, "--strict")
	require.Error(t, err)
}

func TestOnlineCommandsRequireAPI(t *testing.T) {
	t.Setenv("SOL_API_URL", "")
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "challenges")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestMissionLifecycle(t *testing.T) {
	srv := platform(t)
	cfg := onlineConfig(t, srv.URL)

	out, err := run(t, "--config", cfg, "challenges")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "intro")
	assert.Contains(t, lines[2], "★★★☆☆")

	out, err = run(t, "--config", cfg, "launch", "web-2")
	require.NoError(t, err)
	assert.Contains(t, out, "MISSION ENVIRONMENT DEPLOYED.")
	assert.Contains(t, out, "Browse to 10.1.2.3:40001 and inspect cookies.")

	out, err = run(t, "--config", cfg, "show", "web-2", "-f", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<p>Browse to 10.1.2.3:40001 and inspect <strong>cookies</strong>.</p>")

	out, err = run(t, "--config", cfg, "submit", "web-2", "SOL{nope}")
	require.NoError(t, err)
	assert.Equal(t, "✗ ACCESS DENIED. INCORRECT FLAG.\n", out)

	out, err = run(t, "--config", cfg, "submit", "web-2", "SOL{ok}")
	require.NoError(t, err)
	assert.Equal(t, "✓ FLAG ACCEPTED. MISSION COMPLETE.\n", out)

	out, err = run(t, "--config", cfg, "stop", "c-123")
	require.NoError(t, err)
	assert.Equal(t, "mission c-123 stopped\n", out)

	out, err = run(t, "--config", cfg, "history", "--json")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 4)

	out, err = run(t, "--config", cfg, "reap")
	require.NoError(t, err)
	assert.Equal(t, "0 expired mission(s) stopped\n", out)
}

func TestSubmit_RequiresFlag(t *testing.T) {
	srv := platform(t)
	cfg := onlineConfig(t, srv.URL)

	_, err := run(t, "--config", cfg, "submit", "web-2", "   ")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solclient.yaml")
	out, err := run(t, "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = run(t, "--config", path, "init")
	require.Error(t, err)

	_, err = run(t, "--config", path, "init", "--force")
	require.NoError(t, err)
}
