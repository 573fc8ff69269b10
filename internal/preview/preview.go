// Package preview serves a live-rendered local writeup and re-renders it when the file changes.
package preview

import (
	"bytes"
	"context"
	stderrors "errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/projectsol/solclient/internal/api"
	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/lint"
	"github.com/projectsol/solclient/internal/logfields"
	"github.com/projectsol/solclient/internal/writeup"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 300 * time.Millisecond

// Renderer turns writeup source into blocks, substituting the mission host.
type Renderer interface {
	Writeup(markdown string, mission *api.Mission) writeup.Document
}

// Linter checks writeup source; issues are logged, never fatal.
type Linter interface {
	LintContent(name string, content []byte) (*lint.Result, error)
}

// Options configures a Preview.
type Options struct {
	Addr     string
	Mission  *api.Mission // optional; fills the host placeholder
	Debounce time.Duration
	Linter   Linter
}

// renderState is the latest render, or the error that prevented it.
type renderState struct {
	mu      sync.RWMutex
	html    template.HTML
	err     error
	version int64
}

func (s *renderState) set(html template.HTML, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.html = html
	}
	s.err = err
	s.version = time.Now().UnixNano()
}

func (s *renderState) get() (template.HTML, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.html, s.version, s.err
}

// Preview watches one writeup file and serves its rendering over HTTP.
type Preview struct {
	path     string
	renderer Renderer
	opts     Options
	state    renderState

	watcher    *fsnotify.Watcher
	httpServer *http.Server
	addr       net.Addr
	done       chan struct{}
}

// New resolves path and checks that it is a regular file.
func New(path string, renderer Renderer, opts Options) (*Preview, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "resolve writeup path").Build()
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "writeup not found").
			WithContext("path", abs).
			Build()
	}
	if st.IsDir() {
		return nil, errors.ValidationError("preview needs a file, not a directory").
			WithContext("path", abs).
			Build()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:1314"
	}
	return &Preview{path: abs, renderer: renderer, opts: opts}, nil
}

// Refresh reads the file, renders it and lints it.
func (p *Preview) Refresh() error {
	content, err := os.ReadFile(p.path)
	if err != nil {
		err = errors.WrapError(err, errors.CategoryFileSystem, "read writeup").
			WithContext("path", p.path).
			Build()
		p.state.set("", err)
		return err
	}

	var buf bytes.Buffer
	doc := p.renderer.Writeup(string(content), p.opts.Mission)
	if err := writeup.WriteHTML(&buf, doc); err != nil {
		p.state.set("", err)
		return err
	}
	//nolint:gosec // escaped by the renderer unless the writeup is trusted
	p.state.set(template.HTML(buf.String()), nil)
	slog.Info("Writeup rendered", logfields.File(p.path), logfields.Blocks(len(doc)))

	if p.opts.Linter != nil {
		p.logIssues(content)
	}
	return nil
}

func (p *Preview) logIssues(content []byte) {
	result, err := p.opts.Linter.LintContent(p.path, content)
	if err != nil {
		slog.Warn("lint failed", logfields.File(p.path), logfields.Error(err))
		return
	}
	for _, issue := range result.Issues {
		slog.Warn(issue.Message,
			logfields.File(p.path),
			slog.Int("line", issue.Line),
			slog.String("rule", issue.Rule),
			slog.String("severity", issue.Severity.String()))
	}
}

// Handler serves the rendered page at / and the render version at /version.
func (p *Preview) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", p.handlePage)
	mux.HandleFunc("GET /version", p.handleVersion)
	return mux
}

func (p *Preview) handlePage(w http.ResponseWriter, _ *http.Request) {
	html, version, renderErr := p.state.get()
	data := struct {
		Title   string
		Body    template.HTML
		Error   string
		Version int64
	}{Title: filepath.Base(p.path), Body: html, Version: version}
	if renderErr != nil {
		data.Error = renderErr.Error()
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (p *Preview) handleVersion(w http.ResponseWriter, _ *http.Request) {
	_, version, _ := p.state.get()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(strconv.FormatInt(version, 10)))
}

// Start renders once, binds the listener and begins watching. It returns
// once both are running; Stop or ctx cancellation ends them.
func (p *Preview) Start(ctx context.Context) error {
	if err := p.Refresh(); err != nil {
		slog.Error("initial render failed", logfields.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "create file watcher").Build()
	}
	// Editors often replace the file on save, so the parent directory is watched.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		_ = watcher.Close()
		return errors.WrapError(err, errors.CategoryFileSystem, "watch writeup directory").
			WithContext("path", filepath.Dir(p.path)).
			Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", p.opts.Addr)
	if err != nil {
		_ = watcher.Close()
		return errors.WrapError(err, errors.CategoryRuntime, "preview startup failed").
			WithContext("addr", p.opts.Addr).
			Build()
	}
	p.addr = ln.Addr()
	p.watcher = watcher
	p.done = make(chan struct{})
	p.httpServer = &http.Server{Handler: p.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := p.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("preview server error", logfields.Error(err))
		}
	}()

	refreshReq, trigger := newDebouncer(p.opts.Debounce)
	go p.refreshWorker(ctx, refreshReq)
	go p.watchLoop(ctx, trigger)

	slog.Info("Preview listening", logfields.URL("http://"+p.addr.String()), logfields.File(p.path))
	return nil
}

// Addr returns the bound address after Start.
func (p *Preview) Addr() net.Addr { return p.addr }

// Run starts the preview and blocks until ctx is cancelled.
func (p *Preview) Run(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.Stop(shutdownCtx)
}

// Stop closes the watcher and shuts the server down.
func (p *Preview) Stop(ctx context.Context) error {
	if p.httpServer == nil {
		return nil
	}
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	_ = p.watcher.Close()
	return p.httpServer.Shutdown(ctx)
}

// newDebouncer returns a request channel and a trigger that fires it once
// the trigger has been quiet for delay.
func newDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

func (p *Preview) refreshWorker(ctx context.Context, req <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-req:
			slog.Info("Change detected; re-rendering", logfields.File(p.path))
			if err := p.Refresh(); err != nil {
				slog.Warn("re-render failed", logfields.Error(err))
			}
		}
	}
}

func (p *Preview) watchLoop(ctx context.Context, trigger func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case ev, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != p.path || shouldIgnoreEvent(ev) {
				continue
			}
			slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// shouldIgnoreEvent drops events that do not change file content.
func shouldIgnoreEvent(ev fsnotify.Event) bool {
	return ev.Op == fsnotify.Chmod || strings.HasSuffix(ev.Name, "~")
}
