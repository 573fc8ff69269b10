package handlers

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/projectsol/solclient/internal/api"
	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/logfields"
	"github.com/projectsol/solclient/internal/portal"
	"github.com/projectsol/solclient/internal/writeup"
)

// Portal is the service surface the web UI drives.
type Portal interface {
	Challenges(ctx context.Context) ([]api.Challenge, error)
	Detail(ctx context.Context, challengeID string) (*portal.Briefing, error)
	Launch(ctx context.Context, challengeID string) (*portal.Briefing, error)
	Submit(ctx context.Context, challengeID, flag string) (*api.SubmitResult, error)
	Stop(ctx context.Context, containerID string) error
}

// PortalHandlers serves the challenge list, challenge pages and mission actions.
type PortalHandlers struct {
	portal  Portal
	adapter *errors.HTTPErrorAdapter
}

// NewPortalHandlers creates the portal handlers.
func NewPortalHandlers(p Portal, adapter *errors.HTTPErrorAdapter) *PortalHandlers {
	if adapter == nil {
		adapter = errors.NewHTTPErrorAdapter(slog.Default())
	}
	return &PortalHandlers{portal: p, adapter: adapter}
}

type indexData struct {
	Challenges []api.Challenge `json:"challenges"`
}

type challengeData struct {
	Challenge api.Challenge     `json:"challenge"`
	Mission   *api.Mission      `json:"mission,omitempty"`
	Writeup   template.HTML     `json:"-"`
	Blocks    writeup.Document  `json:"writeup"`
	Result    *api.SubmitResult `json:"result,omitempty"`
}

type errorData struct {
	Status  string
	Message string
}

// HandleIndex renders the challenge list.
func (h *PortalHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.portal.Challenges(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, indexPage, http.StatusOK, indexData{Challenges: challenges})
}

// HandleChallenge renders one challenge with its mission and writeup.
func (h *PortalHandlers) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	b, err := h.portal.Detail(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderBriefing(w, r, http.StatusOK, b, nil)
}

// HandleLaunch starts a mission and redirects browsers to the challenge page.
func (h *PortalHandlers) HandleLaunch(w http.ResponseWriter, r *http.Request) {
	b, err := h.portal.Launch(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		h.renderBriefing(w, r, http.StatusCreated, b, nil)
		return
	}
	http.Redirect(w, r, "/challenges/"+url.PathEscape(b.Challenge.ID), http.StatusSeeOther)
}

// HandleSubmit submits the "flag" form field (or JSON body field) and shows the verdict.
func (h *PortalHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	flag, err := flagFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.portal.Submit(r.Context(), id, flag)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		if err := writeJSON(w, http.StatusOK, res); err != nil {
			h.adapter.WriteErrorResponse(w, r, err)
		}
		return
	}
	b, err := h.portal.Detail(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderBriefing(w, r, http.StatusOK, b, res)
}

// HandleStop stops a mission container.
func (h *PortalHandlers) HandleStop(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("container")
	if err := h.portal.Stop(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		_ = writeJSON(w, http.StatusOK, map[string]string{"status": "stopped", "container_id": id})
		return
	}
	target := "/"
	if ref := r.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Host == r.Host {
			target = u.RequestURI()
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func flagFrom(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Flag string `json:"flag_submission"`
		}
		if err := decodeJSON(r, &body); err != nil {
			return "", err
		}
		return body.Flag, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", errors.ValidationError("invalid form body").WithCause(err).Build()
	}
	return r.PostFormValue("flag"), nil
}

func (h *PortalHandlers) renderBriefing(w http.ResponseWriter, r *http.Request, status int, b *portal.Briefing, res *api.SubmitResult) {
	data := challengeData{Challenge: b.Challenge, Mission: b.Mission, Blocks: b.Writeup, Result: res}
	if !wantsJSON(r) {
		var buf bytes.Buffer
		if err := writeup.WriteHTML(&buf, b.Writeup); err != nil {
			h.fail(w, r, err)
			return
		}
		data.Writeup = template.HTML(buf.String()) //nolint:gosec // escaped by portal.Writeup unless trusted
	}
	h.respond(w, r, challengePage, status, data)
}

func (h *PortalHandlers) respond(w http.ResponseWriter, r *http.Request, page *template.Template, status int, data any) {
	var err error
	if wantsJSON(r) {
		err = writeJSON(w, status, data)
	} else {
		err = writePage(w, page, status, data)
	}
	if err != nil {
		h.adapter.WriteErrorResponse(w, r, err)
	}
}

// fail writes err as JSON for API clients and as an error page for browsers.
func (h *PortalHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) {
		h.adapter.WriteErrorResponse(w, r, err)
		return
	}
	status := h.adapter.StatusCodeFor(err)
	msg := h.adapter.FormatErrorResponse(err).Error
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", logfields.Path(r.URL.Path), logfields.Error(err))
	}
	if werr := writePage(w, errorPage, status, errorData{Status: http.StatusText(status), Message: msg}); werr != nil {
		h.adapter.WriteErrorResponse(w, r, err)
	}
}
