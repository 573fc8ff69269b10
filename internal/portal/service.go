package portal

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/projectsol/solclient/internal/api"
	"github.com/projectsol/solclient/internal/config"
	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/journal"
	"github.com/projectsol/solclient/internal/logfields"
	"github.com/projectsol/solclient/internal/metrics"
	"github.com/projectsol/solclient/internal/observability"
	"github.com/projectsol/solclient/internal/writeup"
)

// StopReasonUser is recorded when the agent stops a mission.
const StopReasonUser = "user"

// Platform is the subset of the API client the portal uses.
type Platform interface {
	ListChallenges(ctx context.Context) ([]api.Challenge, error)
	Challenge(ctx context.Context, challengeID string) (*api.Challenge, error)
	StartMission(ctx context.Context, challengeID string) (*api.Mission, error)
	SubmitFlag(ctx context.Context, challengeID, flag string) (*api.SubmitResult, error)
	StopContainer(ctx context.Context, containerID string) error
}

// Journal is the subset of the mission journal the portal uses.
type Journal interface {
	RecordMission(ctx context.Context, m journal.Mission) (journal.Mission, error)
	RecordSubmission(ctx context.Context, s journal.Submission) (journal.Submission, error)
	ActiveMission(ctx context.Context, challengeID string) (journal.Mission, error)
	MarkStopped(ctx context.Context, containerID, reason string) error
	History(ctx context.Context, limit int) ([]journal.Entry, error)
}

// Briefing is a challenge with its rendered writeup and, when one is running, its mission.
type Briefing struct {
	Challenge api.Challenge    `json:"challenge"`
	Mission   *api.Mission     `json:"mission,omitempty"`
	Writeup   writeup.Document `json:"writeup"`
}

// Service implements the portal operations.
type Service struct {
	platform    Platform
	journal     Journal
	recorder    metrics.Recorder
	trusted     bool
	placeholder string
	logger      *slog.Logger
}

// NewService wires a portal service. A nil recorder disables metrics.
func NewService(p Platform, j Journal, wc config.WriteupConfig, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	placeholder := wc.HostPlaceholder
	if placeholder == "" {
		placeholder = config.DefaultHostPlaceholder
	}
	return &Service{
		platform:    p,
		journal:     j,
		recorder:    recorder,
		trusted:     wc.Trusted,
		placeholder: placeholder,
		logger:      slog.Default(),
	}
}

// Challenges lists the available challenges, lowest points first.
func (s *Service) Challenges(ctx context.Context) ([]api.Challenge, error) {
	return s.platform.ListChallenges(ctx)
}

// Detail returns a challenge briefing, including the mission recorded for it if still active.
func (s *Service) Detail(ctx context.Context, challengeID string) (*Briefing, error) {
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return nil, api.ErrChallengeIDRequired
	}
	ctx = observability.WithChallengeID(ctx, challengeID)
	ch, err := s.platform.Challenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	var mission *api.Mission
	if m, err := s.journal.ActiveMission(ctx, challengeID); err == nil {
		mission = &api.Mission{
			Status:        api.MsgMissionActive,
			ContainerID:   m.ContainerID,
			Port:          m.Port,
			URL:           m.URL,
			ChallengeName: m.ChallengeName,
			ChallengeID:   m.ChallengeID,
		}
	} else if !errors.HasCategory(err, errors.CategoryNotFound) {
		return nil, err
	}

	return &Briefing{Challenge: *ch, Mission: mission, Writeup: s.Writeup(ch.Writeup, mission)}, nil
}

// Launch starts a mission for the challenge, records it and returns the briefing.
func (s *Service) Launch(ctx context.Context, challengeID string) (*Briefing, error) {
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return nil, api.ErrChallengeIDRequired
	}
	ctx = observability.WithChallengeID(ctx, challengeID)
	ch, err := s.platform.Challenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	m, err := s.platform.StartMission(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	s.recorder.IncMissionsStarted()

	name := m.ChallengeName
	if name == "" {
		name = ch.Title
	}
	recorded, err := s.journal.RecordMission(ctx, journal.Mission{
		ChallengeID:   challengeID,
		ChallengeName: name,
		ContainerID:   m.ContainerID,
		Port:          m.Port,
		URL:           m.URL,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to record mission in journal",
			logfields.ContainerID(m.ContainerID),
			logfields.Error(err))
	}

	s.logger.InfoContext(ctx, "Mission deployed",
		logfields.ChallengeID(challengeID),
		logfields.ContainerID(m.ContainerID),
		logfields.MissionID(recorded.ID),
		logfields.URL(m.URL))

	return &Briefing{Challenge: *ch, Mission: m, Writeup: s.Writeup(ch.Writeup, m)}, nil
}

// Submit sends a flag and records the verdict.
func (s *Service) Submit(ctx context.Context, challengeID, flag string) (*api.SubmitResult, error) {
	challengeID = strings.TrimSpace(challengeID)
	flag = strings.TrimSpace(flag)
	if challengeID == "" {
		return nil, api.ErrChallengeIDRequired
	}
	ctx = observability.WithChallengeID(ctx, challengeID)
	if flag == "" {
		return nil, api.ErrFlagRequired
	}

	res, err := s.platform.SubmitFlag(ctx, challengeID, flag)
	if err != nil {
		if errors.HasCategory(err, errors.CategoryRateLimit) {
			s.recorder.IncSubmission(metrics.OutcomeRateLimited)
		}
		return nil, err
	}

	outcome := metrics.OutcomeIncorrect
	if res.Correct {
		outcome = metrics.OutcomeCorrect
	}
	s.recorder.IncSubmission(outcome)

	if _, err := s.journal.RecordSubmission(ctx, journal.Submission{
		ChallengeID: challengeID,
		Correct:     res.Correct,
		Message:     res.Message,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to record submission in journal",
			logfields.ChallengeID(challengeID),
			logfields.Error(err))
	}
	return res, nil
}

// Stop stops a mission container and closes it in the journal.
func (s *Service) Stop(ctx context.Context, containerID string) error {
	containerID = strings.TrimSpace(containerID)
	if containerID == "" {
		return api.ErrContainerIDRequired
	}
	ctx = observability.WithContainerID(ctx, containerID)
	if err := s.platform.StopContainer(ctx, containerID); err != nil {
		return err
	}
	if err := s.journal.MarkStopped(ctx, containerID, StopReasonUser); err != nil && !errors.HasCategory(err, errors.CategoryNotFound) {
		return err
	}
	return nil
}

// History returns recent journal entries, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]journal.Entry, error) {
	return s.journal.History(ctx, limit)
}

// Writeup prepares a challenge writeup for display. The host placeholder is replaced
// with the mission's host when a mission is given; untrusted text is escaped before
// rendering.
func (s *Service) Writeup(markdown string, mission *api.Mission) writeup.Document {
	if mission != nil {
		if host := MissionHost(mission); host != "" {
			markdown = strings.ReplaceAll(markdown, s.placeholder, host)
		}
	}
	if !s.trusted {
		markdown = writeup.Sanitize(markdown)
	}

	start := time.Now()
	doc := writeup.Render(markdown)
	s.recorder.ObserveRenderDuration(time.Since(start))
	for kind, n := range doc.Count() {
		s.recorder.AddBlocks(string(kind), n)
	}
	return doc
}

// MissionHost returns host:port for a mission, preferring the host in its URL.
func MissionHost(m *api.Mission) string {
	if m == nil {
		return ""
	}
	if m.URL != "" {
		if u, err := url.Parse(m.URL); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if m.Port > 0 {
		return "localhost:" + strconv.Itoa(m.Port)
	}
	return ""
}
