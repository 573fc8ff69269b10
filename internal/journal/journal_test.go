package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestRecordAndListActiveMissions(t *testing.T) {
	s, now := newTestStore(t)
	ctx := t.Context()

	first, err := s.RecordMission(ctx, Mission{ChallengeID: "sqli-01", ContainerID: "aaa", Port: 32768, URL: "http://localhost:32768"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.Active())

	*now = now.Add(time.Minute)
	_, err = s.RecordMission(ctx, Mission{ChallengeID: "xss-01", ContainerID: "bbb", Port: 32769})
	require.NoError(t, err)

	active, err := s.ActiveMissions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "aaa", active[0].ContainerID)
	assert.Equal(t, 32768, active[0].Port)
	assert.Equal(t, "bbb", active[1].ContainerID)

	m, err := s.ActiveMission(ctx, "xss-01")
	require.NoError(t, err)
	assert.Equal(t, "bbb", m.ContainerID)
}

func TestRecordMissionRequiresContainer(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.RecordMission(t.Context(), Mission{ChallengeID: "sqli-01"})
	require.ErrorIs(t, err, ErrContainerIDRequired)
}

func TestMarkStopped(t *testing.T) {
	s, now := newTestStore(t)
	ctx := t.Context()

	_, err := s.RecordMission(ctx, Mission{ChallengeID: "sqli-01", ContainerID: "aaa"})
	require.NoError(t, err)

	*now = now.Add(5 * time.Minute)
	require.NoError(t, s.MarkStopped(ctx, "aaa", "user"))

	active, err := s.ActiveMissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	err = s.MarkStopped(ctx, "aaa", "user")
	require.ErrorIs(t, err, ErrMissionNotFound)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	_, err = s.ActiveMission(ctx, "sqli-01")
	require.ErrorIs(t, err, ErrMissionNotFound)
}

func TestExpiredMissions(t *testing.T) {
	s, now := newTestStore(t)
	ctx := t.Context()

	_, err := s.RecordMission(ctx, Mission{ChallengeID: "old", ContainerID: "old-c"})
	require.NoError(t, err)
	*now = now.Add(20 * time.Minute)
	_, err = s.RecordMission(ctx, Mission{ChallengeID: "new", ContainerID: "new-c"})
	require.NoError(t, err)
	*now = now.Add(15 * time.Minute)

	expired, err := s.ExpiredMissions(ctx, now.Add(-30*time.Minute))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "old-c", expired[0].ContainerID)
}

func TestHistoryNewestFirst(t *testing.T) {
	s, now := newTestStore(t)
	ctx := t.Context()

	_, err := s.RecordMission(ctx, Mission{ChallengeID: "sqli-01", ContainerID: "aaa", URL: "http://localhost:1"})
	require.NoError(t, err)
	*now = now.Add(time.Minute)
	_, err = s.RecordSubmission(ctx, Submission{ChallengeID: "sqli-01", Correct: false, Message: "INVALID FLAG. ACCESS DENIED."})
	require.NoError(t, err)
	*now = now.Add(time.Minute)
	_, err = s.RecordSubmission(ctx, Submission{ChallengeID: "sqli-01", Correct: true, Message: "MISSION ACCOMPLISHED. WELL DONE AGENT."})
	require.NoError(t, err)
	*now = now.Add(time.Minute)
	require.NoError(t, s.MarkStopped(ctx, "aaa", "reaped"))

	all, err := s.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []EntryKind{EntryMissionStopped, EntrySubmission, EntrySubmission, EntryMissionStarted},
		[]EntryKind{all[0].Kind, all[1].Kind, all[2].Kind, all[3].Kind})
	assert.Equal(t, "reaped", all[0].Detail)
	assert.True(t, all[1].Correct)
	assert.False(t, all[2].Correct)
	assert.Equal(t, "http://localhost:1", all[3].Detail)

	limited, err := s.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestJournalPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.RecordMission(t.Context(), Mission{ChallengeID: "sqli-01", ContainerID: "aaa"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	active, err := s.ActiveMissions(t.Context())
	require.NoError(t, err)
	require.Len(t, active, 1)
}
