package metrics

import "time"

// OutcomeLabel enumerates result categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess     OutcomeLabel = "success"
	OutcomeFailure     OutcomeLabel = "failure"
	OutcomeRateLimited OutcomeLabel = "rate_limited"
	OutcomeCorrect     OutcomeLabel = "correct"
	OutcomeIncorrect   OutcomeLabel = "incorrect"
)

// Recorder defines observability hooks for the client. Implementations may forward to
// Prometheus or anything else; NoopRecorder is the default.
type Recorder interface {
	ObserveRenderDuration(d time.Duration)
	AddBlocks(kind string, n int)
	ObserveAPIRequest(endpoint string, outcome OutcomeLabel, d time.Duration)
	IncAPIRetry(endpoint string)
	IncSubmission(outcome OutcomeLabel)
	IncMissionsStarted()
	AddMissionsReaped(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(time.Duration)                   {}
func (NoopRecorder) AddBlocks(string, int)                                 {}
func (NoopRecorder) ObserveAPIRequest(string, OutcomeLabel, time.Duration) {}
func (NoopRecorder) IncAPIRetry(string)                                    {}
func (NoopRecorder) IncSubmission(OutcomeLabel)                            {}
func (NoopRecorder) IncMissionsStarted()                                   {}
func (NoopRecorder) AddMissionsReaped(int)                                 {}
