package api

import "github.com/projectsol/solclient/internal/foundation/errors"

// Messages shown to the agent for platform failures.
const (
	MsgRateLimited   = "RATE LIMIT EXCEEDED. WAIT."
	MsgDeployFailed  = "SYSTEM ERROR: UNABLE TO DEPLOY."
	MsgFlagAccepted  = "MISSION ACCOMPLISHED. WELL DONE AGENT."
	MsgFlagRejected  = "INVALID FLAG. ACCESS DENIED."
	MsgSubmitFailed  = "SYSTEM ERROR: UNABLE TO VERIFY FLAG."
	MsgMissionActive = "MISSION ACTIVE"
)

var (
	// ErrChallengeIDRequired signals an empty challenge identifier.
	ErrChallengeIDRequired = errors.ValidationError("challenge id is required").Build()

	// ErrContainerIDRequired signals an empty container identifier.
	ErrContainerIDRequired = errors.ValidationError("container id is required").Build()

	// ErrFlagRequired signals an empty flag submission.
	ErrFlagRequired = errors.ValidationError("flag is required").Build()

	// ErrBaseURLRequired signals a client constructed without a platform URL.
	ErrBaseURLRequired = errors.ConfigError("api base URL is required").Build()
)
