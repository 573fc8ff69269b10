package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyChallengeID = "challenge_id"
	KeyContainerID = "container_id"
	KeyMissionID   = "mission_id"
	KeyEndpoint    = "endpoint"
	KeyStatus      = "status"
	KeyOutcome     = "outcome"
	KeyAttempt     = "attempt"
	KeyBlocks      = "blocks"
	KeyFile        = "file"
	KeyPath        = "path"
	KeyMethod      = "method"
	KeyUserAgent   = "user_agent"
	KeyRemoteAddr  = "remote_addr"
	KeyRequestID   = "request_id"
	KeyAddr        = "addr"
	KeyURL         = "url"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ChallengeID(id string) slog.Attr { return slog.String(KeyChallengeID, id) }
func ContainerID(id string) slog.Attr { return slog.String(KeyContainerID, id) }
func MissionID(id string) slog.Attr   { return slog.String(KeyMissionID, id) }
func Endpoint(e string) slog.Attr     { return slog.String(KeyEndpoint, e) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Blocks(n int) slog.Attr          { return slog.Int(KeyBlocks, n) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
