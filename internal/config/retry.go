package config

import "github.com/projectsol/solclient/internal/foundation/normalization"

// RetryBackoffMode selects how the delay between API retries grows.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffModes = normalization.NewNormalizer("api.retry.mode", map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
}, RetryBackoffLinear)

// NormalizeRetryBackoff maps user input onto a mode, or "" when it is unknown.
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	mode, _ := retryBackoffModes.Lookup(raw)
	return mode
}
