package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Challenge is a challenge as listed by GET /api/challenges.
type Challenge struct {
	ID          string            `json:"challenge_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Difficulty  Difficulty        `json:"difficulty"`
	Category    string            `json:"category"`
	Points      int               `json:"points"`
	Writeup     string            `json:"writeup,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    ChallengeMetadata `json:"metadata"`
}

// ChallengeMetadata carries loosely structured challenge attributes.
type ChallengeMetadata struct {
	Tags []string `json:"tags,omitempty"`
}

// AllTags returns the challenge tags, falling back to metadata.tags.
func (c Challenge) AllTags() []string {
	if len(c.Tags) > 0 {
		return c.Tags
	}
	return c.Metadata.Tags
}

// Difficulty is a 1..5 rating. The platform sends it as a number or a numeric string.
type Difficulty int

// UnmarshalJSON accepts numbers, numeric strings and null.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*d = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*d = 0
		return nil
	}
	*d = Difficulty(n)
	return nil
}

// Level clamps the rating into 1..5.
func (d Difficulty) Level() int {
	switch {
	case d < 1:
		return 1
	case d > 5:
		return 5
	default:
		return int(d)
	}
}

// Mission is a running challenge container as returned by POST /api/containers/start.
type Mission struct {
	Status        string `json:"status"`
	ContainerID   string `json:"container_id"`
	Port          int    `json:"port"`
	URL           string `json:"url"`
	Message       string `json:"message,omitempty"`
	ChallengeName string `json:"challenge_name,omitempty"`
	ChallengeID   string `json:"challenge_id,omitempty"`
}

// SubmitResult is the verdict for a flag submission.
type SubmitResult struct {
	Correct     bool   `json:"correct"`
	Message     string `json:"message"`
	ChallengeID string `json:"challenge_id"`
}

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`
}

type startRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type submitRequest struct {
	ChallengeID    string `json:"challenge_id"`
	FlagSubmission string `json:"flag_submission"`
}

type stopResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// errorBody covers the error payloads the platform emits: FastAPI's {"detail": ...}
// and the validation handler's {"detail", "errors", "message"}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func (e errorBody) text() string {
	if len(e.Detail) > 0 {
		var s string
		if err := json.Unmarshal(e.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(e.Detail, &items); err == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				msgs = append(msgs, it.Msg)
			}
			return strings.Join(msgs, "; ")
		}
	}
	return e.Message
}
