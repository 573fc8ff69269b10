package api

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

// ListChallenges returns the available challenges ordered by points, lowest first.
func (c *Client) ListChallenges(ctx context.Context) ([]Challenge, error) {
	var out []Challenge
	if err := c.call(ctx, http.MethodGet, "/api/challenges", nil, &out, true, true); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points < out[j].Points })
	return out, nil
}

// Challenge returns a single challenge by ID. The platform has no detail endpoint, so the
// list is fetched and filtered.
func (c *Client) Challenge(ctx context.Context, challengeID string) (*Challenge, error) {
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return nil, ErrChallengeIDRequired
	}
	all, err := c.ListChallenges(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == challengeID {
			return &all[i], nil
		}
	}
	return nil, errors.NotFoundError("challenge not found").
		WithContext("challenge_id", challengeID).
		Build()
}

// SubmitFlag submits a flag for a challenge. Both inputs are trimmed; the platform
// compares them case-sensitively.
func (c *Client) SubmitFlag(ctx context.Context, challengeID, flag string) (*SubmitResult, error) {
	challengeID = strings.TrimSpace(challengeID)
	flag = strings.TrimSpace(flag)
	if challengeID == "" {
		return nil, ErrChallengeIDRequired
	}
	if flag == "" {
		return nil, ErrFlagRequired
	}

	var res SubmitResult
	err := c.call(ctx, http.MethodPost, "/api/challenges/submit",
		submitRequest{ChallengeID: challengeID, FlagSubmission: flag}, &res, true, false)
	if err != nil {
		if errors.HasCategory(err, errors.CategoryAPI) || errors.HasCategory(err, errors.CategoryNetwork) {
			return nil, errors.WrapError(err, errors.GetCategory(err), MsgSubmitFailed).
				WithContext("challenge_id", challengeID).
				Build()
		}
		return nil, err
	}

	if res.ChallengeID == "" {
		res.ChallengeID = challengeID
	}
	if res.Message == "" {
		res.Message = MsgFlagRejected
		if res.Correct {
			res.Message = MsgFlagAccepted
		}
	}
	return &res, nil
}
