package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

// StartMission deploys a container for the challenge. Platform failures other than
// authentication, validation and rate limiting surface as MsgDeployFailed.
func (c *Client) StartMission(ctx context.Context, challengeID string) (*Mission, error) {
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return nil, ErrChallengeIDRequired
	}

	var m Mission
	err := c.call(ctx, http.MethodPost, "/api/containers/start", startRequest{ChallengeID: challengeID}, &m, true, false)
	if err != nil {
		if errors.HasCategory(err, errors.CategoryAPI) || errors.HasCategory(err, errors.CategoryNetwork) {
			return nil, errors.WrapError(err, errors.GetCategory(err), MsgDeployFailed).
				WithContext("challenge_id", challengeID).
				Build()
		}
		return nil, err
	}
	if m.ContainerID == "" {
		return nil, errors.APIError(MsgDeployFailed).
			WithContext("challenge_id", challengeID).
			WithContext("detail", "response carried no container id").
			Build()
	}

	m.ChallengeID = challengeID
	if m.URL == "" && m.Port > 0 {
		m.URL = "http://localhost:" + strconv.Itoa(m.Port)
	}
	return &m, nil
}

// StopContainer stops and removes a mission container.
func (c *Client) StopContainer(ctx context.Context, containerID string) error {
	containerID = strings.TrimSpace(containerID)
	if containerID == "" {
		return ErrContainerIDRequired
	}
	var res stopResponse
	return c.call(ctx, http.MethodPost, "/api/containers/stop?container_id="+url.QueryEscape(containerID), nil, &res, true, false)
}

// Health checks platform liveness. It does not require credentials.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var hs HealthStatus
	if err := c.call(ctx, http.MethodGet, "/health", nil, &hs, false, true); err != nil {
		return nil, err
	}
	return &hs, nil
}
