package ghapi

import (
	"context"
	"fmt"
)

type workflowRunsResponse struct {
	TotalCount int `json:"total_count"`
}

// CountInProgressRuns returns how many runs of the given workflow file are
// currently in progress, including the caller's own run.
func (c *Client) CountInProgressRuns(ctx context.Context, workflowFile string) (int, error) {
	var out workflowRunsResponse
	res, err := c.rc.R().
		SetContext(ctx).
		SetQueryParam("status", "in_progress").
		SetResult(&out).
		Get(fmt.Sprintf("/repos/%s/actions/workflows/%s/runs", c.repo, workflowFile))
	if err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	if !res.IsSuccess() {
		return 0, statusError("count runs", res)
	}
	return out.TotalCount, nil
}

// Dispatch sends a repository_dispatch event carrying the fixed tag that
// tells the platform to start the next quantum. Acceptance is a 204 with
// no body; any 2xx is treated as accepted.
func (c *Client) Dispatch(ctx context.Context, eventType string) error {
	res, err := c.rc.R().
		SetContext(ctx).
		SetBody(map[string]string{"event_type": eventType}).
		Post(fmt.Sprintf("/repos/%s/dispatches", c.repo))
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", eventType, err)
	}
	if !res.IsSuccess() {
		return statusError("dispatch "+eventType, res)
	}
	return nil
}
