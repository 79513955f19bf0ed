package ghapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

type contentResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

type putContentResponse struct {
	Content contentResponse `json:"content"`
}

// GetContents downloads a file from the repository. It returns the decoded
// body and the blob SHA needed to overwrite or delete the file later.
// A missing file yields ErrNotFound.
func (c *Client) GetContents(ctx context.Context, path string) ([]byte, string, error) {
	var out contentResponse
	res, err := c.rc.R().
		SetContext(ctx).
		SetQueryParam("ref", c.branch).
		SetResult(&out).
		Get(c.contentsURL(path))
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", path, err)
	}
	if !res.IsSuccess() {
		return nil, "", statusError("get "+path, res)
	}

	// The API wraps base64 at 60 columns; strip the line breaks first.
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(out.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("get %s: decode content: %w", path, err)
	}
	return data, out.SHA, nil
}

// PutContents creates or overwrites a file, committing it to the branch.
// sha must be the current blob SHA when overwriting and empty when
// creating. It returns the new blob SHA.
func (c *Client) PutContents(ctx context.Context, path string, data []byte, sha, message string) (string, error) {
	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  c.branch,
	}
	if sha != "" {
		body["sha"] = sha
	}

	var out putContentResponse
	res, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Put(c.contentsURL(path))
	if err != nil {
		return "", fmt.Errorf("put %s: %w", path, err)
	}
	if !res.IsSuccess() {
		return "", statusError("put "+path, res)
	}
	return out.Content.SHA, nil
}

// DeleteContents removes a file from the branch. sha must be the current
// blob SHA. A missing file yields ErrNotFound.
func (c *Client) DeleteContents(ctx context.Context, path, sha, message string) error {
	body := map[string]string{
		"message": message,
		"sha":     sha,
		"branch":  c.branch,
	}

	res, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		Delete(c.contentsURL(path))
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if !res.IsSuccess() {
		return statusError("delete "+path, res)
	}
	return nil
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("/repos/%s/contents/%s", c.repo, path)
}
