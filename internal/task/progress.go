package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/DataDeltas/autoCMSCheck/internal/ghapi"
	"github.com/DataDeltas/autoCMSCheck/internal/retry"
)

// loadPostIDs downloads the full post ID list. Lines that are not
// canonical UUIDs are dropped rather than failing the quantum; the list
// is operator-maintained and the occasional stray line is expected.
func (p *Processor) loadPostIDs(ctx context.Context) ([]string, error) {
	data, err := p.download(ctx, p.cfg.PostIDsPath)
	if err != nil {
		if errors.Is(err, ghapi.ErrNotFound) {
			return nil, fmt.Errorf("post ID list %s does not exist", p.cfg.PostIDsPath)
		}
		return nil, err
	}
	return validIDs(data), nil
}

// loadProcessed downloads the processed ID set. A missing file means a
// fresh start, not an error.
func (p *Processor) loadProcessed(ctx context.Context) (map[string]bool, error) {
	data, err := p.download(ctx, p.cfg.ProcessedPath)
	if errors.Is(err, ghapi.ErrNotFound) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}

	processed := make(map[string]bool)
	for _, id := range validIDs(data) {
		processed[id] = true
	}
	return processed, nil
}

// saveProcessed appends postID to the processed file and commits it. The
// file is re-downloaded first so the append lands on the latest blob SHA.
func (p *Processor) saveProcessed(ctx context.Context, postID string) error {
	_, err := retry.Do(ctx, "save progress", p.policy, func() (struct{}, error) {
		data, sha, err := p.files.GetContents(ctx, p.cfg.ProcessedPath)
		if err != nil && !errors.Is(err, ghapi.ErrNotFound) {
			return struct{}{}, err
		}

		lines := nonEmptyLines(data)
		for _, line := range lines {
			if line == postID {
				return struct{}{}, nil
			}
		}
		lines = append(lines, postID)

		content := []byte(strings.Join(lines, "\n") + "\n")
		_, err = p.files.PutContents(ctx, p.cfg.ProcessedPath, content, sha, "Update "+p.cfg.ProcessedPath)
		return struct{}{}, err
	})
	return err
}

// download fetches a progress file with the shared retry schedule. A
// missing file is surfaced immediately for the caller to interpret.
func (p *Processor) download(ctx context.Context, path string) ([]byte, error) {
	return retry.Do(ctx, "download "+path, p.policy, func() ([]byte, error) {
		data, _, err := p.files.GetContents(ctx, path)
		if errors.Is(err, ghapi.ErrNotFound) {
			return nil, retry.Permanent(err)
		}
		return data, err
	})
}

// firstUnprocessed returns the first ID from all that is not in done, or
// "" when everything is processed.
func firstUnprocessed(all []string, done map[string]bool) string {
	for _, id := range all {
		if !done[id] {
			return id
		}
	}
	return ""
}

// validIDs extracts the canonical-UUID lines from a progress file.
func validIDs(data []byte) []string {
	var ids []string
	for _, line := range nonEmptyLines(data) {
		if isValidID(line) {
			ids = append(ids, line)
		}
	}
	return ids
}

// isValidID accepts only the canonical 36-character UUID form; uuid.Parse
// alone would also admit braced and urn-prefixed variants.
func isValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func nonEmptyLines(data []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
