package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
	"github.com/DataDeltas/autoCMSCheck/internal/ghapi"
	"github.com/DataDeltas/autoCMSCheck/internal/retry"
	"github.com/DataDeltas/autoCMSCheck/internal/session"
)

// contentsAPI is the slice of ghapi.Client the store uses.
type contentsAPI interface {
	GetContents(ctx context.Context, path string) ([]byte, string, error)
	PutContents(ctx context.Context, path string, data []byte, sha, message string) (string, error)
	DeleteContents(ctx context.Context, path, sha, message string) error
}

// GitHubStore keeps the session record as a file committed to the
// repository. There is a single writer per quantum, so the blob SHA
// observed on load is carried into the following save or remove.
type GitHubStore struct {
	api    contentsAPI
	path   string
	policy retry.Policy

	// sha of the record blob as last observed. Empty means unknown or
	// absent.
	sha string
}

// NewGitHubStore builds a store over the contents API for the record at
// the given repository path.
func NewGitHubStore(api contentsAPI, path string, policy retry.Policy) *GitHubStore {
	return &GitHubStore{api: api, path: path, policy: policy}
}

// Load reads and decodes the durable record. It returns ErrNotFound when
// the record is absent and session.ErrCorruptState when it is present but
// malformed; neither is retried. Transient fetch failures are retried on
// the shared schedule.
func (s *GitHubStore) Load(ctx context.Context) (session.State, error) {
	st, err := retry.Do(ctx, "load record", s.policy, func() (session.State, error) {
		data, sha, err := s.api.GetContents(ctx, s.path)
		if errors.Is(err, ghapi.ErrNotFound) {
			s.sha = ""
			return session.State{}, retry.Permanent(ErrNotFound)
		}
		if err != nil {
			return session.State{}, err
		}

		st, err := session.Decode(data)
		if err != nil {
			// Corrupt contents will not repair themselves; surface now.
			return session.State{}, retry.Permanent(err)
		}
		s.sha = sha
		return st, nil
	})
	if err != nil {
		return session.State{}, err
	}

	ctxlog.FromContext(ctx).Debug("Session record loaded.",
		"start_time", st.StartTime, "current_run", st.CurrentRun)
	return st, nil
}

// Save overwrites the durable record whole. Each attempt re-reads the
// current blob SHA so a save can both create a fresh record and follow an
// earlier quantum's commit. Exhausting the retries yields ErrPersistence.
func (s *GitHubStore) Save(ctx context.Context, st session.State) error {
	newSHA, err := retry.Do(ctx, "save record", s.policy, func() (string, error) {
		sha, err := s.currentSHA(ctx)
		if err != nil {
			return "", err
		}
		newSHA, err := s.api.PutContents(ctx, s.path, st.Encode(), sha, "Update "+s.path)
		if err != nil {
			// The cached SHA may be stale; force a re-read on the next attempt.
			s.sha = ""
			return "", err
		}
		return newSHA, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.sha = newSHA
	ctxlog.FromContext(ctx).Info("Session record saved.",
		"start_time", st.StartTime, "current_run", st.CurrentRun)
	return nil
}

// Remove deletes the durable record. A record that is already absent is a
// no-op success: absence is the declared success condition.
func (s *GitHubStore) Remove(ctx context.Context) error {
	_, err := retry.Do(ctx, "remove record", s.policy, func() (struct{}, error) {
		sha, err := s.currentSHA(ctx)
		if err != nil {
			return struct{}{}, err
		}
		if sha == "" {
			return struct{}{}, nil
		}

		err = s.api.DeleteContents(ctx, s.path, sha, "Remove "+s.path)
		if errors.Is(err, ghapi.ErrNotFound) {
			err = nil
		} else if err != nil {
			s.sha = ""
		}
		return struct{}{}, err
	})
	if err != nil {
		return err
	}

	s.sha = ""
	ctxlog.FromContext(ctx).Info("Session record removed.", "path", s.path)
	return nil
}

// currentSHA returns the record's blob SHA, fetching it when this quantum
// has not observed the record yet. Empty with nil error means absent.
func (s *GitHubStore) currentSHA(ctx context.Context) (string, error) {
	if s.sha != "" {
		return s.sha, nil
	}
	_, sha, err := s.api.GetContents(ctx, s.path)
	if errors.Is(err, ghapi.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	s.sha = sha
	return sha, nil
}
