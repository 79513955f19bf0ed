package config

import "errors"

// Model is the decoded controller configuration.
type Model struct {
	Platform *Platform `hcl:"platform,block"`
	CMS      *CMS      `hcl:"cms,block"`
}

// Platform describes the hosting platform: where the durable record
// lives, which workflow to watch for overlapping executions, and how the
// next quantum is activated.
type Platform struct {
	// Repository is the "owner/name" slug. When empty it falls back to
	// the GITHUB_REPOSITORY variable the platform injects.
	Repository string `hcl:"repository,optional"`
	// APIBaseURL overrides the API host, mainly for tests.
	APIBaseURL string `hcl:"api_base_url,optional"`
	// WorkflowFile is the workflow filename whose in-progress runs are
	// counted by the concurrency guard.
	WorkflowFile string `hcl:"workflow_file"`
	// Branch is the branch the durable record is committed to.
	Branch string `hcl:"branch,optional"`
	// EventType is the fixed repository_dispatch tag meaning "activate
	// the next quantum".
	EventType string `hcl:"event_type,optional"`
	// StatePath is the repository path of the durable session record.
	StatePath string `hcl:"state_path,optional"`
}

// CMS describes the remote service the task executor works against.
type CMS struct {
	LoginURL  string `hcl:"login_url"`
	APIURL    string `hcl:"api_url"`
	ProjectID string `hcl:"project_id"`
	// PostIDsPath is the repository path of the full post ID list.
	PostIDsPath string `hcl:"post_ids_path,optional"`
	// ProcessedPath is the repository path of the processed ID list.
	ProcessedPath string `hcl:"processed_path,optional"`
}

// Defaults for the optional platform and CMS fields.
const (
	DefaultAPIBaseURL    = "https://api.github.com"
	DefaultBranch        = "main"
	DefaultEventType     = "continue-session"
	DefaultStatePath     = "session_state.txt"
	DefaultPostIDsPath   = "postIds.txt"
	DefaultProcessedPath = "processed_so_far.txt"
)

// applyDefaults fills the optional fields in place.
func (m *Model) applyDefaults() {
	p := m.Platform
	if p.APIBaseURL == "" {
		p.APIBaseURL = DefaultAPIBaseURL
	}
	if p.Branch == "" {
		p.Branch = DefaultBranch
	}
	if p.EventType == "" {
		p.EventType = DefaultEventType
	}
	if p.StatePath == "" {
		p.StatePath = DefaultStatePath
	}

	c := m.CMS
	if c.PostIDsPath == "" {
		c.PostIDsPath = DefaultPostIDsPath
	}
	if c.ProcessedPath == "" {
		c.ProcessedPath = DefaultProcessedPath
	}
}

// validate rejects a model missing its required blocks. Required
// attributes inside the blocks are enforced by the HCL decoder itself.
func (m *Model) validate() error {
	if m.Platform == nil {
		return errors.New("config is missing the required 'platform' block")
	}
	if m.CMS == nil {
		return errors.New("config is missing the required 'cms' block")
	}
	return nil
}
