package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Secrets holds credentials and platform-injected values. They come from
// the environment only: the workflow definition maps repository secrets
// into these variables, and they must never appear in the HCL file.
type Secrets struct {
	GitHubToken string `env:"GITHUB_TOKEN,required"`
	CMSEmail    string `env:"CMS_EMAIL,required"`
	CMSPassword string `env:"CMS_PASSWORD,required"`
	UserAgent   string `env:"USER_AGENT,required"`

	// Repository is set by the platform on every run; it backs the
	// platform block's repository default.
	Repository string `env:"GITHUB_REPOSITORY"`
	// OutputPath, when set, names the file quantum outputs are appended to.
	OutputPath string `env:"GITHUB_OUTPUT"`
}

// ParseSecrets loads Secrets from the environment. Missing required
// variables are reported together by the env library, mirroring the
// startup validation the workflow relies on.
func ParseSecrets() (*Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &s, nil
}
