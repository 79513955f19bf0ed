package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
)

// Load parses the HCL configuration file at path into a validated Model
// with defaults applied.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Config loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var model Model
	if diags := gohcl.DecodeBody(file.Body, nil, &model); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	if err := model.validate(); err != nil {
		return nil, err
	}
	model.applyDefaults()

	logger.Debug("Config loaded.",
		"repository", model.Platform.Repository,
		"workflow_file", model.Platform.WorkflowFile,
		"state_path", model.Platform.StatePath,
	)
	return &model, nil
}
