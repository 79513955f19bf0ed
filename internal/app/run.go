package app

import (
	"context"
	"fmt"
	"time"

	"github.com/DataDeltas/autoCMSCheck/internal/controller"
	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
	"github.com/DataDeltas/autoCMSCheck/internal/dispatcher"
	"github.com/DataDeltas/autoCMSCheck/internal/finalizer"
	"github.com/DataDeltas/autoCMSCheck/internal/ghapi"
	"github.com/DataDeltas/autoCMSCheck/internal/guard"
	"github.com/DataDeltas/autoCMSCheck/internal/retry"
	"github.com/DataDeltas/autoCMSCheck/internal/session"
	"github.com/DataDeltas/autoCMSCheck/internal/store"
	"github.com/DataDeltas/autoCMSCheck/internal/task"
)

// advancer, nextScheduler and sessionFinalizer are the slices of the
// controller, dispatcher and finalizer the orchestration needs.
type advancer interface {
	Advance(ctx context.Context, limits session.Limits) (controller.Outcome, error)
}

type nextScheduler interface {
	ScheduleNext(ctx context.Context, delay time.Duration) error
}

type sessionFinalizer interface {
	Finalize(ctx context.Context, st session.State) error
}

// Run executes one quantum: domain work, then the continuation decision.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	gh := ghapi.New(ghapi.Config{
		BaseURL:    a.model.Platform.APIBaseURL,
		Token:      a.secrets.GitHubToken,
		Repository: a.model.Platform.Repository,
		Branch:     a.model.Platform.Branch,
		UserAgent:  a.secrets.UserAgent,
	})
	defer gh.Close()

	policy := retry.Policy{}
	st := store.NewGitHubStore(gh, a.model.Platform.StatePath, policy)

	proc := task.NewProcessor(gh, task.Config{
		LoginURL:      a.model.CMS.LoginURL,
		APIURL:        a.model.CMS.APIURL,
		ProjectID:     a.model.CMS.ProjectID,
		Email:         a.secrets.CMSEmail,
		Password:      a.secrets.CMSPassword,
		UserAgent:     a.secrets.UserAgent,
		PostIDsPath:   a.model.CMS.PostIDsPath,
		ProcessedPath: a.model.CMS.ProcessedPath,
	}, policy)
	defer proc.Close()

	ctrl := controller.New(st, guard.New(gh, a.model.Platform.WorkflowFile), nil)
	disp := dispatcher.New(gh, a.model.Platform.EventType, policy)
	fin := finalizer.New(st)

	out, err := runQuantum(ctx, proc, ctrl, disp, fin, a.appConfig.Limits())

	// Outputs are informational; publish them even on a failed quantum
	// as long as the state machine got far enough to have a run number.
	if out.State.CurrentRun > 0 {
		if werr := writeOutputs(a.secrets.OutputPath, out); werr != nil {
			a.logger.Warn("Could not write quantum outputs.", "error", werr)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return err
}

// runQuantum is the control flow of a single quantum over abstract
// collaborators. The decision trichotomy is enforced here: the dispatcher
// runs only on CONTINUE, the finalizer only on STOP, and neither on ABORT
// or any earlier failure.
func runQuantum(
	ctx context.Context,
	exec task.Executor,
	ctrl advancer,
	disp nextScheduler,
	fin sessionFinalizer,
	limits session.Limits,
) (controller.Outcome, error) {
	logger := ctxlog.FromContext(ctx)

	logger.Info("Task executor starting.")
	if err := exec.Run(ctx); err != nil {
		return controller.Outcome{}, fmt.Errorf("task executor: %w", err)
	}
	logger.Info("Task executor finished.")

	out, err := ctrl.Advance(ctx, limits)
	if err != nil {
		return out, err
	}

	switch out.Decision {
	case controller.DecisionContinue:
		if err := disp.ScheduleNext(ctx, limits.Sleep); err != nil {
			return out, err
		}
	case controller.DecisionStop:
		if err := fin.Finalize(ctx, out.State); err != nil {
			return out, err
		}
	}

	return out, nil
}
