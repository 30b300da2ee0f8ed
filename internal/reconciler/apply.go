package reconciler

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// Applier sends label updates to the remote task service.
type Applier struct {
	writer  LabelWriter
	config  ApplierConfig
	metrics *ReconcilerMetrics
}

// NewApplier creates an Applier. A nil metrics uses the global instance.
func NewApplier(writer LabelWriter, config ApplierConfig, metrics *ReconcilerMetrics) *Applier {
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if metrics == nil {
		metrics = GetReconcilerMetrics()
	}
	return &Applier{writer: writer, config: config, metrics: metrics}
}

// DryRun reports whether updates are withheld.
func (a *Applier) DryRun() bool {
	return a.config.DryRun
}

// Apply creates missing labels when the writer supports it, then sends every
// update with bounded concurrency. It returns once all calls have finished.
// Failures are collected per task; one failure never stops the others.
func (a *Applier) Apply(ctx context.Context, updates []LabelUpdate, existingLabels []string) ApplyResult {
	result := ApplyResult{MissingLabels: MissingLabels(updates, existingLabels)}

	if a.config.DryRun {
		for _, u := range updates {
			logging.Info("Reconciler", "[dry-run] %s", describe(u))
			a.metrics.RecordUpdateWithheld(u)
		}
		for _, l := range result.MissingLabels {
			logging.Info("Reconciler", "[dry-run] would create personal label %q", l)
		}
		result.Withheld = len(updates)
		return result
	}

	if len(updates) == 0 {
		return result
	}

	a.createMissing(ctx, &result)

	errs := make([]error, len(updates))

	var g errgroup.Group
	g.SetLimit(a.config.Concurrency)
	for i, u := range updates {
		g.Go(func() error {
			errs[i] = a.applyOne(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	for i, u := range updates {
		if errs[i] == nil {
			result.Applied++
			a.metrics.RecordUpdateApplied(u)
			continue
		}
		applyErr := &UpdateApplyError{TaskID: u.TaskID, TaskName: u.TaskName, Labels: u.Labels, Err: errs[i]}
		result.Failures = append(result.Failures, applyErr)
		a.metrics.RecordUpdateFailure(u, errs[i].Error())
		logging.Error("Reconciler", errs[i], "Failed to update labels on %q", u.TaskName)
	}
	return result
}

func (a *Applier) applyOne(ctx context.Context, u LabelUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	callCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	logging.Info("Reconciler", "%s", describe(u))
	return a.writer.ApplyLabelUpdate(callCtx, u.TaskID, u.Labels)
}

func (a *Applier) createMissing(ctx context.Context, result *ApplyResult) {
	creator, ok := a.writer.(LabelCreator)
	if !ok {
		return
	}
	for _, name := range result.MissingLabels {
		callCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
		err := creator.CreateLabel(callCtx, name)
		cancel()
		if err != nil {
			// Todoist accepts unknown label names on tasks, so updates still go out.
			logging.Warn("Reconciler", "Failed to create personal label %q: %v", name, err)
			result.LabelFailures = append(result.LabelFailures, fmt.Errorf("create label %q: %w", name, err))
			continue
		}
		logging.Info("Reconciler", "Created personal label %q", name)
		result.LabelsCreated = append(result.LabelsCreated, name)
	}
}

func describe(u LabelUpdate) string {
	return fmt.Sprintf("task %q: add %v remove %v", u.TaskName, u.Add, u.Remove)
}
