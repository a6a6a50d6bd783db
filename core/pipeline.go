package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/huangsam/gauge/core/agg"
	"github.com/huangsam/gauge/core/dsm"
	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/newcode"
	"github.com/huangsam/gauge/core/period"
	"github.com/huangsam/gauge/core/qgate"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/core/variation"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
)

// Feeder stores the raw measures of a run.
type Feeder interface {
	Feed(t *tree.Tree, store *measure.Store, catalog *metric.Catalog) error
}

// Step is one stage of the computation pipeline.
type Step interface {
	Name() string
	Execute(ctx context.Context, run *Run) error
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, run *Run) error
}

// Name returns the step name.
func (s StepFunc) Name() string { return s.StepName }

// Execute runs the function.
func (s StepFunc) Execute(ctx context.Context, run *Run) error { return s.Fn(ctx, run) }

// Run is the state of one analysis. It is owned by a single goroutine.
type Run struct {
	Tree         *tree.Tree
	Store        *measure.Store
	Catalog      *metric.Catalog
	Periods      *period.Set
	Gate         *schema.QualityGate // nil disables the gate step
	Rating       *agg.RatingModel    // nil keeps the default model
	DSMThreshold int
	Dependencies []schema.Dependency
	LineChanges  []newcode.FileLines
	AnalysisDate time.Time
	Archive      variation.Archive // nil disables variations
	Feeder       Feeder
	Logger       *slog.Logger

	Result RunResult
}

// RunResult collects what the steps produced besides measures.
type RunResult struct {
	Gate *schema.GateResult
	DSM  []*dsm.Result
}

func (r *Run) logger() *slog.Logger {
	if r.Logger == nil {
		return contract.NewDiscardLogger()
	}
	return r.Logger
}

// Execute runs the steps in order and stops at the first failure, wrapped with the step name.
func Execute(ctx context.Context, run *Run, steps ...Step) error {
	log := run.logger()
	start := time.Now()
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		stepStart := time.Now()
		if err := step.Execute(ctx, run); err != nil {
			log.Debug("step failed", "step", step.Name(), "error", err)
			return fmt.Errorf("step %s: %w", step.Name(), err)
		}
		log.Debug("step done", "step", step.Name(), "duration", time.Since(stepStart), "measures", run.Store.Len())
	}
	log.Info("pipeline done",
		"components", run.Tree.Len(),
		"measures", run.Store.Len(),
		"periods", run.Periods.Len(),
		"duration", time.Since(start))
	return nil
}

// DefaultSteps returns the pipeline in its evaluation order.
func DefaultSteps() []Step {
	return []Step{
		StepFunc{"feed", feedStep},
		StepFunc{"counts", countsStep},
		StepFunc{"aggregate", aggregateStep},
		StepFunc{"newcode", newCodeStep},
		StepFunc{"dsm", dsmStep},
		StepFunc{"variations", variationsStep},
		StepFunc{"gate", gateStep},
	}
}

func feedStep(_ context.Context, run *Run) error {
	if run.Feeder == nil {
		return nil
	}
	return run.Feeder.Feed(run.Tree, run.Store, run.Catalog)
}

func countsStep(_ context.Context, run *Run) error {
	return agg.CountComponents(run.Tree, run.Store)
}

func aggregateStep(_ context.Context, run *Run) error {
	formulas := agg.DefaultFormulas()
	if run.Rating != nil {
		for i := range formulas {
			if formulas[i].Kind == agg.WeightedRating {
				formulas[i].Rating = run.Rating
			}
		}
	}
	return agg.Aggregate(run.Tree, run.Store, run.Catalog, formulas...)
}

func newCodeStep(_ context.Context, run *Run) error {
	return newcode.Compute(run.Tree, run.Store, run.Catalog, run.Periods, run.LineChanges, run.AnalysisDate)
}

func dsmStep(_ context.Context, run *Run) error {
	results := dsm.Builder{Threshold: run.DSMThreshold}.BuildAll(run.Tree, run.Dependencies)
	for _, r := range results {
		if r.Skipped {
			run.logger().Debug("dsm skipped", "component", r.Node.Key)
			continue
		}
		run.Store.Put(r.Node.Ref, metric.DSM, measure.New(measure.Bytes(dsm.Encode(r.Data))))
		run.Store.Put(r.Node.Ref, metric.DependencyCycles, measure.New(measure.Int(r.Cycles)))
		run.Store.Put(r.Node.Ref, metric.TangledComponents, measure.New(measure.Int(r.Tangled)))
	}
	run.Result.DSM = results
	return nil
}

func variationsStep(ctx context.Context, run *Run) error {
	if run.Archive == nil {
		return nil
	}
	calc := &variation.Calculator{Catalog: run.Catalog, Archive: run.Archive, Periods: run.Periods}
	return calc.ComputeAll(ctx, run.Tree, run.Store)
}

func gateStep(_ context.Context, run *Run) error {
	res, err := qgate.Evaluate(run.Tree, run.Store, run.Catalog, run.Gate)
	if err != nil {
		return err
	}
	run.Result.Gate = res
	return nil
}
