package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/finratio/internal/contracts"
	"github.com/wonny/finratio/internal/report"
	"github.com/wonny/finratio/internal/source"
	"github.com/wonny/finratio/internal/validate"
	"github.com/wonny/finratio/pkg/config"
	"github.com/wonny/finratio/pkg/logger"
)

// Stage names, in execution order
const (
	StageRead      = "S1:Read"
	StageValidate  = "S2:Validate"
	StageAggregate = "S3:Aggregate"
	StageWrite     = "S4:Write"
)

// Runner coordinates read → validate → aggregate → write
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Runner struct {
	source     contracts.TabularSource
	validator  contracts.RecordValidator
	aggregator contracts.TableAggregator
	writeOpts  report.WriteOptions

	logger *logger.Logger
}

// Request names the input and output files of one run
type Request struct {
	InputPath  string
	OutputPath string
}

// Summary describes a completed run
type Summary struct {
	RunID           string
	Input           string
	Output          string
	Periods         int
	Columns         int
	CompletedStages []string
	Duration        time.Duration

	// IgnoredColumns are input columns outside the vocabulary, dropped because extra columns are allowed
	IgnoredColumns []string
}

// NewRunner creates a runner from explicit stage implementations
func NewRunner(
	src contracts.TabularSource,
	validator contracts.RecordValidator,
	aggregator contracts.TableAggregator,
	writeOpts report.WriteOptions,
	log *logger.Logger,
) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		source:     src,
		validator:  validator,
		aggregator: aggregator,
		writeOpts:  writeOpts,
		logger:     log.WithComponent("analysis"),
	}
}

// NewFromConfig wires the standard stages from configuration
func NewFromConfig(cfg config.AnalysisConfig, log *logger.Logger) *Runner {
	return NewRunner(
		source.NewReader(source.Options{
			Sheet:     cfg.Sheet,
			Delimiter: cfg.DelimiterRune(),
		}, log),
		validate.New(validate.Options{
			DateLayout:        cfg.DateLayout,
			Location:          cfg.Location(),
			AllowExtraColumns: cfg.AllowExtraColumns,
		}, log),
		report.NewAggregator(nil, log),
		report.WriteOptions{
			Delimiter: cfg.DelimiterRune(),
			Precision: cfg.Precision,
		},
		log,
	)
}

// Run executes the complete pipeline and writes the unified table
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	startTime := time.Now()

	if req.InputPath == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if req.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}

	summary := &Summary{
		RunID:           uuid.New().String(),
		Input:           req.InputPath,
		Output:          req.OutputPath,
		CompletedStages: make([]string, 0, 4),
	}
	log := r.logger.WithField("run_id", summary.RunID)

	log.WithFields(map[string]interface{}{
		"input":  req.InputPath,
		"output": req.OutputPath,
	}).Info("Starting analysis run")

	rs, err := r.load(ctx, log, req.InputPath, summary)
	if err != nil {
		return summary, err
	}

	// S3: Aggregate
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	table, err := r.aggregator.Aggregate(rs)
	if err != nil {
		return summary, fmt.Errorf("%s failed: %w", StageAggregate, err)
	}
	summary.Columns = len(table.Names())
	summary.CompletedStages = append(summary.CompletedStages, StageAggregate)
	log.WithField("columns", summary.Columns).Info("S3 completed")

	// S4: Write
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if err := report.WriteFile(req.OutputPath, table, r.writeOpts); err != nil {
		return summary, fmt.Errorf("%s failed: %w", StageWrite, err)
	}
	summary.CompletedStages = append(summary.CompletedStages, StageWrite)

	summary.Duration = time.Since(startTime)
	log.WithFields(map[string]interface{}{
		"duration": summary.Duration.Seconds(),
		"periods":  summary.Periods,
		"columns":  summary.Columns,
	}).Info("Analysis run completed successfully")

	return summary, nil
}

// Check reads and validates the input without computing ratios
func (r *Runner) Check(ctx context.Context, inputPath string) (*contracts.RecordSet, *Summary, error) {
	startTime := time.Now()
	if inputPath == "" {
		return nil, nil, fmt.Errorf("input path is required")
	}
	summary := &Summary{RunID: uuid.New().String(), Input: inputPath}
	log := r.logger.WithField("run_id", summary.RunID)

	rs, err := r.load(ctx, log, inputPath, summary)
	if err != nil {
		return nil, summary, err
	}
	summary.Duration = time.Since(startTime)
	log.Infof("Input check passed: %d periods", rs.Len())
	return rs, summary, nil
}

// load runs S1 and S2
func (r *Runner) load(ctx context.Context, log *logger.Logger, path string, summary *Summary) (*contracts.RecordSet, error) {
	// S1: Read
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := r.source.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", StageRead, err)
	}
	summary.CompletedStages = append(summary.CompletedStages, StageRead)
	log.WithFields(map[string]interface{}{
		"columns": len(raw.Columns()),
		"rows":    raw.Rows(),
	}).Info("S1 completed")

	// S2: Validate
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rs, err := r.validator.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", StageValidate, err)
	}
	summary.Periods = rs.Len()
	summary.CompletedStages = append(summary.CompletedStages, StageValidate)
	log.WithField("periods", rs.Len()).Info("S2 completed")

	// validation passed, so anything outside the vocabulary was allowed and dropped
	if ignored := unknownColumns(raw); len(ignored) > 0 {
		summary.IgnoredColumns = ignored
		log.WithField("columns", ignored).Warn("Input columns outside the vocabulary were ignored")
	}

	return rs, nil
}

func unknownColumns(raw *contracts.RawTable) []string {
	var out []string
	for _, name := range raw.Columns() {
		if !contracts.IsLineItem(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
