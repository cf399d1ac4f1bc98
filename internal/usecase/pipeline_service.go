package usecase

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/bluelinehq/rinkline/internal/config"
	"github.com/bluelinehq/rinkline/internal/domain/dimension"
	"github.com/bluelinehq/rinkline/internal/domain/fact"
	"github.com/bluelinehq/rinkline/internal/domain/groundtruth"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/domain/rawdata"
	"github.com/bluelinehq/rinkline/internal/domain/snapshot"
	"github.com/bluelinehq/rinkline/internal/export"
	"github.com/bluelinehq/rinkline/internal/pipeline/enhance"
	"github.com/bluelinehq/rinkline/internal/pipeline/resolve"
	"github.com/bluelinehq/rinkline/internal/pipeline/segment"
	"github.com/bluelinehq/rinkline/internal/pipeline/stats"
	"github.com/bluelinehq/rinkline/internal/pipeline/validate"
	"github.com/bluelinehq/rinkline/internal/platform/id"
	"github.com/bluelinehq/rinkline/internal/platform/logging"
	"github.com/bluelinehq/rinkline/internal/platform/resilience"
)

// RunMode selects what a pipeline run does; see the run-mode contract in
// the CLI.
type RunMode string

const (
	ModeFullRebuild  RunMode = "full_rebuild"
	ModeIncremental  RunMode = "incremental"
	ModeValidateOnly RunMode = "validate_only"
	ModeGroundTruth  RunMode = "ground_truth"
)

const ruleSnapshotMismatch = "QA-120"

type RunInput struct {
	Mode    RunMode
	GameIDs []string
	// AcceptChanges replaces the accepted snapshot on an intentional
	// output change instead of failing the rebuild.
	AcceptChanges bool
}

type GameReport struct {
	GameID     string
	Status     qa.RunStatus
	Findings   []qa.Finding
	FactRows   int
	DurationMs int64
}

type RunResult struct {
	RunID      string
	Mode       RunMode
	Status     qa.RunStatus
	Games      []GameReport
	Findings   []qa.Finding
	StartedAt  time.Time
	FinishedAt time.Time
}

// PipelineService drives the game transformation phases in order:
// enhance, segment, resolve, build stats, validate. Independent games run
// in parallel; nothing mutable is shared across games except the
// read-only registry.
type PipelineService struct {
	thresholds      config.Thresholds
	workerCount     int
	rawRepo         rawdata.Repository
	dimensionRepo   dimension.Repository
	resolutionRepo  dimension.ResolutionRepository
	factRepo        fact.Repository
	findingRepo     qa.FindingRepository
	groundTruthRepo groundtruth.Repository
	snapshotRepo    snapshot.Repository
	statsRegistry   *stats.Registry
	ids             id.Generator
	logger          *logging.Logger
	now             func() time.Time
	rebuildFlight   resilience.SingleFlight
}

func NewPipelineService(
	cfg config.Config,
	rawRepo rawdata.Repository,
	dimensionRepo dimension.Repository,
	resolutionRepo dimension.ResolutionRepository,
	factRepo fact.Repository,
	findingRepo qa.FindingRepository,
	groundTruthRepo groundtruth.Repository,
	snapshotRepo snapshot.Repository,
	logger *logging.Logger,
) (*PipelineService, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if rawRepo == nil || dimensionRepo == nil || resolutionRepo == nil || factRepo == nil ||
		findingRepo == nil || groundTruthRepo == nil || snapshotRepo == nil {
		return nil, fmt.Errorf("%w: all repositories are required", ErrDependencyUnavailable)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		thresholds:      cfg.Thresholds,
		workerCount:     cfg.WorkerCount,
		rawRepo:         rawRepo,
		dimensionRepo:   dimensionRepo,
		resolutionRepo:  resolutionRepo,
		factRepo:        factRepo,
		findingRepo:     findingRepo,
		groundTruthRepo: groundTruthRepo,
		snapshotRepo:    snapshotRepo,
		statsRegistry:   stats.DefaultRegistry(),
		ids:             id.NewUUIDGenerator(),
		logger:          logger,
		now:             time.Now,
	}, nil
}

func (s *PipelineService) Run(ctx context.Context, input RunInput) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	switch input.Mode {
	case ModeFullRebuild:
		// overlapping rebuild requests collapse into one run
		out, err, _ := s.rebuildFlight.Do("rebuild:all", func() (any, error) {
			return s.runOnce(ctx, input)
		})
		if err != nil {
			return RunResult{}, err
		}
		return out.(RunResult), nil
	case ModeIncremental, ModeValidateOnly, ModeGroundTruth:
		return s.runOnce(ctx, input)
	default:
		return RunResult{}, fmt.Errorf("%w: %q", ErrUnknownRunMode, input.Mode)
	}
}

func (s *PipelineService) runOnce(ctx context.Context, input RunInput) (RunResult, error) {
	startedAt := s.now().UTC()
	runID := s.ids.NewID()

	entities, err := s.dimensionRepo.ListEntities(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("load dimension registry: %w", err)
	}
	registry := dimension.NewRegistry(entities)

	playerRequired, teamRequired := s.statsRegistry.GrainEntityTypes()
	requiredTypes := map[dimension.EntityType]bool{
		dimension.TypePlayer: playerRequired,
		dimension.TypeTeam:   teamRequired,
	}
	resolver, err := resolve.NewResolver(
		registry,
		resolve.NewLevenshteinScorer(),
		s.thresholds.FuzzyMinConfidence,
		s.thresholds.FuzzyAmbiguityMargin,
		requiredTypes,
	)
	if err != nil {
		return RunResult{}, fmt.Errorf("build resolver: %w", err)
	}

	gameIDs := input.GameIDs
	if input.Mode == ModeFullRebuild || len(gameIDs) == 0 {
		gameIDs, err = s.rawRepo.ListGameIDs(ctx)
		if err != nil {
			return RunResult{}, fmt.Errorf("list game ids: %w", err)
		}
	}
	if len(gameIDs) == 0 {
		return RunResult{}, fmt.Errorf("%w: no games to process", ErrInvalidInput)
	}

	if input.Mode == ModeFullRebuild {
		if err := s.factRepo.DeleteAll(ctx); err != nil {
			return RunResult{}, fmt.Errorf("wipe derived facts: %w", err)
		}
	}

	results := make(chan GameReport, len(gameIDs))
	var failedCount atomic.Int32

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return RunResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, gameID := range gameIDs {
		gameID := gameID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			report := s.processGame(ctx, registry, resolver, runID, gameID, input)
			report.DurationMs = time.Since(start).Milliseconds()
			if report.Status == qa.StatusFailed {
				failedCount.Add(1)
			}
			results <- report
		}); err != nil {
			workers.Done()
			return RunResult{}, fmt.Errorf("submit game %s to worker pool: %w", gameID, err)
		}
	}

	workers.Wait()
	close(results)

	result := RunResult{RunID: runID, Mode: input.Mode, StartedAt: startedAt}
	for report := range results {
		result.Games = append(result.Games, report)
		result.Findings = append(result.Findings, report.Findings...)
	}
	sort.SliceStable(result.Games, func(i, j int) bool {
		return result.Games[i].GameID < result.Games[j].GameID
	})

	result.Status = qa.StatusFor(result.Findings)
	result.FinishedAt = s.now().UTC()

	if input.Mode != ModeValidateOnly {
		if err := s.findingRepo.SaveFindings(ctx, runID, result.Findings); err != nil {
			return RunResult{}, fmt.Errorf("save findings: %w", err)
		}
		if err := s.findingRepo.SaveReport(ctx, qa.Report{
			RunID:      runID,
			Status:     result.Status,
			Findings:   result.Findings,
			StartedAt:  result.StartedAt,
			FinishedAt: result.FinishedAt,
		}); err != nil {
			return RunResult{}, fmt.Errorf("save run report: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "pipeline run finished",
		"run_id", runID,
		"mode", string(input.Mode),
		"status", string(result.Status),
		"games", len(result.Games),
		"failed_games", failedCount.Load(),
		"blocking", qa.CountByTier(result.Findings, qa.TierBlocking),
		"warnings", qa.CountByTier(result.Findings, qa.TierWarning),
	)

	return result, nil
}

// processGame runs every phase for one game. Phase errors surface as
// blocking findings so the run always terminates with a status and a
// complete report.
func (s *PipelineService) processGame(
	ctx context.Context,
	registry *dimension.Registry,
	resolver *resolve.Resolver,
	runID, gameID string,
	input RunInput,
) GameReport {
	report := GameReport{GameID: gameID}

	var (
		eventRows []rawdata.EventRow
		shiftRows []rawdata.ShiftRow
		eventErr  error
		shiftErr  error
	)
	var loaders conc.WaitGroup
	loaders.Go(func() {
		eventRows, eventErr = s.rawRepo.ListEventRowsByGame(ctx, gameID)
	})
	loaders.Go(func() {
		shiftRows, shiftErr = s.rawRepo.ListShiftRowsByGame(ctx, gameID)
	})
	loaders.Wait()
	if eventErr != nil {
		return failedReport(report, "events", fmt.Sprintf("load raw events: %v", eventErr))
	}
	if shiftErr != nil {
		return failedReport(report, "shifts", fmt.Sprintf("load raw shifts: %v", shiftErr))
	}

	events, eventFindings := enhance.NewEventEnhancer(s.thresholds.GoalFilterStrict).Enhance(eventRows)
	shifts, shiftFindings := enhance.NewShiftEnhancer(s.thresholds.ShiftOverlapToleranceSeconds).Enhance(shiftRows)
	report.Findings = append(report.Findings, eventFindings...)
	report.Findings = append(report.Findings, shiftFindings...)

	events = segment.NewSegmenter().Segment(events)

	events, eventResolutions, resolveFindings := resolver.ResolveEvents(events)
	report.Findings = append(report.Findings, resolveFindings...)
	shifts, shiftResolutions, shiftResolveFindings := resolver.ResolveShifts(shifts)
	report.Findings = append(report.Findings, shiftResolveFindings...)
	resolutions := append(eventResolutions, shiftResolutions...)

	facts, statFindings := s.statsRegistry.Build(stats.View{GameID: gameID, Events: events, Shifts: shifts})
	report.Findings = append(report.Findings, statFindings...)
	report.FactRows = len(facts)

	dataset := &validate.Dataset{
		GameID:      gameID,
		Events:      events,
		Shifts:      shifts,
		Facts:       facts,
		Resolutions: resolutions,
		Registry:    registry,
	}

	rules := validate.DefaultRules(s.thresholds.UnresolvedWarningRate)
	if input.Mode == ModeGroundTruth {
		references, err := s.groundTruthRepo.ListByGame(ctx, gameID)
		if err != nil {
			return failedReport(report, "ground_truth", fmt.Sprintf("load ground truth: %v", err))
		}
		dataset.References = references
		rules = append(rules, validate.GroundTruthRule{})
	}
	report.Findings = append(report.Findings, validate.NewRunner(rules...).Run(dataset)...)

	if input.Mode == ModeFullRebuild {
		if finding, ok := s.verifySnapshot(ctx, gameID, facts, input.AcceptChanges); !ok {
			report.Findings = append(report.Findings, finding)
		}
	}

	report.Status = qa.StatusFor(report.Findings)

	if input.Mode == ModeValidateOnly {
		return report
	}

	if err := s.resolutionRepo.SaveResolutions(ctx, runID, resolutions); err != nil {
		return failedReport(report, "resolutions", fmt.Sprintf("save resolution audit: %v", err))
	}

	// blocking findings gate publication of this game's tables
	if report.Status != qa.StatusFailed {
		if err := s.factRepo.ReplaceByGame(ctx, gameID, facts); err != nil {
			return failedReport(report, "facts", fmt.Sprintf("persist facts: %v", err))
		}
	}

	return report
}

// verifySnapshot compares the freshly built output against the accepted
// snapshot byte for byte. A first build is accepted as the baseline; a
// divergence fails the rebuild unless the change was explicitly accepted.
func (s *PipelineService) verifySnapshot(ctx context.Context, gameID string, facts []fact.Row, acceptChanges bool) (qa.Finding, bool) {
	encoded, err := export.EncodeTables(gameID, facts)
	if err != nil {
		return blockingFinding("snapshots", gameID, fmt.Sprintf("encode output snapshot: %v", err)), false
	}

	accepted, exists, err := s.snapshotRepo.Get(ctx, gameID)
	if err != nil {
		return blockingFinding("snapshots", gameID, fmt.Sprintf("load accepted snapshot: %v", err)), false
	}

	if !exists || acceptChanges {
		if err := s.snapshotRepo.Put(ctx, gameID, encoded); err != nil {
			return blockingFinding("snapshots", gameID, fmt.Sprintf("store accepted snapshot: %v", err)), false
		}
		return qa.Finding{}, true
	}

	if bytes.Equal(accepted, encoded) {
		return qa.Finding{}, true
	}

	diff := ""
	if before, derr := export.DecodeTables(accepted); derr == nil {
		if after, derr := export.DecodeTables(encoded); derr == nil {
			diff = cmp.Diff(before.Facts, after.Facts)
		}
	}
	return qa.Finding{
		Tier:    qa.TierBlocking,
		RuleID:  ruleSnapshotMismatch,
		Table:   "snapshots",
		RowRef:  gameID,
		Message: fmt.Sprintf("rebuild output diverged from accepted snapshot for %s:\n%s", gameID, diff),
	}, false
}

func failedReport(report GameReport, table, message string) GameReport {
	report.Findings = append(report.Findings, blockingFinding(table, report.GameID, message))
	report.Status = qa.StatusFailed
	return report
}

func blockingFinding(table, rowRef, message string) qa.Finding {
	return qa.Finding{
		Tier:    qa.TierBlocking,
		RuleID:  "RUN-001",
		Table:   table,
		RowRef:  rowRef,
		Message: message,
	}
}
