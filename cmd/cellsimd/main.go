package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cellsim/cellsim/internal/sim/common/log"
	"github.com/cellsim/cellsim/internal/sim/common/rng"
	"github.com/cellsim/cellsim/internal/sim/config"
	"github.com/cellsim/cellsim/internal/sim/domain"
	"github.com/cellsim/cellsim/internal/sim/gateways/logsink"
	"github.com/cellsim/cellsim/internal/sim/infra/ratecontainer"
	"github.com/cellsim/cellsim/internal/sim/infra/snapshot"
	"github.com/cellsim/cellsim/internal/sim/repos/cellstate"
	"github.com/cellsim/cellsim/internal/sim/services/engine"
	"github.com/cellsim/cellsim/internal/sim/services/ratemanager"
	"github.com/cellsim/cellsim/internal/sim/services/schedule"
	"github.com/cellsim/cellsim/internal/sim/services/solver"
)

const (
	version = "0.1.0-dev"
	appName = "cellsimd"
)

// Application holds every wired component of a simulation run.
type Application struct {
	config          *config.AppConfig
	engine          *engine.Engine
	state           *cellstate.CellState
	chem            *logsink.ChemicalLog
	rxn             *logsink.ReactionLog
	store           *snapshot.Store
	maxSteps        int
	maxTime         float64
	checkpointEvery int
}

func main() {
	checkpointEvery := flag.Int("checkpoint-every", -1, "override snapshot interval (performed reactions between checkpoints); -1 keeps the configured value")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if *checkpointEvery >= 0 {
		cfg.Snapshot.IntervalSteps = *checkpointEvery
	}

	if err := log.Configure(cfg.Env, cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":      version,
		"env":          cfg.Env,
		"log_level":    cfg.Log.Level,
		"seed":         cfg.Solver.Seed,
		"rate_manager": cfg.Solver.RateManager,
	}, "starting cellsimd")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "failed to build application")
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stop
		log.Info(map[string]any{"signal": sig.String()}, "shutdown signal received, stopping after the current reaction")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "simulation run failed")
	}

	log.Info(nil, "cellsimd stopped gracefully")
}

// buildApplication constructs a cell state, solver, and engine, and wires
// a small bootstrap reaction network directly through CellState's
// registration methods. A real deployment registers entities through an
// external parser satisfying gateways/inputparser.Registrar instead; none
// ships here.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	state, err := cellstate.New(cfg.Solver.Volume, rng.NewRealSource(cfg.Solver.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to build cell state: %w", err)
	}

	reactions, err := bootstrapNetwork(state)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap reaction network: %w", err)
	}

	container, err := buildRateContainer(cfg.Solver.RateContainer, len(reactions))
	if err != nil {
		return nil, fmt.Errorf("failed to build rate container: %w", err)
	}

	variant, err := parseVariant(cfg.Solver.RateManager)
	if err != nil {
		return nil, fmt.Errorf("invalid rate manager: %w", err)
	}
	manager, err := ratemanager.New(variant, reactions, container)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate manager: %w", err)
	}

	slv := solver.New(solver.Options{
		Reactions: reactions,
		Manager:   manager,
		Schedule:  schedule.New(),
		State:     state,
		Logger:    logger,
	})

	eng := engine.New(engine.Options{
		State:   state,
		Solver:  slv,
		Manager: manager,
		Policy:  engine.PolicyCounted,
		Logger:  logger,
	})

	ids := state.FreeChemicalIDs()
	chem, err := logsink.NewChemicalLog(filepath.Join(cfg.Snapshot.Directory, "chemicals.csv"), ids, chemicalNames(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to open chemical log: %w", err)
	}
	rxn, err := logsink.NewReactionLog(filepath.Join(cfg.Snapshot.Directory, "reactions.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to open reaction log: %w", err)
	}

	var store *snapshot.Store
	if cfg.Snapshot.IntervalSteps > 0 {
		store, err = snapshot.Open(filepath.Join(cfg.Snapshot.Directory, "checkpoint.bolt"))
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
	}

	return &Application{
		config:          cfg,
		engine:          eng,
		state:           state,
		chem:            chem,
		rxn:             rxn,
		store:           store,
		maxSteps:        cfg.Solver.MaxSteps,
		maxTime:         cfg.Solver.MaxTime,
		checkpointEvery: cfg.Snapshot.IntervalSteps,
	}, nil
}

// bootstrapNetwork registers a minimal reversible reaction A<=>B and
// returns its reactions in index order.
func bootstrapNetwork(state *cellstate.CellState) ([]*domain.Reaction, error) {
	a, err := domain.NewFreeChemical(1, "A", 100)
	if err != nil {
		return nil, err
	}
	b, err := domain.NewFreeChemical(2, "B", 0)
	if err != nil {
		return nil, err
	}
	state.AddFreeChemical(a)
	state.AddFreeChemical(b)

	forward := domain.NewReaction(0, domain.KindChemical, &domain.ChemicalReaction{
		ReactantIDs: []int{1}, ReactantStoich: []int{1},
		ProductIDs: []int{2}, ProductStoich: []int{1}, RateConstant: 1.0,
	})
	backward := domain.NewReaction(1, domain.KindChemical, &domain.ChemicalReaction{
		ReactantIDs: []int{2}, ReactantStoich: []int{1},
		ProductIDs: []int{1}, ProductStoich: []int{1}, RateConstant: 0.5,
	})
	return []*domain.Reaction{forward, backward}, nil
}

// chemicalNames maps the bootstrap network's free chemical ids (A=1, B=2)
// to names, in the same order as ids; a registrar-driven network would
// carry names through registration instead.
func chemicalNames(ids []int) []string {
	names := map[int]string{1: "A", 2: "B"}
	out := make([]string, len(ids))
	for i, id := range ids {
		if n, ok := names[id]; ok {
			out[i] = n
		} else {
			out[i] = fmt.Sprintf("chem_%d", id)
		}
	}
	return out
}

func buildRateContainer(kind string, n int) (ratecontainer.Container, error) {
	switch kind {
	case "vector":
		return ratecontainer.NewVector(n), nil
	case "tree":
		return ratecontainer.NewTree(n), nil
	case "hybrid":
		return ratecontainer.NewHybrid(n), nil
	default:
		return nil, fmt.Errorf("unknown rate container %q", kind)
	}
}

func parseVariant(s string) (ratemanager.Variant, error) {
	switch ratemanager.Variant(s) {
	case ratemanager.VariantNaive, ratemanager.VariantDependency, ratemanager.VariantGraph:
		return ratemanager.Variant(s), nil
	default:
		return "", fmt.Errorf("unknown rate manager variant %q", s)
	}
}

// Run drives the simulation until no reaction is possible, a configured
// bound is hit, or ctx is canceled, writing one log row per reaction fired;
// the reaction that brings simulation time to the configured max time
// returns before its row is written.
// ctx is checked once per loop iteration, so a cancellation stops the run
// after the in-flight reaction completes rather than mid-step.
func (app *Application) Run(ctx context.Context) error {
	steps := 0
	for {
		select {
		case <-ctx.Done():
			log.Info(map[string]any{"steps": steps}, "context canceled, stopping")
			return nil
		default:
		}

		if app.maxSteps > 0 && steps >= app.maxSteps {
			log.Info(map[string]any{"steps": steps}, "max steps reached")
			return nil
		}
		idx, _, err := app.engine.PerformNextReaction()
		if err == solver.ErrNoReaction {
			log.Info(map[string]any{"steps": steps, "sim_time": app.engine.SimulationTime()}, "no reaction possible, stopping")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reaction step failed: %w", err)
		}
		steps++

		if app.maxTime > 0 && app.engine.SimulationTime() >= app.maxTime {
			log.Info(map[string]any{"steps": steps, "sim_time": app.engine.SimulationTime()}, "max time reached")
			return nil
		}

		if err := app.rxn.WriteFiring(app.engine.SimulationTime(), uint64(steps), idx); err != nil {
			log.Warn(map[string]any{"error": err}, "failed to write reaction log row")
		}
		if err := app.chem.WriteSnapshot(app.engine.SimulationTime(), uint64(steps), app.state); err != nil {
			log.Warn(map[string]any{"error": err}, "failed to write chemical log row")
		}

		if app.store != nil && app.checkpointEvery > 0 && steps%app.checkpointEvery == 0 {
			if err := app.store.Save(app.buildSnapshot(steps)); err != nil {
				log.Warn(map[string]any{"error": err, "steps": steps}, "failed to save checkpoint")
			}
		}
	}
}

// buildSnapshot reads every free and bound reactant out of app.state into
// a persistable snapshot.Snapshot.
func (app *Application) buildSnapshot(step int) snapshot.Snapshot {
	free := make(map[int]int)
	for _, id := range app.state.FreeChemicalIDs() {
		free[id] = app.state.FreeCount(id)
	}
	bound := make(map[int][]domain.BoundUnit)
	for _, id := range app.state.BoundChemicalIDs() {
		n := app.state.BoundCount(id)
		units := make([]domain.BoundUnit, 0, n)
		for i := 0; i < n; i++ {
			u, err := app.state.BoundUnitAt(id, i)
			if err != nil {
				continue
			}
			units = append(units, u)
		}
		bound[id] = units
	}
	return snapshot.Snapshot{
		SimTime:    app.engine.SimulationTime(),
		Step:       uint64(step),
		FreeCounts: free,
		BoundUnits: bound,
	}
}

// Close flushes and closes every owned log and store.
func (app *Application) Close() {
	if app.chem != nil {
		_ = app.chem.Close()
	}
	if app.rxn != nil {
		_ = app.rxn.Close()
	}
	if app.store != nil {
		_ = app.store.Close()
	}
}
