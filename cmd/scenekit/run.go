package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/scenekit/scenekit/internal/component"
	"github.com/scenekit/scenekit/internal/config"
	"github.com/scenekit/scenekit/internal/core/ecs"
	"github.com/scenekit/scenekit/internal/core/event"
	coresys "github.com/scenekit/scenekit/internal/core/system"
	"github.com/scenekit/scenekit/internal/data"
	"github.com/scenekit/scenekit/internal/persist"
	"github.com/scenekit/scenekit/internal/pool"
	"github.com/scenekit/scenekit/internal/scene"
	"github.com/scenekit/scenekit/internal/scripting"
	"github.com/scenekit/scenekit/internal/system"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "v0.1.0"

type runOptions struct {
	profile string
	spawn   map[string]int
	restore bool
	out     io.Writer // nil = stdout
}

func newRunCmd(load func() (*config.Config, error)) *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load archetypes and scripts, then run the frame loop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.profile, "profile", "", "write a cpu or mem profile to the working directory")
	cmd.Flags().StringToIntVar(&opts.spawn, "spawn", nil, "initial entities per archetype, e.g. enemy=3,coin=10")
	cmd.Flags().BoolVar(&opts.restore, "restore", false, "restore the latest stored snapshot before starting")
	return cmd
}

func startProfile(kind string) (interface{ Stop() }, error) {
	switch kind {
	case "":
		return nil, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook), nil
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook), nil
	}
	return nil, fmt.Errorf("unknown profile %q (want cpu or mem)", kind)
}

func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := opts.out
	if out == nil {
		out = os.Stdout
	}

	// 1. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	prof, err := startProfile(opts.profile)
	if err != nil {
		return err
	}
	if prof != nil {
		defer prof.Stop()
	}

	printBanner(out, version)

	// 2. Load data tables
	printSection(out, "data")
	types := ecs.NewComponentTypes()
	component.Register(types)

	prefabs, err := data.LoadPrefabTable(cfg.Data.Prefabs)
	if err != nil {
		return fmt.Errorf("prefabs: %w", err)
	}
	printStat(out, "prefabs", prefabs.Count())

	archetypes, err := data.LoadArchetypeTable(cfg.Data.Archetypes, types)
	if err != nil {
		return fmt.Errorf("archetypes: %w", err)
	}
	printStat(out, "archetypes", archetypes.Count())

	// 3. Registry, pool and bus
	nodes := pool.New(prefabs.Factory(), cfg.Pool.MaxIdlePerPrefab, log.Named("pool"))
	defer nodes.Clear()
	bus := event.NewBus()
	entities := ecs.NewManager(log.Named("ecs"), ecs.WithPool(nodes), ecs.WithBus(bus))
	registered := archetypes.Apply(entities)
	printStat(out, "registered archetypes", registered)

	if cfg.Pool.Prewarm > 0 {
		for _, path := range archetypes.Prefabs() {
			if err := nodes.Prewarm(ctx, path, cfg.Pool.Prewarm); err != nil {
				return fmt.Errorf("prewarm %s: %w", path, err)
			}
		}
		printOK(out, fmt.Sprintf("pool prewarmed (%d per prefab)", cfg.Pool.Prewarm))
	}

	// 4. Lua scripts
	luaEngine, err := scripting.NewEngine(cfg.Scripts.Dir, entities, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer luaEngine.Close()
	luaEngine.RegisterTypes(types)
	printOK(out, "lua engine ready")
	fmt.Fprintln(out)

	// 5. Optional persistence
	var store system.SnapshotStore
	var repo *persist.SnapshotRepo
	if cfg.Database.Enabled {
		printSection(out, "database")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		db, err := persist.NewDB(dbCtx, cfg.Database, log.Named("db"))
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK(out, "PostgreSQL connected")
		schema, err := persist.RunMigrations(dbCtx, db.Pool, log.Named("db"))
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printStat(out, "schema version", int(schema))
		repo = persist.NewSnapshotRepo(db)
		store = repo
		fmt.Fprintln(out)
	}

	// 6. Populate the scene
	root := scene.NewNode("root")
	if opts.restore {
		if repo == nil {
			return fmt.Errorf("--restore needs [database] enabled = true")
		}
		saved, err := repo.Latest(ctx)
		if err != nil {
			return fmt.Errorf("load latest snapshot: %w", err)
		}
		if saved != nil {
			restored, err := entities.Restore(ctx, saved.Snapshot, types, root)
			if err != nil {
				return fmt.Errorf("restore snapshot %s: %w", saved.ID, err)
			}
			log.Info("snapshot restored", zap.String("id", saved.ID.String()), zap.Int("entities", len(restored)))
		}
	}
	for _, name := range sortedSpawnNames(opts.spawn) {
		if archetypes.Get(name) == nil {
			return fmt.Errorf("spawn %s: not in %s", name, cfg.Data.Archetypes)
		}
		for i := 0; i < opts.spawn[name]; i++ {
			if _, err := archetypes.Spawn(ctx, entities, name, root); err != nil {
				return fmt.Errorf("spawn %s: %w", name, err)
			}
		}
	}
	if luaEngine.HasFunc("on_start") {
		if _, err := luaEngine.Call("on_start"); err != nil {
			return fmt.Errorf("lua on_start: %w", err)
		}
	}

	// 7. Create systems and register with runner
	sc := coresys.Context{Entities: entities, Bus: bus, Log: log.Named("system")}
	snapshots := system.NewSnapshotSystem(sc, store, cfg.Frame.SnapshotEvery)
	runner := coresys.NewRunner()
	runner.Register(system.NewEventSystem(sc))
	runner.Register(system.NewEntityUpdateSystem(sc))
	runner.Register(system.NewScriptSystem(sc, luaEngine))
	runner.Register(system.NewMovementSystem(sc))
	runner.Register(system.NewLifetimeSystem(sc))
	runner.Register(system.NewRegenSystem(sc, 1, int(time.Second/cfg.Frame.TickRate)))
	runner.Register(snapshots)
	runner.Register(system.NewCleanupSystem(sc))

	// 8. Start frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	ticker := time.NewTicker(cfg.Frame.TickRate)
	defer ticker.Stop()

	printSection(out, "running")
	printReady(out, fmt.Sprintf("frame loop started (tick: %s)", cfg.Frame.TickRate))
	printStat(out, "entities", entities.Count())
	fmt.Fprintln(out)

	stop := func(reason string) error {
		log.Info("stopping", zap.String("reason", reason), zap.Uint64("frames", runner.Frame()))
		if store != nil {
			snapshots.SaveNow("shutdown")
		}
		if err := entities.Verify(); err != nil {
			log.Error("registry inconsistent at shutdown", zap.Error(err))
		}
		printSummary(out, entities, nodes)
		return nil
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Frame.TickRate)
			if cfg.Frame.MaxFrames > 0 && runner.Frame() >= uint64(cfg.Frame.MaxFrames) {
				return stop("max frames reached")
			}
		case sig := <-shutdownCh:
			return stop(sig.String())
		case <-ctx.Done():
			return stop("context canceled")
		}
	}
}

func printSummary(out io.Writer, entities *ecs.Manager, nodes *pool.NodePool) {
	printSection(out, "summary")
	printStat(out, "entities", entities.Count())
	byArchetype := make(map[string]int)
	for _, e := range entities.Entities() {
		name := e.Archetype()
		if name == "" {
			name = "(bare)"
		}
		byArchetype[name]++
	}
	names := make([]string, 0, len(byArchetype))
	for n := range byArchetype {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		printStat(out, "  "+n, byArchetype[n])
	}
	spawned, reused, recycled := nodes.Stats()
	printStat(out, "nodes built", spawned)
	printStat(out, "nodes reused", reused)
	printStat(out, "nodes recycled", recycled)
	fmt.Fprintln(out)
}

func sortedSpawnNames(spawn map[string]int) []string {
	names := make([]string, 0, len(spawn))
	for n := range spawn {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
