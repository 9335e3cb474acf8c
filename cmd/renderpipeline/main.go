package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/config"
	"github.com/renderpipeline/engine/internal/core/event"
	"github.com/renderpipeline/engine/internal/data"
	"github.com/renderpipeline/engine/internal/loader"
	"github.com/renderpipeline/engine/internal/persist"
	"github.com/renderpipeline/engine/internal/platform"
	"github.com/renderpipeline/engine/internal/scene"
	"github.com/renderpipeline/engine/internal/scripting"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/renderpipeline.toml"
	if p := os.Getenv("RENDERPIPELINE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Debug); stop != nil {
		defer stop()
	}

	// 3. Optional snapshot database
	var snapshots *persist.SnapshotRepo
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()

		version, err := persist.RunMigrations(ctx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Info("database ready", zap.Int64("schema_version", version))
		snapshots = persist.NewSnapshotRepo(db)
	}

	// 4. Scripts and scene manifest
	var engine *scripting.Engine
	if cfg.Scripting.Enabled {
		engine, err = scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
	}

	var manifest *data.SceneManifest
	if cfg.Scene.Manifest != "" {
		manifest, err = data.LoadSceneManifest(cfg.Scene.Manifest)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
	}

	// 5. Event subscriptions
	bus := event.NewBus()
	event.Subscribe(bus, func(ev event.ModelRejected) {
		log.Warn("model rejected", zap.Uint32("entity", uint32(ev.Entity)), zap.String("source", ev.Source))
	})
	event.Subscribe(bus, func(ev event.EntityDestroyed) {
		log.Debug("entity destroyed", zap.Uint32("entity", uint32(ev.Entity)))
	})

	// 6. Build the scene
	device := platform.NewHeadless(cfg.Render.Width, cfg.Render.Height, log)
	sc, err := scene.New(scene.Deps{
		Config:    cfg,
		Log:       log,
		Device:    device,
		Input:     &platform.StaticInput{},
		Loader:    loader.New(cfg.Scene.ModelsDir, log),
		Scripting: engine,
		Bus:       bus,
		Manifest:  manifest,
	})
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	if snapshots != nil && cfg.Database.RestoreOnStart {
		restoreSnapshot(sc, snapshots, cfg.Database.SnapshotTimeout, log)
	}

	// 7. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	log.Info("frame loop started",
		zap.String("engine", cfg.Engine.Name),
		zap.Duration("tick", cfg.Engine.TickRate),
		zap.Uint64("max_frames", cfg.Engine.MaxFrames),
	)

	stop := func(reason string) {
		log.Info("frame loop stopped",
			zap.String("reason", reason),
			zap.Uint64("frames", sc.Runner().Frames()),
			zap.Int("draws", device.Draws),
			zap.Int("triangles", device.Triangles),
		)
		if snapshots != nil && cfg.Database.SnapshotOnExit {
			saveSnapshot(sc, snapshots, cfg.Database.SnapshotTimeout, log)
		}
	}

	for {
		select {
		case <-ticker.C:
			sc.Update(cfg.Engine.TickRate)
			if cfg.Engine.MaxFrames > 0 && sc.Runner().Frames() >= cfg.Engine.MaxFrames {
				stop("max frames")
				return nil
			}
		case sig := <-shutdownCh:
			stop(sig.String())
			return nil
		}
	}
}

func restoreSnapshot(sc *scene.Scene, repo *persist.SnapshotRepo, timeout time.Duration, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rows, err := repo.Load(ctx, sc.Name())
	if err != nil {
		log.Error("snapshot restore failed", zap.String("scene", sc.Name()), zap.Error(err))
		return
	}
	transforms := make(map[string]component.Transform, len(rows))
	for _, row := range rows {
		transforms[row.Entity] = row.Transform()
	}
	n := sc.RestoreTransforms(transforms)
	log.Info("snapshot restored", zap.String("scene", sc.Name()), zap.Int("entities", n), zap.Int("rows", len(rows)))
}

func saveSnapshot(sc *scene.Scene, repo *persist.SnapshotRepo, timeout time.Duration, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	transforms := sc.Transforms()
	rows := make([]persist.TransformRow, 0, len(transforms))
	for name, t := range transforms {
		rows = append(rows, persist.FromTransform(name, t))
	}
	if err := repo.Save(ctx, sc.Name(), sc.Runner().Frames(), rows); err != nil {
		log.Error("snapshot save failed", zap.String("scene", sc.Name()), zap.Error(err))
		return
	}
	log.Info("snapshot saved", zap.String("scene", sc.Name()), zap.Int("entities", len(rows)))
}

// startProfile starts the profiler selected in [debug]. It returns nil when
// profiling is off.
func startProfile(cfg config.DebugConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Profile {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "trace":
		mode = profile.TraceProfile
	default:
		return nil
	}
	path := cfg.ProfilePath
	if path == "" {
		path = "."
	}
	p := profile.Start(mode, profile.ProfilePath(path), profile.Quiet, profile.NoShutdownHook)
	return p.Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
