// Package main is the entry point for the animframes exporter.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Sidremus/cge-blender/internal/config"
	"github.com/Sidremus/cge-blender/internal/export"
	"github.com/Sidremus/cge-blender/internal/exporter"
	"github.com/Sidremus/cge-blender/internal/logger"
	"github.com/Sidremus/cge-blender/internal/scene"
)

var flagDetectActions = flag.Bool("detect-actions", false,
	"Export actions of the scene's single animated armature")

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Files.ScenePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: animframes -scene <scene.yaml> -output <file.castle-anim-frames> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	sc, err := scene.Load(cfg.Files.ScenePath)
	if err != nil {
		logger.Error("failed to load scene", zap.String("path", cfg.Files.ScenePath), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("scene loaded",
		zap.String("path", cfg.Files.ScenePath),
		zap.Int("objects", len(sc.Objects)),
		zap.Int("actions", len(sc.Actions)))

	if *flagDetectActions && cfg.Export.ActionsObject == "" {
		if name := sc.DefaultActionsObject(); name != "" {
			cfg.Export.ActionsObject = name
			logger.Info("detected actions object", zap.String("object", name))
		} else {
			logger.Warn("no single animated armature found, exporting scene frame range")
		}
	}

	opts, err := cfg.ExportOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	static, err := exporter.ForFormat(opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := export.NewContainerExporter(sc, opts, static).Run(); err != nil {
		switch {
		case errors.Is(err, export.ErrObjectNotFound):
			fmt.Fprintf(os.Stderr, "No object named %q in the scene\n", opts.ActionsObject)
		case errors.Is(err, export.ErrNoActionFound):
			fmt.Fprintf(os.Stderr, "No actions found for object %q\n", opts.ActionsObject)
		case errors.Is(err, scene.ErrIntegrity):
			fmt.Fprintf(os.Stderr, "Scene integrity lost during duplicate realization: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		}
		logger.Error("export failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("export finished", zap.String("output", opts.OutputPath))
	fmt.Printf("Exported: %s\n", opts.OutputPath)
}
