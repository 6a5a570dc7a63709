// cmd/viewer/main.go
package main

import (
	"context"
	"flag"
	"os"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-floatsim/pkg/config"
	"github.com/opd-ai/go-floatsim/pkg/engine"
	"github.com/opd-ai/go-floatsim/pkg/logging"
	engorender "github.com/opd-ai/go-floatsim/pkg/render/engo"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "pond.json", "Path to configuration file")
	template := flag.String("template", "", "Scene template to apply (garden, bucket, swell)")
	spawnProfile := flag.String("spawn", "orange", "Profile dropped by the spawn key")
	width := flag.Int("width", 1024, "Window width")
	height := flag.Int("height", 768, "Window height")
	flag.Parse()

	cfg, err := config.LoadConfigWithTemplate(*configPath, *template)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	pond, err := engine.NewPondFromConfig(cfg, engine.WithLogger(logger))
	if err != nil {
		logger.Error(ctx, "Failed to create pond", err)
		os.Exit(1)
	}

	opts := engo.RunOptions{
		Title:          "Floating Body Simulator",
		Width:          *width,
		Height:         *height,
		StandardInputs: true,
		MSAA:           4,
	}

	logger.Info(ctx, "Starting viewer", "bodies", pond.Len(), "spawn_profile", *spawnProfile)
	engo.Run(opts, engorender.NewPondScene(pond, logger, *spawnProfile))
}
