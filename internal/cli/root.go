package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/debvet/debvet/internal/config"
	"github.com/debvet/debvet/internal/engine"
	"github.com/debvet/debvet/internal/stage"
	"github.com/debvet/debvet/internal/verify"
)

// Parses the command line, layers the configuration, and runs the
// verification pipeline.
//
// Failures are returned rather than printed so the caller can map them to
// exit codes; the usage text is printed here for argument-level mistakes,
// where it can still help.
func Execute() error {
	trapSignals()

	req, err := NewScanner(os.Args[1:]).Scan()
	if err != nil {
		fmt.Fprint(os.Stderr, usage)
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cfg.Merge(req.LocalFiles(), req.RemoteFiles(), req.Rebuild())

	if err := cfg.Validate(); err != nil {
		fmt.Fprint(os.Stderr, usage)
		return err
	}

	ctx := context.Background()

	staged, err := stagePackages(ctx, cfg)
	if err != nil {
		return err
	}

	eng, err := engine.Connect(cfg.Address, cfg.Namespace, cfg.Platform)
	if err != nil {
		return err
	}
	defer eng.Close()

	return verify.Run(ctx, eng, verify.Options{
		BaseImage:     cfg.BaseImage,
		ImageTag:      cfg.ImageTag,
		ContainerName: cfg.ContainerName,
		Namespace:     cfg.Namespace,
		Packages:      staged,
		Rebuild:       cfg.Rebuild,
	})
}

// Stages every requested package into the build directory and returns the
// staged file paths in staging order.
func stagePackages(ctx context.Context, cfg *config.Config) ([]string, error) {
	slog.Info("staging packages",
		"build_dir", cfg.BuildDir,
		"local", len(cfg.LocalFiles),
		"remote", len(cfg.RemoteFiles),
	)

	st := stage.New(cfg.WorkDir, cfg.BuildDir)

	if err := st.Prepare(); err != nil {
		return nil, err
	}
	if err := st.StageLocal(ctx, cfg.LocalFiles); err != nil {
		return nil, err
	}
	if err := st.StageRemote(ctx, cfg.RemoteFiles); err != nil {
		return nil, err
	}

	return st.Staged()
}
