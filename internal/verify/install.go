package verify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/debvet/debvet/internal/engine"
)

const (

	// Shell used for commands executed inside the build container.
	installShell = "/bin/sh"

	// Installs every staged package file in one dpkg run.
	installCommand = "dpkg -i " + packageDir + "/*.deb"

	// Fetches and configures dependencies dpkg could not satisfy.
	repairCommand = "apt-get update && apt-get install --yes --fix-broken"
)

// Environment for the install commands. The frontend must never prompt;
// there is no terminal attached to answer it.
func installEnv() []string {
	return []string{"DEBIAN_FRONTEND=noninteractive"}
}

// Installs the staged packages inside the build container.
//
// dpkg installs the package files directly. When it exits non-zero the
// packages are usually unpacked but left unconfigured for lack of
// dependencies, so apt-get runs next to pull the dependencies in and
// finish the configuration. Failure of the repair run is fatal and
// carries the captured stderr.
func (v *verifier) install(ctx context.Context, ctr *engine.Container) error {
	slog.Info("installing packages", "command", installCommand)

	result, err := ctr.Exec(ctx, installShell, installCommand, installEnv(), packageDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	if result.ExitCode == 0 {
		return nil
	}

	slog.Warn("install left unsatisfied dependencies, repairing",
		"exit_code", result.ExitCode,
		"command", repairCommand,
	)

	result, err = ctr.Exec(ctx, installShell, repairCommand, installEnv(), packageDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: exit code %d: %s", ErrInstall, result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	return nil
}
