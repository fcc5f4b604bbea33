package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// How a trapped signal terminates the process.
type signalAction int

const (

	// Log and exit with the interrupted code.
	actionExit signalAction = iota

	// Log, restore the default disposition, and re-deliver the signal so
	// the parent observes death by signal. Keeps core-dump semantics for
	// SIGQUIT and SIGABRT.
	actionReraise
)

// Dispatch table for trapped signals. Interruption is always fatal: no
// handler attempts cleanup or retry.
var signalActions = map[os.Signal]signalAction{
	syscall.SIGHUP:  actionExit,
	syscall.SIGTERM: actionExit,
	syscall.SIGINT:  actionReraise,
	syscall.SIGQUIT: actionReraise,
	syscall.SIGABRT: actionReraise,
}

// Installs the signal handlers for the life of the process.
//
// A single goroutine waits for the first trapped signal, logs it, and
// terminates the process according to the dispatch table.
func trapSignals() {
	signals := make([]os.Signal, 0, len(signalActions))
	for sig := range signalActions {
		signals = append(signals, sig)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)

	go func() {
		sig := <-ch
		slog.Error("interrupted", "signal", sig)

		if signalActions[sig] == actionReraise {
			signal.Reset(sig)
			syscall.Kill(os.Getpid(), sig.(syscall.Signal))
			// Delivery is asynchronous; exit below if it has not landed.
		}

		os.Exit(ExitInterrupted)
	}()
}
