// Package config layers the tool's run parameters.
//
// Four layers contribute, in increasing precedence: built-in defaults, an
// optional YAML configuration file in the XDG config directory, DEBVET_*
// environment variables, and the command line. The first three are read by
// Load; the command line is folded in afterwards by Merge, so the layering
// is explicit at the call site rather than hidden inside a flag library.
//
// Package lists accumulate across layers: entries from the environment or
// configuration file come first, entries from the command line follow, each
// layer keeping its internal order.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	cfg.Merge(req.LocalFiles(), req.RemoteFiles(), req.Rebuild())
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
