// Package config provides configuration management for the resistor-search
// service.
//
// Configuration Types:
//
//   - ServerConfig: HTTP listener settings (address, timeouts)
//   - SearchConfig: value table selection and search defaults
//   - LoggingConfig: verbosity and log encoding
//
// Configuration Sources:
//
//  1. Command-line flags (highest priority, applied by the caller)
//  2. Environment variables (RESISTOR_SEARCH_*)
//  3. YAML config file (optional)
//  4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    log.Error(err, "failed to load configuration")
//	    os.Exit(1)
//	}
//
//	log.Info("service configuration",
//	    "listenAddress", cfg.Server.ListenAddress,
//	    "series", cfg.Search.Series,
//	    "tolerancePercent", cfg.Search.DefaultTolerancePercent)
//
// All configuration values are validated on load: numeric ranges, known
// series names, and decade bounds. Custom value tables come from a separate
// YAML catalog file parsed entry by entry, where an invalid entry is skipped
// with a logged reason rather than failing the whole load.
package config
