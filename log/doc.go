// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is configured once with functional options and never mutated;
// [Logger.Wrap] and [Logger.With] derive new loggers.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
//	logger = logger.With(slog.String("runner", "sh"))
//	logger.Debug("spawned", slog.Int("pid", pid))
//
// Every level has a context-aware variant. Context-unaware variants use
// [DefaultContextProvider].
//
// Five levels are defined, from [LevelTrace] to [LevelError]. Library
// packages in this module log only at trace and debug; the command line
// decides what is shown.
//
// Output is either [FormatText] (the default) or [FormatJSON]. With
// [WithPretty], both formats are rendered for a terminal using lipgloss
// styles.
//
// The package-level functions write through a default logger on stderr that
// [Config] reconfigures.
package log
