// Package log provides structured logging on top of [log/slog] with an
// additional Trace level below Debug.
//
// A [Logger] is an immutable value configured with functional options when
// it is made:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
//	logger.Info("rendered template", slog.String("name", "Invoice"))
//
// [Logger.Wrap] derives a logger with changed options and [Logger.With]
// derives one that adds attributes to every record. The zero Logger
// discards everything, which lets library packages accept a Logger option
// and stay silent by default.
//
// Each level has a context-aware method ([Logger.InfoContext]) and a
// context-unaware one ([Logger.Info]) that uses [DefaultContextProvider].
//
// Package-level functions such as [Info] and [TraceContext] log through a
// default logger writing JSON to standard error. [Config] reconfigures it.
//
// Output is plain JSON or text by default. [WithPretty] switches to
// colorized handlers intended for terminals.
package log
