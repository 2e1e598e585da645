package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Init builds the logger for stdout and installs it as the slog default.
func Init(isDev bool, sentryDSN string) error {
	l, err := New(os.Stdout, isDev, sentryDSN)
	if err != nil {
		return err
	}

	slog.SetDefault(l)
	return nil
}

// New returns a logger writing to w.
// Development: Text format with Debug level
// Production: JSON format with Info level
// With a Sentry DSN, errors are also sent to Sentry.
func New(w io.Writer, isDev bool, sentryDSN string) (*slog.Logger, error) {
	var handlers []slog.Handler

	if isDev {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}

		handlers = append(handlers, slogsentry.Option{
			Level: slog.LevelError,
		}.NewSentryHandler())
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), nil
	}
	return slog.New(slogmulti.Fanout(handlers...)), nil
}
