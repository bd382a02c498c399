// Package monitoring is the error sink: failures are logged with a stack
// trace, forwarded to Sentry, and a truncated summary of selected error
// classes is relayed to the alert chat room.
package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"runtime"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rosedale/studio-api/pkg/campfire"
)

const maxTraceLength = 500

// AlertSender posts alert messages to the chat platform
type AlertSender interface {
	Send(ctx context.Context, room campfire.Room, message string) error
}

// Monitor captures errors to Sentry and optionally relays them to chat
type Monitor struct {
	alerts     AlertSender
	production bool
}

// Init configures the Sentry SDK. An empty DSN disables reporting, which
// keeps development environments quiet.
func Init(dsn, environment string, debugMode bool) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Debug:            debugMode,
		TracesSampleRate: 0.2,
	})
}

// NewMonitor creates the error sink. Alert relay is suppressed outside
// production to avoid spamming shared rooms from test runs.
func NewMonitor(alerts AlertSender, production bool) *Monitor {
	return &Monitor{alerts: alerts, production: production}
}

// CaptureError logs the error with a stack trace, reports it to Sentry,
// and relays a truncated summary to the alert room for the whitelisted
// error classes only.
func (m *Monitor) CaptureError(err error, context string) {
	if err == nil {
		return
	}

	trace := string(debug.Stack())
	log.Printf("ERROR [%s]: %v\n%s", context, err, trace)

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("context", context)
		sentry.CaptureException(err)
	})

	if m.production && m.alerts != nil && isAlertable(err) {
		m.relayAlert(err, context, trace)
	}
}

// CaptureMessage reports a non-error event to Sentry
func (m *Monitor) CaptureMessage(message string) {
	log.Printf("WARN: %s", message)
	sentry.CaptureMessage(message)
}

// Flush drains buffered Sentry events, called on shutdown
func Flush() {
	sentry.Flush(2 * time.Second)
}

func (m *Monitor) relayAlert(err error, context, trace string) {
	if len(trace) > maxTraceLength {
		trace = trace[:maxTraceLength] + "...(truncated)"
	}
	message := fmt.Sprintf("🚨 Application Error\n\nContext: %s\n\nError Type: %T\nError Message: %v\n\nStack Trace:\n%s",
		context, err, err, trace)

	ctx, cancel := contextWithTimeout()
	defer cancel()
	if sendErr := m.alerts.Send(ctx, campfire.RoomAlert, message); sendErr != nil {
		log.Printf("Failed to relay alert to chat: %v", sendErr)
	}
}

// isAlertable limits chat relay to the value-error, key-error and runtime
// classes of failure so the alert room is not flooded by every exception.
func isAlertable(err error) bool {
	var numErr *strconv.NumError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var runtimeErr runtime.Error
	return errors.As(err, &numErr) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &runtimeErr)
}

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
