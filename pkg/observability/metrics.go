package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/triagekit/triage/pkg/domain"
)

// Metrics exposes Prometheus collectors fed by engine lifecycle hooks.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	unhandledTotal   prometheus.Counter
	commandsTotal    *prometheus.CounterVec
	dispatchDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with the registerer.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_requests_total",
			Help: "Requests accepted by a chain handler, labelled by handler name.",
		}, []string{"handler"}),
		unhandledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triage_requests_unhandled_total",
			Help: "Requests that fell off the end of the chain.",
		}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_commands_total",
			Help: "Command operations, labelled by command name, operation and result.",
		}, []string{"command", "op", "result"}),
		dispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_dispatch_duration_seconds",
			Help:    "Time spent walking the dispatch chain per request.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.requestsTotal, m.unhandledTotal, m.commandsTotal, m.dispatchDuration)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
// Merge them with any other hooks before handing them to the engine.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRequestAccepted: func(_ context.Context, ev *domain.DispatchEvent) {
			m.requestsTotal.WithLabelValues(ev.Handler).Inc()
			m.dispatchDuration.Observe(ev.Elapsed.Seconds())
		},
		OnRequestUnhandled: func(_ context.Context, ev *domain.DispatchEvent) {
			m.unhandledTotal.Inc()
			m.dispatchDuration.Observe(ev.Elapsed.Seconds())
		},
		OnCommandExecute: func(_ context.Context, ev *domain.CommandEvent) {
			m.commandsTotal.WithLabelValues(ev.Command, "execute", resultLabel(ev.IsError)).Inc()
		},
		OnCommandUndo: func(_ context.Context, ev *domain.CommandEvent) {
			m.commandsTotal.WithLabelValues(ev.Command, "undo", resultLabel(ev.IsError)).Inc()
		},
	}
}

func resultLabel(isError bool) string {
	if isError {
		return "error"
	}
	return "ok"
}

// MergeHooks fans one event out to every non-nil hook in the given sets.
// Useful for combining metrics with logging or custom audit hooks.
func MergeHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	merged := domain.LifecycleHooks{}
	for _, s := range sets {
		s := s
		if s.OnRequestAccepted != nil {
			prev := merged.OnRequestAccepted
			merged.OnRequestAccepted = func(ctx context.Context, ev *domain.DispatchEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				s.OnRequestAccepted(ctx, ev)
			}
		}
		if s.OnRequestUnhandled != nil {
			prev := merged.OnRequestUnhandled
			merged.OnRequestUnhandled = func(ctx context.Context, ev *domain.DispatchEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				s.OnRequestUnhandled(ctx, ev)
			}
		}
		if s.OnCommandExecute != nil {
			prev := merged.OnCommandExecute
			merged.OnCommandExecute = func(ctx context.Context, ev *domain.CommandEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				s.OnCommandExecute(ctx, ev)
			}
		}
		if s.OnCommandUndo != nil {
			prev := merged.OnCommandUndo
			merged.OnCommandUndo = func(ctx context.Context, ev *domain.CommandEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				s.OnCommandUndo(ctx, ev)
			}
		}
	}
	return merged
}
