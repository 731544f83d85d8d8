package events

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/brandkit/internal/ports"
)

// Notifier logs every event and fans it out to subscribers. It stands in for
// the toast surface: callers publish and move on.
type Notifier struct {
	logger ports.Logger
	subs   map[string][]subscriptionEntry
	nextID int
	mu     sync.RWMutex
}

// NewNotifier creates a publisher that writes each event as a structured log entry.
func NewNotifier(logger ports.Logger) *Notifier {
	return &Notifier{
		logger: logger,
		subs:   make(map[string][]subscriptionEntry),
	}
}

// Publish logs the event and invokes subscribers registered for its type and
// for the wildcard "*". Handler failures are logged and never returned.
func (n *Notifier) Publish(ctx context.Context, event ports.DomainEvent) error {
	if n == nil || event == nil {
		return nil
	}

	n.mu.RLock()
	handlers := append([]subscriptionEntry(nil), n.subs[event.EventType()]...)
	handlers = append(handlers, n.subs["*"]...)
	n.mu.RUnlock()

	if n.logger != nil {
		fields := []interface{}{"event_type", event.EventType()}
		fields = append(fields, flattenPayload(event.Payload())...)
		n.logger.Info(ctx, "notification", fields...)
	}

	for _, entry := range handlers {
		if entry.handler == nil {
			continue
		}
		if err := entry.handler(ctx, event); err != nil && n.logger != nil {
			n.logger.Warn(ctx, "notification handler failed", "event_type", event.EventType(), "error", err)
		}
	}

	return nil
}

// Subscribe registers a handler for the provided event type; "*" receives every event.
func (n *Notifier) Subscribe(eventType string, handler ports.EventHandler) (ports.Subscription, error) {
	if n == nil || handler == nil {
		return noopSubscription{}, nil
	}
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.subs[eventType] = append(n.subs[eventType], subscriptionEntry{id: id, handler: handler})
	n.mu.Unlock()

	return subscription{
		cancel: func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			handlers := n.subs[eventType]
			for i, entry := range handlers {
				if entry.id == id {
					n.subs[eventType] = append(handlers[:i], handlers[i+1:]...)
					break
				}
			}
		},
	}, nil
}

// ConsoleSink renders events as one-line notices on w, e.g.
// "✓ settings imported (fields=3)".
func ConsoleSink(w io.Writer) ports.EventHandler {
	return func(_ context.Context, event ports.DomainEvent) error {
		icon, text := describe(event.EventType())
		line := fmt.Sprintf("%s %s", icon, text)
		if fields := flattenPayload(event.Payload()); len(fields) > 0 {
			line += " ("
			for i := 0; i+1 < len(fields); i += 2 {
				if i > 0 {
					line += ", "
				}
				line += fmt.Sprintf("%v=%v", fields[i], fields[i+1])
			}
			line += ")"
		}
		_, err := fmt.Fprintln(w, line)
		return err
	}
}

func describe(eventType string) (string, string) {
	switch eventType {
	case ports.EventSettingsImported:
		return "✓", "settings imported"
	case ports.EventSettingsImportFailed:
		return "✗", "settings import failed"
	case ports.EventSettingsExported:
		return "✓", "settings exported"
	case ports.EventSettingsReset:
		return "✓", "settings reset to defaults"
	case ports.EventCatalogImported:
		return "✓", "catalog imported"
	case ports.EventCatalogRejected:
		return "✗", "catalog rejected"
	default:
		return "•", eventType
	}
}

func flattenPayload(payload interface{}) []interface{} {
	switch p := payload.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(p))
		for key := range p {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields := make([]interface{}, 0, len(keys)*2)
		for _, key := range keys {
			fields = append(fields, key, p[key])
		}
		return fields
	case nil:
		return nil
	default:
		return []interface{}{"payload", p}
	}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler ports.EventHandler
}

var _ ports.EventPublisher = (*Notifier)(nil)
