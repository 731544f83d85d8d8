package ports

import "context"

const (
	// EventSettingsImported is emitted after a settings payload was applied to the store.
	EventSettingsImported = "settings.imported"
	// EventSettingsImportFailed is emitted when a settings payload could not be parsed.
	EventSettingsImportFailed = "settings.import_failed"
	// EventSettingsExported is emitted after the bundle was exported.
	EventSettingsExported = "settings.exported"
	// EventSettingsReset is emitted when the bundle is restored to defaults.
	EventSettingsReset = "settings.reset"
	// EventCatalogImported is emitted when a validated catalog envelope was applied.
	EventCatalogImported = "catalog.imported"
	// EventCatalogRejected is emitted when a catalog envelope failed validation.
	EventCatalogRejected = "catalog.rejected"
)

// DomainEvent represents a user-visible outcome. Events carry structured
// payloads that subscribers render as notifications.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run. Notifications are
// fire-and-forget from the caller's point of view; handler failures are logged,
// never returned to the publisher's caller. Implementations must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events.
type Subscription interface {
	Unsubscribe()
}

// Notice is a simple DomainEvent implementation carrying a map payload.
type Notice struct {
	Type   string
	Fields map[string]interface{}
}

// EventType implements DomainEvent.
func (n Notice) EventType() string { return n.Type }

// Payload implements DomainEvent.
func (n Notice) Payload() interface{} { return n.Fields }
