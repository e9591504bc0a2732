package interfaces

// EventPublisher delivers notifications to external observers, indexed by
// topic. Publishing is best-effort from the vault's point of view: custody
// state is committed before the event goes out.
type EventPublisher interface {
	Publish(topic string, event any) error
}
