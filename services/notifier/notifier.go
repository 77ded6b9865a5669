package notifier

// Notifier announces newly accepted codes to downstream consumers
type Notifier interface {
	// Announce publishes one accepted code with its serialized details
	Announce(code string, message []byte) error

	// Trim caps the announcement backlog to the configured maximum length
	Trim() error

	// Close closes the notifier connection
	Close() error
}
