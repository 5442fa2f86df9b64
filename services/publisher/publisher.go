package publisher

// Publisher represents a service for publishing ingestion events
type Publisher interface {
	// Publish publishes a message to a stream under the given source key
	Publish(source string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
