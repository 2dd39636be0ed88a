package queue

// NoopQueue discards all messages. Used when no NATS URL is configured so
// services can publish events unconditionally.
type NoopQueue struct{}

func NewNoopQueue() MessageQueue {
	return &NoopQueue{}
}

func (q *NoopQueue) Publish(subject string, data []byte) error {
	return nil
}

func (q *NoopQueue) Subscribe(subject string, handler func(data []byte) error) error {
	return nil
}

func (q *NoopQueue) Close() error {
	return nil
}
