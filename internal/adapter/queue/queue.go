package queue

// MessageQueue is the event bus the services publish lifecycle events on.
// Subjects follow the <entity>.<verb> convention (voucher.redeemed,
// session.created); payloads are JSON.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}
