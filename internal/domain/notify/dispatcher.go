// internal/domain/notify/dispatcher.go
package notify

// Dispatcher pushes one message to one notification target. Implementations
// live in infra (Telegram in production, fakes in tests). A failed send is
// reported to the caller and is never fatal to anything else.
type Dispatcher interface {
	Send(targetID string, message string) error
}
