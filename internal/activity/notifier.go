package activity

// NotifyKind classifies a user-facing notification.
type NotifyKind string

const (
	NotifyInfo    NotifyKind = "info"
	NotifySuccess NotifyKind = "success"
	NotifyWarning NotifyKind = "warning"
	NotifyError   NotifyKind = "error"
)

// Notifier surfaces messages to the user. Implementations are fire-and-forget;
// the core never inspects a result.
type Notifier interface {
	Notify(message string, kind NotifyKind)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(string, NotifyKind) {}
