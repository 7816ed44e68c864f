package ports

import (
	"context"
	"time"
)

// Audit event kinds.
const (
	AuditLoginSuccess    = "login_success"
	AuditLoginFailure    = "login_failure"
	AuditUserRegistered  = "user_registered"
	AuditUserCreated     = "user_created"
	AuditUserDeleted     = "user_deleted"
	AuditPasswordChanged = "password_changed"
)

// AuditEvent records an auth-relevant occurrence for the audit trail.
type AuditEvent struct {
	Kind      string
	Username  string
	ActorID   string
	Detail    string
	Timestamp time.Time
}

// AuditSink persists or emits a single audit event.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditDispatcher accepts audit events for asynchronous processing.
// Enqueue must not block the request path.
type AuditDispatcher interface {
	Enqueue(event AuditEvent)
}
