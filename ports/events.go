package ports

import "context"

// EventPublisher notifies other instances about session lifecycle events.
// Publishing is best effort: the session store is authoritative.
type EventPublisher interface {
	PublishLogin(ctx context.Context, wallet, sessionID string) error
	PublishLogout(ctx context.Context, wallet, sessionID string) error
	PublishWalletInvalidated(ctx context.Context, wallet string, removed int) error
}
