package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Pizajolo/nft-ticket-registration/ports"
)

// Topics for session lifecycle events.
const (
	TopicLogin              = "auth.login"
	TopicLogout             = "auth.logout"
	TopicWalletInvalidated  = "auth.wallet_invalidated"
)

// SessionEvent is the payload published on login and logout.
type SessionEvent struct {
	Wallet    string `json:"wallet"`
	SessionID string `json:"session_id"`
}

// WalletInvalidatedEvent is published when every session of a wallet is
// forcibly removed.
type WalletInvalidatedEvent struct {
	Wallet  string `json:"wallet"`
	Removed int    `json:"removed"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

func (p *WatermillPublisher) PublishLogin(ctx context.Context, wallet, sessionID string) error {
	return p.publish(TopicLogin, sessionID, SessionEvent{Wallet: wallet, SessionID: sessionID})
}

func (p *WatermillPublisher) PublishLogout(ctx context.Context, wallet, sessionID string) error {
	return p.publish(TopicLogout, sessionID, SessionEvent{Wallet: wallet, SessionID: sessionID})
}

func (p *WatermillPublisher) PublishWalletInvalidated(ctx context.Context, wallet string, removed int) error {
	return p.publish(TopicWalletInvalidated, wallet, WalletInvalidatedEvent{Wallet: wallet, Removed: removed})
}

func (p *WatermillPublisher) publish(topic, id string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(id, payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NopPublisher is an EventPublisher that discards everything. Used when
// no message broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishLogin(context.Context, string, string) error { return nil }

func (NopPublisher) PublishLogout(context.Context, string, string) error { return nil }

func (NopPublisher) PublishWalletInvalidated(context.Context, string, int) error { return nil }
