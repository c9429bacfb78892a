package ports

import (
	"context"

	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/chat"
)

// MessageSender delivers a text reply to a chat sender.
type MessageSender interface {
	Send(ctx context.Context, sender, text string) error
}

// Responder produces a free-form reply for messages no command recognizes.
type Responder interface {
	Respond(ctx context.Context, history []chat.Message, text string) (string, error)
}

// ConversationRepository stores the chat history and the last extracted address per sender.
type ConversationRepository interface {
	// Append adds a message to the sender's history, keeping the most recent
	// chat.HistoryLimit entries.
	Append(ctx context.Context, sender string, msg chat.Message) error

	// History returns up to limit most recent messages, oldest first.
	History(ctx context.Context, sender string, limit int) ([]chat.Message, error)

	// SaveAddress overwrites the sender's address snapshot.
	SaveAddress(ctx context.Context, sender string, addr address.ExtractedAddress) error

	// Address returns the sender's address snapshot, if any.
	Address(ctx context.Context, sender string) (address.ExtractedAddress, bool, error)
}
