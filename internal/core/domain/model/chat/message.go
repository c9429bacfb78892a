// Package chat holds the messages exchanged with customers over the chat channel.
package chat

import (
	"strings"
	"time"
)

// HistoryLimit is the number of most recent messages kept per conversation.
const HistoryLimit = 50

// Author tells who wrote a message.
type Author string

const (
	User Author = "user"
	Bot  Author = "bot"
)

// Message is one entry of a conversation history.
type Message struct {
	Author    Author
	Content   string
	Timestamp time.Time
}

// NewUserMessage creates a message written by the customer.
func NewUserMessage(content string, at time.Time) Message {
	return Message{Author: User, Content: strings.TrimSpace(content), Timestamp: at}
}

// NewBotMessage creates a reply sent by the service.
func NewBotMessage(content string, at time.Time) Message {
	return Message{Author: Bot, Content: content, Timestamp: at}
}

// Trim keeps the last limit messages.
func Trim(history []Message, limit int) []Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
