package chat_test

import (
	"testing"
	"time"

	"restaurant/internal/core/domain/model/chat"

	"github.com/stretchr/testify/assert"
)

func TestTrim(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	history := make([]chat.Message, 0, 5)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		history = append(history, chat.NewUserMessage(s, at))
	}

	t.Run("keeps_last_messages", func(t *testing.T) {
		got := chat.Trim(history, 2)
		assert.Len(t, got, 2)
		assert.Equal(t, "d", got[0].Content)
		assert.Equal(t, "e", got[1].Content)
	})

	t.Run("short_history_untouched", func(t *testing.T) {
		assert.Len(t, chat.Trim(history, 10), 5)
	})

	t.Run("no_limit", func(t *testing.T) {
		assert.Len(t, chat.Trim(history, 0), 5)
	})
}

func TestNewMessages(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	user := chat.NewUserMessage("  oi  ", at)
	assert.Equal(t, chat.User, user.Author)
	assert.Equal(t, "oi", user.Content)

	bot := chat.NewBotMessage("Olá!", at)
	assert.Equal(t, chat.Bot, bot.Author)
	assert.Equal(t, at, bot.Timestamp)
}
