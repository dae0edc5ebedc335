// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"strconv"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the notify.Dispatcher interface using the
// gopkg.in/telebot.v3 library. Target IDs are Telegram chat IDs in decimal.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// Send pushes a text message to one chat.
func (tba *TelebotAdapter) Send(targetID string, message string) error {
	chatID, err := strconv.ParseInt(targetID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid target chat id %q: %w", targetID, err)
	}
	_, err = tba.bot.Send(&telebot.Chat{ID: chatID}, message)
	return err
}
