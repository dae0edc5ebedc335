// internal/infra/telegram/handlers.go
package telegram

import (
	"strconv"

	"boss_respawn_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterHandlers wires every inbound text message into the timer service.
// The chat is the scope; it is also registered as its own push target, so a
// room starts receiving reminders the moment anyone talks in it.
func RegisterHandlers(b *telebot.Bot, svc *app.TimerService, baseLogger *logrus.Entry) {
	textLogger := baseLogger.WithField("handler", "on_text")

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		chat := c.Chat()
		if chat == nil {
			return nil
		}
		scopeID := strconv.FormatInt(chat.ID, 10)
		logCtx := textLogger.WithField("scope", scopeID)

		svc.RegisterTargets(scopeID, scopeID)

		for _, reply := range svc.Handle(scopeID, c.Text()) {
			if err := c.Send(reply); err != nil {
				logCtx.WithError(err).Error("Failed to send reply")
				return err
			}
		}
		return nil
	})
}
