// Package telegram runs the same screening interview over Telegram long
// polling, one interview session per chat.
package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TurnHandler is the engine surface the bot drives.
type TurnHandler interface {
	HandleTurn(ctx context.Context, sessionID, userText string) (string, error)
}

const welcome = "¡Hola! Soy Marina 👩, te haré unas preguntas rápidas sobre la habitación. ¿Empezamos? Cuéntame, ¿qué edad tienes?"

type Bot struct {
	api    *tgbotapi.BotAPI
	engine TurnHandler
}

func New(botToken string, engine TurnHandler) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, engine: engine}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("🤖 Telegram transport started as @%s", b.api.Self.UserName)

	b.run(ctx, updates, b.api.StopReceivingUpdates)
}

// run consumes updates until the channel closes. Cancelling ctx stops
// the long poll, which closes the channel, returns control to the
// entrypoint and lets its deferred cleanup run.
func (b *Bot) run(ctx context.Context, updates tgbotapi.UpdatesChannel, stop func()) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		go b.handleIncomingMessage(ctx, update.Message)
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.sendMessage(msg.Chat.ID, welcome)
		}
		return
	}

	// One engine session per chat; the engine serializes turns per id,
	// so rapid double-sends cannot interleave.
	sessionID := fmt.Sprintf("tg-%d", msg.Chat.ID)

	respuesta, err := b.engine.HandleTurn(ctx, sessionID, msg.Text)
	if err != nil {
		log.Printf("failed to handle telegram turn for chat %d: %v", msg.Chat.ID, err)
		b.sendMessage(msg.Chat.ID, "⚠️ Ahora mismo no puedo responder, inténtalo de nuevo en un momento.")
		return
	}
	b.sendMessage(msg.Chat.ID, respuesta)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
