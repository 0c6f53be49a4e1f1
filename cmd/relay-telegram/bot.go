// ABOUTME: Telegram bot core for relay-telegram
// ABOUTME: Handles long polling and message routing to the relay gateway

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/2389/chat-relay/internal/dedupe"
	"github.com/2389/chat-relay/internal/relay"
)

const (
	startText = "👋 Hello! I'm an AI chatbot powered by OpenAI.\n\n" +
		"You can:\n" +
		"• Send me any message to chat\n" +
		"• Use /reset to start a new conversation\n" +
		"• Use /help to see this message again\n\n" +
		"Let's chat!"

	helpText = "📚 Available commands:\n\n" +
		"/start - Start the bot\n" +
		"/help - Show this help message\n" +
		"/reset - Reset conversation history\n\n" +
		"Just send me a message to start chatting!"

	resetText          = "🔄 Conversation reset! Let's start fresh."
	unknownCommandText = "Unknown command. Use /help to see available commands."
	emptyReplyText     = "Sorry, I couldn't process your message right now."
	processingFailText = "Sorry, an error occurred while processing your message."
)

// gatewayClient is the relay client surface the bot needs. It allows
// injecting a fake in tests.
type gatewayClient interface {
	SendMessage(ctx context.Context, userID, message string) relay.Reply
	ResetThread(ctx context.Context, userID string)
}

// telegramSender is the outbound Telegram surface the bot needs.
// *tgbotapi.BotAPI satisfies it; tests inject a fake.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot connects Telegram to the relay gateway.
type Bot struct {
	config  *Config
	api     *tgbotapi.BotAPI
	sender  telegramSender
	gateway gatewayClient
	seen    *dedupe.Cache
	logger  *slog.Logger
}

// NewBot creates a Telegram bot connected to the given gateway.
func NewBot(cfg *Config, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}

	return &Bot{
		config:  cfg,
		api:     api,
		sender:  api,
		gateway: relay.New(cfg.Gateway.URL, logger),
		seen:    dedupe.New(10*time.Minute, 10000),
		logger:  logger,
	}, nil
}

// Run starts long polling and blocks until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("starting telegram bot",
		"username", b.api.Self.UserName,
		"gateway", b.config.Gateway.URL,
	)
	defer b.seen.Close()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("shutting down telegram bot")
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatchUpdate(ctx, update)
		}
	}
}

// dispatchUpdate filters an update and processes it in a goroutine so long
// gateway calls never block the polling loop.
func (b *Bot) dispatchUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	if b.seen.Seen(update.UpdateID) {
		b.logger.Debug("skipping duplicate update", "update_id", update.UpdateID)
		return
	}

	chatID := update.Message.Chat.ID
	if !b.isChatAllowed(chatID) {
		b.logger.Debug("ignoring message from non-allowed chat", "chat_id", chatID)
		return
	}

	go b.processUpdate(ctx, update)
}

// processUpdate handles a single message. Panics in handlers are turned into
// a single apology so one bad update cannot take the bot down.
func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	userID := strconv.FormatInt(update.Message.From.ID, 10)
	text := update.Message.Text

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic processing update", "error", fmt.Sprint(r), "chat_id", chatID)
			b.send(chatID, processingFailText)
		}
	}()

	b.logger.Info("received message",
		"chat_id", chatID,
		"user_id", userID,
		"content", truncate(text, 50),
	)

	var reply string
	if strings.HasPrefix(text, "/") {
		reply = b.handleCommand(ctx, userID, text)
	} else {
		reply = b.handleText(ctx, chatID, userID, text)
	}

	b.send(chatID, reply)
}

// handleCommand dispatches a slash command and returns the reply text.
func (b *Bot) handleCommand(ctx context.Context, userID, command string) string {
	switch strings.SplitN(strings.ToLower(command), " ", 2)[0] {
	case "/start":
		return startText
	case "/help":
		return helpText
	case "/reset":
		b.gateway.ResetThread(ctx, userID)
		return resetText
	default:
		return unknownCommandText
	}
}

// handleText relays a chat message to the gateway and returns the reply.
func (b *Bot) handleText(ctx context.Context, chatID int64, userID, text string) string {
	if b.config.Bridge.TypingIndicator {
		b.setTyping(chatID)
	}

	reply := b.gateway.SendMessage(ctx, userID, text)
	if reply.Text == "" {
		return emptyReplyText
	}
	return reply.Text
}

// isChatAllowed checks the chat against the allow list.
func (b *Bot) isChatAllowed(chatID int64) bool {
	if len(b.config.Bridge.AllowedChats) == 0 {
		return true // Allow all if no filter
	}
	for _, allowed := range b.config.Bridge.AllowedChats {
		if allowed == chatID {
			return true
		}
	}
	return false
}

// setTyping sends a best-effort typing indicator.
func (b *Bot) setTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.sender.Request(action); err != nil {
		b.logger.Warn("could not send typing indicator", "error", err, "chat_id", chatID)
	}
}

// send delivers text to a chat, logging failures.
func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("sending message", "error", err, "chat_id", chatID)
	}
}

// truncate shortens s for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
