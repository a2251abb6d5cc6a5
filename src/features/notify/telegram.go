// Package notify pushes batched change summaries to a Telegram chat.
// Optional and best-effort; a failed send is logged and forgotten.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"driftwatch/src/tracking"
)

const flushInterval = 30 * time.Second

// TelegramNotifier batches change events and sends one summary message per
// flush interval instead of spamming the chat on every save.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu      sync.Mutex
	pending []string

	cancel context.CancelFunc
}

// NewTelegramNotifier authenticates the bot.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	slog.Info("Telegram notifier authorized", "account", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Start launches the flush loop.
func (n *TelegramNotifier) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	go n.flushLoop(ctx)
}

// Stop flushes what's left and terminates the loop.
func (n *TelegramNotifier) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
	n.flush()
}

// OnChange is the hook registered with the watching service.
func (n *TelegramNotifier) OnChange(event tracking.ChangeEvent, _ []byte) {
	line := fmt.Sprintf("`%s` %+d bytes", event.File, event.SizeChange)
	if event.LinesChange != nil {
		line += fmt.Sprintf(", %+d lines", *event.LinesChange)
	}

	n.mu.Lock()
	n.pending = append(n.pending, line)
	n.mu.Unlock()
}

func (n *TelegramNotifier) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.flush()
		}
	}
}

func (n *TelegramNotifier) flush() {
	n.mu.Lock()
	lines := n.pending
	n.pending = nil
	n.mu.Unlock()

	if len(lines) == 0 {
		return
	}

	message := fmt.Sprintf("📝 *%d change(s)*\n", len(lines))
	for _, line := range lines {
		message += line + "\n"
	}

	msg := tgbotapi.NewMessage(n.chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		slog.Warn("Failed to send telegram notification", "error", err)
	}
}
