package notify

import (
	"context"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"signal_bot/internal/models"
)

// Control — то, чем чат управляет ботом.
type Control interface {
	Start() bool
	Stop() bool
	Running() bool
}

type botAPI interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	GetUpdatesChan(config tgbot.UpdateConfig) tgbot.UpdatesChannel
	StopReceivingUpdates()
}

// Telegram — синк сигналов в один чат и команды /status /start /stop из него.
type Telegram struct {
	bot         botAPI
	chatID      int64
	entriesOnly bool
	ctl         Control
	log         *zap.Logger
}

func NewTelegram(token string, chatID int64, entriesOnly bool, ctl Control, log *zap.Logger) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot api")
	}
	return newTelegram(b, chatID, entriesOnly, ctl, log), nil
}

func newTelegram(bot botAPI, chatID int64, entriesOnly bool, ctl Control, log *zap.Logger) *Telegram {
	if log == nil {
		log = zap.NewNop()
	}
	return &Telegram{bot: bot, chatID: chatID, entriesOnly: entriesOnly, ctl: ctl, log: log}
}

func (t *Telegram) Name() string { return "telegram" }

// Accept шлёт сигнал в чат. WAIT пропускаются, если entriesOnly.
func (t *Telegram) Accept(_ context.Context, sig models.Signal) error {
	if t.entriesOnly && !sig.IsEntry() {
		return nil
	}
	return t.Send(FormatSignal(sig))
}

func (t *Telegram) Send(text string) error {
	msg := tgbot.NewMessage(t.chatID, text)
	msg.ParseMode = tgbot.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		return errors.Wrap(err, "telegram send")
	}
	return nil
}

// Start: long-polling команд из своего чата.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				if upd.Message == nil || upd.Message.Chat == nil || upd.Message.Chat.ID != t.chatID {
					continue
				}
				if !upd.Message.IsCommand() {
					continue
				}
				if reply := t.handleCommand(upd.Message.Command()); reply != "" {
					if err := t.Send(reply); err != nil {
						t.log.Warn("command reply failed", zap.Error(err))
					}
				}
			}
		}
	}()
}

func (t *Telegram) Stop() { t.bot.StopReceivingUpdates() }

func (t *Telegram) handleCommand(cmd string) string {
	if t.ctl == nil {
		return ""
	}
	switch cmd {
	case "status":
		if t.ctl.Running() {
			return "🟢 Бот работает"
		}
		return "⏸ Бот остановлен"
	case "start":
		if t.ctl.Start() {
			t.log.Info("bot started from telegram")
			return "▶️ Бот запущен"
		}
		return "🟢 Уже работает"
	case "stop":
		if t.ctl.Stop() {
			t.log.Info("bot stopped from telegram")
			return "⏹ Бот остановлен"
		}
		return "⏸ Уже остановлен"
	}
	return ""
}
