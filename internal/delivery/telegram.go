package delivery

import (
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"video-courier/internal/logging"
)

// Telegram delivers artifacts and notices through the Telegram Bot API.
type Telegram struct {
	bot             *tgbotapi.BotAPI
	maxPayloadBytes int64
}

// NewTelegram authenticates the bot token against the Telegram API and
// returns an agent enforcing the given payload ceiling.
func NewTelegram(token string, maxPayloadBytes int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("delivery: telegram auth: %w", err)
	}
	logging.Info("Telegram bot authorized as @%s", bot.Self.UserName)

	return &Telegram{
		bot:             bot,
		maxPayloadBytes: maxPayloadBytes,
	}, nil
}

// SendArtifact uploads the video file to the chat. The size is checked
// against the transport ceiling first so an oversized file fails fast
// instead of dying mid-upload.
func (t *Telegram) SendArtifact(chatID int64, path, caption string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("delivery: stat artifact: %w", err)
	}
	if info.Size() > t.maxPayloadBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, info.Size(), t.maxPayloadBytes)
	}

	video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
	video.Caption = caption
	video.SupportsStreaming = true

	if _, err := t.bot.Send(video); err != nil {
		return fmt.Errorf("delivery: send video: %w", err)
	}
	return nil
}

// SendNotice sends a plain text message to the chat.
func (t *Telegram) SendNotice(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("delivery: send notice: %w", err)
	}
	return nil
}
