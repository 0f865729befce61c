package sink

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weatherwatch/internal/weather"
)

// TelegramSink delivers the report lines as one MarkdownV2 message, followed
// by the rendered chart photo when a chart renderer is attached. All
// channel-specific escaping happens here, never in the core.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	chart  *ChartSink
}

// NewTelegramSink creates the sink. chart may be nil, in which case only the
// text message is sent.
func NewTelegramSink(token string, chatID int64, chart *ChartSink) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramSink{bot: bot, chatID: chatID, chart: chart}, nil
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Sink(ctx context.Context, r *weather.WeatherReport) error {
	text := EscapeMarkdownV2(strings.Join(r.Lines(), "\n"))

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	if s.chart == nil {
		return nil
	}
	png, err := s.chart.Render(r)
	if err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(s.chatID, tgbotapi.FileBytes{
		Name:  fileStamp(r.GeneratedAt) + "_weather.png",
		Bytes: png,
	})
	if _, err := s.bot.Send(photo); err != nil {
		return fmt.Errorf("send telegram photo: %w", err)
	}
	return nil
}

// markdownV2Specials lists the characters Telegram requires escaped in
// MarkdownV2 text. '*' and '_' stay unescaped so bold/italic markers survive.
const markdownV2Specials = "[]()~`>#+-=|{}.!"

// EscapeMarkdownV2 backslash-escapes MarkdownV2 special characters.
func EscapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownV2Specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
