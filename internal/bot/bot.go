package bot

import (
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLen is Telegram's limit for a text message.
const maxMessageLen = 4096

// Bot sends messages to Telegram chats
type Bot struct {
	Client *tgbotapi.BotAPI
	name   string
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	return NewWithEndpoint(name, token, tgbotapi.APIEndpoint, &http.Client{})
}

// NewWithEndpoint creates a bot talking to a custom API endpoint
func NewWithEndpoint(name, token, endpoint string, client tgbotapi.HTTPClient) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, err
	}

	log.Printf("[%s] authorized on account %s", name, botClient.Self.UserName)

	return &Bot{
		Client: botClient,
		name:   name,
	}, nil
}

// SendMessage sends text to chatID, cutting it to Telegram's length limit
func (b *Bot) SendMessage(chatID int64, text string) error {
	if runes := []rune(text); len(runes) > maxMessageLen {
		text = string(runes[:maxMessageLen-1]) + "…"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	_, err := b.Client.Send(msg)
	return err
}
