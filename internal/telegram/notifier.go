package telegram

import (
	"context"
	"fmt"
	"html"
	"log"
)

// Notifier posts first-place announcements to one chat.
type Notifier struct {
	client *Client
	chatID int64
}

// NewNotifier returns nil when the bot token or the chat id is missing.
func NewNotifier(token string, chatID int64) *Notifier {
	if token == "" || chatID == 0 {
		log.Printf("telegram: announcements disabled")
		return nil
	}
	return &Notifier{client: NewClient(token), chatID: chatID}
}

func NewNotifierWithClient(client *Client, chatID int64) *Notifier {
	return &Notifier{client: client, chatID: chatID}
}

func (n *Notifier) NotifyNewLeader(ctx context.Context, quizTitle, username string, score int) error {
	text := fmt.Sprintf("🏆 <b>%s</b> is now #1 on <b>%s</b> with %d%%",
		html.EscapeString(username), html.EscapeString(quizTitle), score)

	if _, err := n.client.SendMessage(ctx, n.chatID, text, "HTML"); err != nil {
		return fmt.Errorf("announce leader: %w", err)
	}
	log.Printf("telegram: announced %s as leader of %q", username, quizTitle)
	return nil
}
