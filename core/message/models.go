package message

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Message is a direct message between two accounts. Announcements reuse the
// same table with IsAnnouncement set; see core/announce for the broadcast
// variant.
type Message struct {
	ID             int       `json:"id"`
	SenderID       int       `json:"sender_id"`
	ReceiverID     int       `json:"receiver_id"`
	Content        string    `json:"content"`
	ReplyToID      *int      `json:"reply_to_id,omitempty"`
	SentAt         time.Time `json:"sent_at"`
	IsAnnouncement bool      `json:"is_announcement"`
}

type NewMessage struct {
	ReceiverID int    `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
	ReplyToID  *int   `json:"reply_to_id"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.Content = core.CleanString(nm.Content)
	return validate.Struct(nm)
}
