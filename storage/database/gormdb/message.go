package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/darasa/core/message"
)

type messageRepository struct {
	db *gorm.DB
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *gorm.DB) message.Repository {
	return &messageRepository{db: db}
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	row := messageRow{
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		Content:        msg.Content,
		ReplyToID:      msg.ReplyToID,
		SentAt:         msg.SentAt,
		IsAnnouncement: msg.IsAnnouncement,
	}
	if err := repo.db.Create(&row).Error; err != nil {
		return message.Message{}, errors.Wrap(err, "creating message")
	}
	return row.toMessage(), nil
}

func (repo *messageRepository) GetMessageByID(id int) (message.Message, error) {
	var row messageRow
	if err := repo.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, message.ErrNotFound
		}
		return message.Message{}, errors.Wrap(err, "getting message")
	}
	return row.toMessage(), nil
}

func (repo *messageRepository) QueryMessagesByUser(userID int) ([]message.Message, error) {
	var rows []messageRow
	err := repo.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("sent_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	msgs := make([]message.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.toMessage())
	}
	return msgs, nil
}

// DeleteMessage removes the row; the reply FK's ON DELETE SET NULL clears
// ReplyToID on any replies.
func (repo *messageRepository) DeleteMessage(id int) error {
	res := repo.db.Delete(&messageRow{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting message")
	}
	if res.RowsAffected == 0 {
		return message.ErrNotFound
	}
	return nil
}
