package inmemdb

import (
	"sort"

	"github.com/trezcool/darasa/core/message"
)

type messageRepository struct {
	db *messageTable
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *DB) message.Repository {
	return &messageRepository{db: db.message}
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	msg.ID = repo.db.seq
	repo.db.table[msg.ID] = &msg
	return msg, nil
}

func (repo *messageRepository) GetMessageByID(id int) (message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if msg, ok := repo.db.table[id]; ok {
		return *msg, nil
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) QueryMessagesByUser(userID int) ([]message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var msgs []message.Message
	for _, msg := range repo.db.table {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			msgs = append(msgs, *msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].SentAt.After(msgs[j].SentAt) })
	return msgs, nil
}

func (repo *messageRepository) DeleteMessage(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return message.ErrNotFound
	}
	delete(repo.db.table, id)
	// replies survive with their reply reference cleared
	for _, msg := range repo.db.table {
		if msg.ReplyToID != nil && *msg.ReplyToID == id {
			msg.ReplyToID = nil
		}
	}
	return nil
}
