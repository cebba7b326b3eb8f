package message

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound         = errors.New("message not found")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrReplyToNotFound  = errors.New("replied-to message not found")
)

type (
	Repository interface {
		CreateMessage(msg Message) (Message, error)
		GetMessageByID(id int) (Message, error)
		// QueryMessagesByUser returns messages sent or received by the
		// user, newest first.
		QueryMessagesByUser(userID int) ([]Message, error)
		// DeleteMessage removes the message and nulls the ReplyToID of
		// any replies pointing at it.
		DeleteMessage(id int) error
	}

	// UserDirectory reports account existence; satisfied by user.Service.
	UserDirectory interface {
		UserExists(id int) (bool, error)
	}

	Service struct {
		repo  Repository
		users UserDirectory
	}
)

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// Send delivers a message from sender to the receiver named in nm. The
// receiver must exist; so must the replied-to message when a reply is given.
func (svc *Service) Send(senderID int, nm NewMessage) (Message, error) {
	ok, err := svc.users.UserExists(nm.ReceiverID)
	if err != nil {
		return Message{}, errors.Wrap(err, "checking receiver")
	}
	if !ok {
		return Message{}, ErrReceiverNotFound
	}
	if nm.ReplyToID != nil {
		if _, err = svc.repo.GetMessageByID(*nm.ReplyToID); err != nil {
			if errors.Cause(err) == ErrNotFound {
				return Message{}, ErrReplyToNotFound
			}
			return Message{}, errors.Wrap(err, "checking replied-to message")
		}
	}

	msg := Message{
		SenderID:   senderID,
		ReceiverID: nm.ReceiverID,
		Content:    nm.Content,
		ReplyToID:  nm.ReplyToID,
		SentAt:     time.Now().UTC(),
	}
	return svc.repo.CreateMessage(msg)
}

// Thread lists the user's conversation, newest first.
func (svc *Service) Thread(userID int) ([]Message, error) {
	return svc.repo.QueryMessagesByUser(userID)
}

func (svc *Service) Get(id int) (Message, error) {
	return svc.repo.GetMessageByID(id)
}

// Delete removes a message. Replies survive with their reply reference
// cleared; deletion never cascades.
func (svc *Service) Delete(id int) error {
	if _, err := svc.repo.GetMessageByID(id); err != nil {
		return err
	}
	return svc.repo.DeleteMessage(id)
}
