package message_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/message"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

func setup(t *testing.T) (*message.Service, *user.Service) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), emailsvc.NewConsoleServiceMock(), core.Conf)
	return message.NewService(inmemdb.NewMessageRepository(db), usrSvc), usrSvc
}

func createUser(t *testing.T, svc *user.Service, uname string) user.User {
	t.Helper()
	usr, err := svc.Create(user.NewUser{Name: uname, Username: uname, Password: "s3cretpwd"})
	if err != nil {
		t.Fatalf("users.Create(%s): %v", uname, err)
	}
	return usr
}

func TestService_Send(t *testing.T) {
	svc, users := setup(t)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	msg, err := svc.Send(alice.ID, message.NewMessage{ReceiverID: bob.ID, Content: "hey"})
	if err != nil {
		t.Fatalf("Send(): %v", err)
	}
	if msg.SenderID != alice.ID || msg.ReceiverID != bob.ID {
		t.Errorf("Send() = %+v", msg)
	}
	if msg.SentAt.IsZero() {
		t.Error("SentAt is zero")
	}

	// replies must point at an existing message
	reply, err := svc.Send(bob.ID, message.NewMessage{ReceiverID: alice.ID, Content: "hey back", ReplyToID: &msg.ID})
	if err != nil {
		t.Fatalf("Send(reply): %v", err)
	}
	if reply.ReplyToID == nil || *reply.ReplyToID != msg.ID {
		t.Errorf("ReplyToID = %v; want %d", reply.ReplyToID, msg.ID)
	}

	missing := 404
	if _, err = svc.Send(alice.ID, message.NewMessage{ReceiverID: bob.ID, Content: "?", ReplyToID: &missing}); errors.Cause(err) != message.ErrReplyToNotFound {
		t.Errorf("Send(dangling reply) error = %v; want %v", err, message.ErrReplyToNotFound)
	}
	if _, err = svc.Send(alice.ID, message.NewMessage{ReceiverID: 404, Content: "hello?"}); errors.Cause(err) != message.ErrReceiverNotFound {
		t.Errorf("Send(unknown receiver) error = %v; want %v", err, message.ErrReceiverNotFound)
	}
}

func TestService_Thread(t *testing.T) {
	svc, users := setup(t)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	carol := createUser(t, users, "carol")

	first, err := svc.Send(alice.ID, message.NewMessage{ReceiverID: bob.ID, Content: "first"})
	if err != nil {
		t.Fatalf("Send(first): %v", err)
	}
	second, err := svc.Send(bob.ID, message.NewMessage{ReceiverID: alice.ID, Content: "second"})
	if err != nil {
		t.Fatalf("Send(second): %v", err)
	}
	if _, err = svc.Send(bob.ID, message.NewMessage{ReceiverID: carol.ID, Content: "aside"}); err != nil {
		t.Fatalf("Send(aside): %v", err)
	}

	// newest first, only the user's own messages
	msgs, err := svc.Thread(alice.ID)
	if err != nil {
		t.Fatalf("Thread(): %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Thread() len = %d; want 2", len(msgs))
	}
	if msgs[0].ID != second.ID || msgs[1].ID != first.ID {
		t.Errorf("Thread() order = [%d %d]; want [%d %d]", msgs[0].ID, msgs[1].ID, second.ID, first.ID)
	}
}

func TestService_Delete(t *testing.T) {
	svc, users := setup(t)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	msg, err := svc.Send(alice.ID, message.NewMessage{ReceiverID: bob.ID, Content: "delete me"})
	if err != nil {
		t.Fatalf("Send(): %v", err)
	}
	reply, err := svc.Send(bob.ID, message.NewMessage{ReceiverID: alice.ID, Content: "noted", ReplyToID: &msg.ID})
	if err != nil {
		t.Fatalf("Send(reply): %v", err)
	}

	if err = svc.Delete(msg.ID); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if _, err = svc.Get(msg.ID); errors.Cause(err) != message.ErrNotFound {
		t.Errorf("Get() after delete error = %v; want %v", err, message.ErrNotFound)
	}

	// the reply survives with its reference cleared
	reply, err = svc.Get(reply.ID)
	if err != nil {
		t.Fatalf("Get(reply): %v", err)
	}
	if reply.ReplyToID != nil {
		t.Errorf("reply.ReplyToID = %v; want nil", reply.ReplyToID)
	}

	if err = svc.Delete(404); errors.Cause(err) != message.ErrNotFound {
		t.Errorf("Delete(404) error = %v; want %v", err, message.ErrNotFound)
	}
}
