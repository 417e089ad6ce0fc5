package inbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/idgen"
	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/platform/snapshot"
	"github.com/shrs/shrs/internal/store"
)

func testClock() time.Time {
	return time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	st := store.New(context.Background(), snapshot.NewMemory(), store.Seeds{}, zerolog.Nop())
	return NewService(st, idgen.New(testClock), testClock)
}

func TestSend(t *testing.T) {
	svc := newTestService(t)
	m, err := svc.Send(context.Background(), model.Message{
		SenderID: "doc-1", RecipientID: "admin-1", Subject: "Checkup", Body: "Schedule class 5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.IsRead {
		t.Error("new message must be unread")
	}
	if !m.CreatedAt.Equal(testClock()) {
		t.Errorf("CreatedAt = %v, want stamped", m.CreatedAt)
	}
}

func TestSend_Rejections(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Send(context.Background(), model.Message{RecipientID: "a", Body: "x"}); err == nil {
		t.Error("expected error for missing sender")
	}
	if _, err := svc.Send(context.Background(), model.Message{SenderID: "a", Body: "x"}); err == nil {
		t.Error("expected error for missing recipient")
	}
	if _, err := svc.Send(context.Background(), model.Message{SenderID: "a", RecipientID: "b"}); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestInboxAndSent_NewestFirst(t *testing.T) {
	svc := newTestService(t)
	first, _ := svc.Send(context.Background(), model.Message{SenderID: "doc-1", RecipientID: "admin-1", Body: "one"})
	second, _ := svc.Send(context.Background(), model.Message{SenderID: "doc-1", RecipientID: "admin-1", Body: "two"})
	svc.Send(context.Background(), model.Message{SenderID: "admin-1", RecipientID: "doc-1", Body: "reply"})

	in := svc.Inbox("admin-1", false)
	if len(in) != 2 || in[0].ID != second.ID || in[1].ID != first.ID {
		t.Errorf("inbox order wrong: %v", in)
	}
	sent := svc.Sent("doc-1")
	if len(sent) != 2 {
		t.Errorf("sent = %d, want 2", len(sent))
	}
}

func TestMarkRead(t *testing.T) {
	svc := newTestService(t)
	m, _ := svc.Send(context.Background(), model.Message{SenderID: "a", RecipientID: "b", Body: "x"})

	read, err := svc.MarkRead(context.Background(), m.ID)
	if err != nil || !read.IsRead {
		t.Fatalf("MarkRead = %+v, %v", read, err)
	}
	if unread := svc.Inbox("b", true); len(unread) != 0 {
		t.Errorf("unread = %d, want 0", len(unread))
	}
	if _, err := svc.MarkRead(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
