package bot

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	msgs []tgbotapi.MessageConfig
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		s.msgs = append(s.msgs, m)
	}
	return tgbotapi.Message{}, s.err
}

type recordingExecutor struct {
	args      []string
	channelID string
}

func (e *recordingExecutor) Execute(_ context.Context, args []string, channelID string) string {
	e.args = args
	e.channelID = channelID
	return "reply:" + strings.Join(args, ",")
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		text string
		args []string
		ok   bool
	}{
		{"!task add Write report", []string{"add", "Write", "report"}, true},
		{"!task", []string{}, true},
		{"  !TODO   list ", []string{"list"}, true},
		{"!tasks done 2", []string{"done", "2"}, true},
		{"hello !task list", nil, false},
		{"!taskx list", nil, false},
		{"", nil, false},
	}

	for _, tc := range cases {
		args, ok := ParseCommand(tc.text)
		if ok != tc.ok {
			t.Fatalf("ParseCommand(%q) ok = %v; want %v", tc.text, ok, tc.ok)
		}
		if ok && !reflect.DeepEqual(args, tc.args) {
			t.Fatalf("ParseCommand(%q) args = %#v; want %#v", tc.text, args, tc.args)
		}
	}
}

func TestHandleMessageRepliesInChat(t *testing.T) {
	s := &fakeSender{}
	exec := &recordingExecutor{}
	b := newTaskBot(s, exec, nil)

	b.handleMessage(&tgbotapi.Message{
		MessageID: 7,
		Text:      "!task list",
		Chat:      &tgbotapi.Chat{ID: -100123},
	})

	if exec.channelID != "-100123" {
		t.Fatalf("channel id = %q", exec.channelID)
	}
	if len(s.msgs) != 1 {
		t.Fatalf("expected one reply, got %d", len(s.msgs))
	}
	if s.msgs[0].Text != "reply:list" || s.msgs[0].ChatID != -100123 || s.msgs[0].ReplyToMessageID != 7 {
		t.Fatalf("unexpected reply %+v", s.msgs[0])
	}
}

func TestHandleMessageIgnoresChatter(t *testing.T) {
	s := &fakeSender{}
	exec := &recordingExecutor{}
	b := newTaskBot(s, exec, nil)

	b.handleMessage(&tgbotapi.Message{Text: "good morning", Chat: &tgbotapi.Chat{ID: 1}})

	if len(s.msgs) != 0 || exec.args != nil {
		t.Fatalf("plain chat should be ignored")
	}
}

func TestSend(t *testing.T) {
	s := &fakeSender{}
	b := newTaskBot(s, &recordingExecutor{}, nil)

	if err := b.Send(context.Background(), "🔔 ping", "42"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(s.msgs) != 1 || s.msgs[0].ChatID != 42 || s.msgs[0].Text != "🔔 ping" {
		t.Fatalf("unexpected message %+v", s.msgs)
	}

	if err := b.Send(context.Background(), "x", "not-a-chat"); err == nil {
		t.Fatalf("expected error for invalid channel id")
	}

	s.err = errors.New("forbidden: bot was blocked by the user")
	if err := b.Send(context.Background(), "x", "42"); err == nil {
		t.Fatalf("expected transport error to be returned")
	}
}

func TestDispatchAfterStopIsDropped(t *testing.T) {
	s := &fakeSender{}
	exec := &recordingExecutor{}
	b := newTaskBot(s, exec, nil)

	msg := &tgbotapi.Message{Text: "!task list", Chat: &tgbotapi.Chat{ID: 1}}
	if !b.dispatch(msg) {
		t.Fatalf("dispatch before Stop should be accepted")
	}

	b.Stop()
	if len(s.msgs) != 1 {
		t.Fatalf("Stop should wait for the in-flight handler, replies = %d", len(s.msgs))
	}

	if b.dispatch(msg) {
		t.Fatalf("dispatch after Stop should be refused")
	}
	b.Stop()
	if len(s.msgs) != 1 {
		t.Fatalf("message dispatched after Stop was handled")
	}
}
