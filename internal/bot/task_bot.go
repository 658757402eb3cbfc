package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"cuctask_bot/internal/logger"
	"cuctask_bot/internal/ratelimit"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// Command words routed to the task interpreter.
var commandWords = map[string]bool{
	"!task":  true,
	"!tasks": true,
	"!todo":  true,
}

// Executor runs one task command and returns the reply text.
type Executor interface {
	Execute(ctx context.Context, args []string, channelID string) string
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TaskBot connects the task commands to Telegram chats and delivers reminders.
type TaskBot struct {
	api      *tgbotapi.BotAPI
	sender   sender
	executor Executor
	limiter  *ratelimit.Limiter
	stopCh   chan struct{}
	stopOnce sync.Once

	// mu orders handler registration against Stop so wg.Add never races wg.Wait
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup

	log *slog.Logger
}

func NewTaskBot(token string, executor Executor, limiter *ratelimit.Limiter) (*TaskBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newTaskBot(api, executor, limiter)
	b.api = api
	b.log.Info("task bot authorized", "username", api.Self.UserName)
	return b, nil
}

func newTaskBot(s sender, executor Executor, limiter *ratelimit.Limiter) *TaskBot {
	return &TaskBot{
		sender:   s,
		executor: executor,
		limiter:  limiter,
		stopCh:   make(chan struct{}),
		log:      logger.Component("task_bot"),
	}
}

// Start listens for updates until Stop is called. It blocks.
func (b *TaskBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}

			if !b.dispatch(update.Message) {
				return
			}
		}
	}
}

// dispatch handles msg in its own goroutine. It returns false once Stop has
// been called, in which case msg is dropped.
func (b *TaskBot) dispatch(msg *tgbotapi.Message) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return false
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handleMessage(msg)
	}()
	return true
}

// Stop gracefully stops the bot
func (b *TaskBot) Stop() {
	b.stopOnce.Do(func() {
		b.log.Info("stopping task bot...")
		b.mu.Lock()
		b.stopped = true
		b.mu.Unlock()
		close(b.stopCh)
		if b.api != nil {
			b.api.StopReceivingUpdates()
		}
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("task bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("task bot shutdown timeout, some handlers may not have completed")
	}
}

// ParseCommand splits a chat message into the arguments after the command
// word. ok is false when the message is not a task command.
func ParseCommand(text string) (args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !commandWords[strings.ToLower(fields[0])] {
		return nil, false
	}
	return fields[1:], true
}

func (b *TaskBot) handleMessage(msg *tgbotapi.Message) {
	args, ok := ParseCommand(msg.Text)
	if !ok {
		return
	}

	channelID := strconv.FormatInt(msg.Chat.ID, 10)
	log := b.log.With("request_id", uuid.NewString(), "channel_id", channelID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var response string
	if b.limiter.Allow(ctx, channelID) {
		start := time.Now()
		response = b.executor.Execute(ctx, args, channelID)
		log.Debug("task command handled", "args", len(args), "took", time.Since(start))
	} else {
		log.Warn("task command rate limited")
		response = "⏳ Too many task commands, please slow down."
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ReplyToMessageID = msg.MessageID
	if _, err := b.sender.Send(reply); err != nil {
		log.Error("error sending message", "error", err)
	}
}

// Send posts text to a chat. channelID is the decimal Telegram chat id.
func (b *TaskBot) Send(_ context.Context, text, channelID string) error {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid channel id %q: %w", channelID, err)
	}
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	return nil
}
