package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cuctask_bot/internal/domain"
	"cuctask_bot/internal/metrics"
	"cuctask_bot/internal/timeparse"
)

// Store is the persistence the interpreter needs.
type Store interface {
	Create(ctx context.Context, t *domain.Task) error
	FindAll(ctx context.Context) ([]*domain.Task, error)
	Update(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

const msgStorageError = "⚠️ Task storage is unavailable, please try again later."

// Interpreter turns "!task ..." arguments into store mutations and a reply.
type Interpreter struct {
	store  Store
	parser *timeparse.Parser
	log    *slog.Logger
}

func NewInterpreter(store Store, parser *timeparse.Parser, log *slog.Logger) *Interpreter {
	return &Interpreter{store: store, parser: parser, log: log}
}

// Execute runs one command. args excludes the "!task" word itself. The reply
// always carries the panel header; failures are reported in the text.
func (in *Interpreter) Execute(ctx context.Context, args []string, channelID string) string {
	if len(args) == 0 {
		metrics.Commands.WithLabelValues("help", "ok").Inc()
		return Header + usageText
	}

	action := strings.ToLower(args[0])
	rest := args[1:]

	var (
		response string
		result   string
	)

	switch action {
	case "add":
		response, result = in.handleAdd(ctx, rest, channelID)
	case "list":
		response, result = in.handleList(ctx)
	case "done":
		response, result = in.handleDone(ctx, rest)
	case "remove":
		response, result = in.handleRemove(ctx, rest)
	case "edit":
		response, result = in.handleEdit(ctx, rest)
	default:
		action = "help"
		response, result = usageText, "ok"
	}

	metrics.Commands.WithLabelValues(action, result).Inc()
	return Header + response
}

func (in *Interpreter) handleAdd(ctx context.Context, args []string, channelID string) (string, string) {
	fullText := strings.TrimSpace(strings.Join(args, " "))

	deadlineExpr, content, _ := ExtractClause(fullText, markerDeadline)
	remindExpr, content, _ := ExtractClause(content, markerRemind)
	content = strings.TrimSpace(content)

	if content == "" {
		return "⚠️ Please enter the task content: !task add <content>", "invalid"
	}

	task := &domain.Task{
		Content:   content,
		Deadline:  in.parseField("deadline", deadlineExpr),
		RemindAt:  in.parseField("remind", remindExpr),
		ChannelID: channelPtr(channelID),
	}
	if err := in.store.Create(ctx, task); err != nil {
		in.log.Error("failed to create task", "error", err)
		return msgStorageError, "error"
	}

	// index stays 0 when the task cannot be located in a fresh listing
	index := 0
	if tasks, err := in.store.FindAll(ctx); err == nil {
		index = DisplayIndex(tasks, task.ID)
	} else {
		in.log.Warn("failed to load tasks for display index", "error", err)
	}

	var sb strings.Builder
	if index > 0 {
		fmt.Fprintf(&sb, "✅ Added task [%d]: %s", index, task.Content)
	} else {
		fmt.Fprintf(&sb, "✅ Added task: %s", task.Content)
	}
	if task.Deadline != nil {
		fmt.Fprintf(&sb, "\n⏰ Deadline: %s", in.parser.Format(*task.Deadline))
	}
	if task.RemindAt != nil {
		fmt.Fprintf(&sb, "\n🔔 Remind at: %s", in.parser.Format(*task.RemindAt))
	}
	return sb.String(), "ok"
}

func (in *Interpreter) handleList(ctx context.Context) (string, string) {
	tasks, err := in.store.FindAll(ctx)
	if err != nil {
		in.log.Error("failed to list tasks", "error", err)
		return msgStorageError, "error"
	}
	if len(tasks) == 0 {
		return "📭 No tasks yet.", "ok"
	}

	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		marker := "🕒"
		if t.Done {
			marker = "✅"
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s [%d] %s", marker, i+1, t.Content)
		if t.Deadline != nil {
			fmt.Fprintf(&sb, "\n   ⏰ Deadline: %s", in.parser.Format(*t.Deadline))
		}
		if t.RemindAt != nil {
			fmt.Fprintf(&sb, "\n   🔔 Remind: %s", in.parser.Format(*t.RemindAt))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n\n"), "ok"
}

func (in *Interpreter) handleDone(ctx context.Context, args []string) (string, string) {
	raw := firstArg(args)
	task, resp, result := in.resolve(ctx, raw)
	if task == nil {
		return resp, result
	}

	if _, err := in.store.Update(ctx, task.ID, domain.TaskPatch{Done: domain.Bool(true)}); err != nil {
		return in.mutationFailed(raw, task.ID, err)
	}
	return fmt.Sprintf("✅ Completed task #%s: %s", raw, task.Content), "ok"
}

func (in *Interpreter) handleRemove(ctx context.Context, args []string) (string, string) {
	raw := firstArg(args)
	task, resp, result := in.resolve(ctx, raw)
	if task == nil {
		return resp, result
	}

	if err := in.store.Delete(ctx, task.ID); err != nil {
		return in.mutationFailed(raw, task.ID, err)
	}
	return fmt.Sprintf("🗑️ Removed task #%s: %s", raw, task.Content), "ok"
}

func (in *Interpreter) handleEdit(ctx context.Context, args []string) (string, string) {
	raw := firstArg(args)
	task, resp, result := in.resolve(ctx, raw)
	if task == nil {
		return resp, result
	}

	var fullText string
	if len(args) > 1 {
		fullText = strings.Join(args[1:], " ")
	}
	deadlineExpr, _, _ := ExtractClause(fullText, markerDeadline)
	remindExpr, _, _ := ExtractClause(fullText, markerRemind)

	// Editing always re-arms the reminder, even when /remind is unchanged or missing.
	patch := domain.TaskPatch{
		Deadline: in.parseField("deadline", deadlineExpr),
		RemindAt: in.parseField("remind", remindExpr),
		Reminded: domain.Bool(false),
	}

	updated, err := in.store.Update(ctx, task.ID, patch)
	if err != nil {
		return in.mutationFailed(raw, task.ID, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✏️ Updated task #%s", raw)
	if updated.Deadline != nil {
		fmt.Fprintf(&sb, "\n⏰ Deadline: %s", in.parser.Format(*updated.Deadline))
	}
	if updated.RemindAt != nil {
		fmt.Fprintf(&sb, "\n🔔 Remind: %s", in.parser.Format(*updated.RemindAt))
	}
	return sb.String(), "ok"
}

// resolve loads the current list and maps raw onto a task. When it returns
// a nil task the accompanying response and result describe why.
func (in *Interpreter) resolve(ctx context.Context, raw string) (*domain.Task, string, string) {
	tasks, err := in.store.FindAll(ctx)
	if err != nil {
		in.log.Error("failed to load tasks", "error", err)
		return nil, msgStorageError, "error"
	}
	task, ok := ResolveIndex(tasks, raw)
	if !ok {
		return nil, notFound(raw), "not_found"
	}
	return task, "", ""
}

func (in *Interpreter) mutationFailed(raw string, id int64, err error) (string, string) {
	if errors.Is(err, domain.ErrTaskNotFound) {
		// removed by someone else between resolve and write
		return notFound(raw), "not_found"
	}
	in.log.Error("task mutation failed", "task_id", id, "error", err)
	return msgStorageError, "error"
}

// parseField parses one clause value. Absent and unparseable values both
// yield nil, which leaves the field unset (add) or unchanged (edit).
func (in *Interpreter) parseField(field, expr string) *time.Time {
	t, err := in.parser.Parse(expr)
	switch {
	case errors.Is(err, timeparse.ErrAbsent):
		return nil
	case err != nil:
		in.log.Debug("ignoring unparseable time", "field", field, "input", expr)
		return nil
	}
	return &t
}

func notFound(raw string) string {
	return fmt.Sprintf("❌ Task #%s not found.", raw)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func channelPtr(channelID string) *string {
	if channelID == "" {
		return nil
	}
	return &channelID
}
