package workers

import (
	"bufio"
	"chat-client/contract"
	"chat-client/errors"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/gookit/color"
	"github.com/samber/lo"
)

const helpText = `/who            list online users
/search <text>  find messages containing text
/stats          show session counters
/leave, /quit   leave the channel
anything else is sent to the channel`

// PromptWorker reads user input line by line and drives the chat session.
// It returns nil when the user leaves or the input ends.
type PromptWorker struct {
	log      *slog.Logger
	session  contract.IChatSession
	in       io.Reader
	scanOnce sync.Once
	lines    <-chan string
	out      io.Writer
	quit     func()
}

func NewPromptWorker(log *slog.Logger, session contract.IChatSession, in io.Reader, out io.Writer, quit func()) *PromptWorker {
	return &PromptWorker{
		log:     log,
		session: session,
		in:      in,
		out:     out,
		quit:    quit,
	}
}

// scanLines reads in until EOF. The goroutine only ends with the input.
func scanLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func (w *PromptWorker) Run(ctx context.Context) error {
	// A restarted worker keeps reading from the same scanner
	w.scanOnce.Do(func() { w.lines = scanLines(w.in) })
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-w.lines:
			if !ok {
				w.leave(ctx)
				return nil
			}
			if done := w.handle(ctx, strings.TrimSpace(line)); done {
				return nil
			}
		}
	}
}

// handle returns true once the user left.
func (w *PromptWorker) handle(ctx context.Context, line string) bool {
	command, arg, _ := strings.Cut(line, " ")
	switch command {
	case "":
		return false
	case "/leave", "/quit":
		w.leave(ctx)
		return true
	case "/help":
		w.println(helpText)
	case "/who":
		view, err := w.session.View(ctx)
		if err != nil {
			w.fail(err)
			return false
		}
		w.println(fmt.Sprintf("%d online: %s", len(view.Online), strings.Join(view.Online, ", ")))
	case "/search":
		entries, err := w.session.Search(ctx, arg)
		if err != nil {
			w.fail(err)
			return false
		}
		if len(entries) == 0 {
			w.println("no match")
			return false
		}
		for _, entry := range entries {
			w.println(fmt.Sprintf("%s %s: %s", entry.Timestamp.Format("15:04:05"), lo.CoalesceOrEmpty(entry.Username, "*"), entry.Content))
		}
	case "/stats":
		stats := w.session.Stats()
		w.println(fmt.Sprintf("received %d, dropped %d, sent %d, unsent %d, confirmed %d, failures %d",
			stats.FramesReceived, stats.FramesDropped, stats.MessagesSent,
			stats.SendsDropped, stats.Reconciled, stats.TransportFailures))
	default:
		if strings.HasPrefix(command, "/") {
			w.println(fmt.Sprintf("unknown command %s, try /help", command))
			return false
		}
		if _, err := w.session.Send(ctx, line); err != nil {
			w.fail(err)
		}
	}
	return false
}

func (w *PromptWorker) leave(ctx context.Context) {
	if err := w.session.Leave(ctx); err != nil && !stderrors.Is(err, errors.ErrEngineStopped) {
		w.log.Warn("Leave failed", "error", err)
	}
	if w.quit != nil {
		w.quit()
	}
}

func (w *PromptWorker) println(text string) {
	_, _ = fmt.Fprintln(w.out, text)
}

func (w *PromptWorker) fail(err error) {
	_, _ = fmt.Fprintln(w.out, color.FgRed.Render(err.Error()))
}
