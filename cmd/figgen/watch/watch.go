package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tmaxmax/go-sse"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/completion"
	"github.com/figgen/figgen-cli/cmd/figgen/version"
	"github.com/figgen/figgen-cli/internal/coordinator"
)

func NewWatchCmd() *cobra.Command {
	var (
		port     string
		document string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the messages the daemon sends to the UI panels",
		Long: "Connects to a running daemon and prints every message it sends to the UI panels: " +
			"progress, alerts and selection updates.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := watch(cmd.Context(), port, document); err != nil {
				feedback.Fatal(fmt.Sprintf("cannot watch daemon events: %v", err), feedback.ErrNetwork)
			}
		},
	}
	cmd.Flags().StringVar(&port, "port", version.DefaultPort, "The daemon listening port")
	cmd.Flags().StringVarP(&document, "document", "d", "", "Only show the messages of this document")
	_ = cmd.RegisterFlagCompletionFunc("document", completion.DocumentNames())

	return cmd
}

func watch(ctx context.Context, port, document string) error {
	u := version.DaemonURL(port, "/v1/events")
	if document != "" {
		q := u.Query()
		q.Set("document", document)
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	conn := sse.DefaultClient.NewConnection(req)
	conn.SubscribeToAll(func(event sse.Event) {
		var msg coordinator.Message
		if err := json.Unmarshal([]byte(event.Data), &msg); err != nil {
			slog.Warn("Discarding malformed event", slog.String("type", event.Type), slog.String("error", err.Error()))
			return
		}
		feedback.PrintResult(eventResult{Time: time.Now(), Message: msg})
	})

	err = conn.Connect()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type eventResult struct {
	Time    time.Time           `json:"time"`
	Message coordinator.Message `json:"message"`
}

func (r eventResult) String() string {
	var b strings.Builder
	b.WriteString(color.New(color.Faint).Sprint(r.Time.Format(time.TimeOnly)))
	if r.Message.Document != "" {
		b.WriteString(" [" + r.Message.Document + "]")
	}
	b.WriteString(" ")

	msg := r.Message
	switch msg.Type {
	case coordinator.TypeContextUpdate:
		if msg.Frame == nil {
			b.WriteString("selection: no frame selected")
		} else {
			fmt.Fprintf(&b, "selection: %s %gx%g", msg.Frame.Name, msg.Frame.Width, msg.Frame.Height)
			if msg.Frame.DeviceType != "" {
				fmt.Fprintf(&b, " (%s)", msg.Frame.DeviceType)
			}
		}
	case coordinator.TypeProgress:
		b.WriteString(color.CyanString("… ") + msg.Message)
	default:
		b.WriteString(alertColor(msg.AlertType).Sprint(alertIcon(msg.Type, msg.AlertType)) + " " + msg.Message)
		for _, s := range msg.Suggestions {
			b.WriteString("\n    - " + s)
		}
	}
	return b.String()
}

func (r eventResult) Data() any {
	return r
}

func alertColor(t coordinator.AlertType) *color.Color {
	switch t {
	case coordinator.AlertError:
		return color.New(color.FgRed, color.Bold)
	case coordinator.AlertWarning:
		return color.New(color.FgYellow)
	case coordinator.AlertInfo:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgGreen)
	}
}

func alertIcon(m coordinator.MessageType, t coordinator.AlertType) string {
	if m == coordinator.TypeSuccess {
		return "✓"
	}
	switch t {
	case coordinator.AlertError:
		return "✗"
	case coordinator.AlertWarning:
		return "!"
	case coordinator.AlertSuccess:
		return "✓"
	default:
		return "i"
	}
}
