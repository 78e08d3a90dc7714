package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/itemo/client"
	"github.com/itemo/stdio"
	"github.com/itemo/types"
)

var (
	chatURL   string
	chatToken string

	clientCmd = &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the terminal",
		RunE:  runClientCmd,
	}
)

func init() {
	clientCmd.Flags().StringVar(&chatURL, "url", "http://localhost:9090", "server base URL")
	clientCmd.Flags().StringVar(&chatToken, "token", os.Getenv("ITEMO_TOKEN"), "access token")
	rootCmd.AddCommand(clientCmd)
}

func runClientCmd(cmd *cobra.Command, args []string) error {
	if chatToken == "" {
		return errors.New("--token or ITEMO_TOKEN is required")
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	conv := client.NewConversation(chatURL, chatToken, client.WithEventHandler(func(ev types.StreamEvent) {
		if ev.Type == types.EventToolStart {
			fmt.Fprintln(out, client.ToolStatus(ev.Tool))
		}
	}))

	fmt.Fprintln(out, "메시지를 입력하세요. /clear 로 대화를 지우고 /quit 로 종료합니다.")
	return stdio.ReadLines(cmd.InOrStdin(), out, func(line string) error {
		switch line {
		case "/quit":
			return stdio.ErrStop
		case "/clear":
			conv.Clear()
			return nil
		}
		return sendLine(cmd.Context(), conv, renderer, out, line)
	})
}

// sendLine sends one message. Ctrl-C cancels the reply without leaving the REPL.
func sendLine(ctx context.Context, conv *client.Conversation, renderer *glamour.TermRenderer, out io.Writer, line string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	err := conv.Send(ctx, line)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(out, "(%v)\n", err)
	}

	msgs := conv.Messages()
	if len(msgs) == 0 {
		return nil
	}
	answer := msgs[len(msgs)-1].Content
	rendered, rerr := renderer.Render(answer)
	if rerr != nil {
		rendered = answer + "\n"
	}
	fmt.Fprint(out, rendered)
	return nil
}
