package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"

	"github.com/compasslabs/compass-agent/pkg/answers"
	"github.com/compasslabs/compass-agent/pkg/chat"
	"github.com/compasslabs/compass-agent/pkg/session"
)

// runChatMode reads prompts in a loop until 'exit' or an interrupt. One user
// input is fully resolved before the next is accepted.
func runChatMode(ctx context.Context, reporter *chat.Reporter, sess *session.Session, threadID string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		fmt.Println("\nGoodbye Agent!")
		os.Exit(0)
	}()

	renderer := newRenderer()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Starting chat mode... Type 'exit' to end.")
	for {
		fmt.Print("\nPrompt: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		userInput := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(userInput), "exit") {
			return nil
		}

		for _, answer := range reporter.SafeCompose(ctx, sess, userInput, threadID) {
			fmt.Println(renderAnswer(renderer, answer))
		}
	}
}

func newRenderer() *glamour.TermRenderer {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil
	}
	return renderer
}

// renderAnswer formats an answer's content for the terminal: markdown for
// text, pretty-printed JSON for structured payloads.
func renderAnswer(renderer *glamour.TermRenderer, answer answers.Answer) string {
	var text string
	switch content := answer.Content.(type) {
	case string:
		text = content
	default:
		b, err := json.MarshalIndent(content, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", content)
		}
		text = "```json\n" + string(b) + "\n```"
	}

	if renderer == nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
