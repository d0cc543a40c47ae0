package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/loomchat/loom/pkg/api"
	"github.com/loomchat/loom/pkg/chat"
	"github.com/loomchat/loom/pkg/config"
	"github.com/spf13/viper"
)

// newSession wires a Session up to the backend, continuing the thread named
// by --thread when given.
func newSession(ctx context.Context, client *api.Client) (*chat.Session, error) {
	store := chat.NewStore()
	store.SetSelectedModel(config.Get().Chat.DefaultModel)

	session := chat.NewSession(store, client, client)
	if threadID := viper.GetString("thread"); threadID != "" {
		if err := session.SwitchThread(ctx, threadID); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// runOneShot sends a single prompt, streams the reply to stdout, and exits.
func runOneShot(ctx context.Context, prompt string) error {
	client := newAPIClient()
	session, err := newSession(ctx, client)
	if err != nil {
		return err
	}

	session.SetStreamCallback(func(content string) {
		fmt.Print(content)
	})

	if _, err := session.Send(ctx, prompt, session.SelectedModel()); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

// runRepl runs the interactive loop: plain lines are sent as messages,
// slash commands manage the session.
func runRepl(ctx context.Context) error {
	client := newAPIClient()
	session, err := newSession(ctx, client)
	if err != nil {
		return err
	}

	session.SetStreamCallback(func(content string) {
		fmt.Print(content)
	})

	printTranscript(session.ActiveMessages())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit", line == "/exit":
			return nil
		case line == "/new":
			session.Clear()
			fmt.Println(infoStyle.Render("Started a new conversation."))
			continue
		case strings.HasPrefix(line, "/thread "):
			threadID := strings.TrimSpace(strings.TrimPrefix(line, "/thread "))
			if err := session.SwitchThread(ctx, threadID); err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
				continue
			}
			printTranscript(session.ActiveMessages())
			continue
		case strings.HasPrefix(line, "/model "):
			model := strings.TrimSpace(strings.TrimPrefix(line, "/model "))
			session.SetSelectedModel(model)
			fmt.Println(infoStyle.Render("Model set to " + model))
			continue
		case strings.HasPrefix(line, "/"):
			fmt.Println(infoStyle.Render("Commands: /new /thread <id> /model <id> /quit"))
			continue
		}

		fmt.Print(assistantLabel())
		_, err := session.Send(ctx, line, session.SelectedModel())
		fmt.Println()
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		}
	}
	return scanner.Err()
}
