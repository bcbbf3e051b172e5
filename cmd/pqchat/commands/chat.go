package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pqchat/internal/client"
	"pqchat/internal/domain"
)

const identityTimeout = 30 * time.Second

const chatHelp = `Commands:
  /add <uuid>             connect with a contact
  /msg <uuid|name> <text> send a message
  /contacts               list contacts
  /history [uuid|name]    show stored messages
  /whoami                 show your identity
  /quit                   leave
`

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Connect to the relay and chat interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			out := newPrinter(cmd.OutOrStdout())
			a, logger, err := openApp(cmd, out)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, a.Close())
				_ = logger.Sync()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.Client.Connect(ctx); err != nil {
				return err
			}
			waitCtx, cancel := context.WithTimeout(ctx, identityTimeout)
			id, err := a.Client.WaitForIdentity(waitCtx)
			cancel()
			if err != nil {
				return err
			}
			out.printf("Connecting as %s (%s). Type /help for commands.\n", id.Name, id.UUID)
			return repl(ctx, a.Client, cmd.InOrStdin(), out)
		},
	}
}

// repl reads commands from in until /quit, end of input, cancellation or
// loss of the relay connection.
func repl(ctx context.Context, c *client.Client, in io.Reader, out *printer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		s := bufio.NewScanner(in)
		for s.Scan() {
			select {
			case lines <- s.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	done := c.Done()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			if err := c.Err(); err != nil {
				return fmt.Errorf("connection lost: %w", err)
			}
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := execLine(ctx, c, strings.TrimSpace(line), out)
			if err != nil {
				out.printf("error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

func execLine(ctx context.Context, c *client.Client, line string, out *printer) (bool, error) {
	if line == "" {
		return false, nil
	}
	fields := strings.SplitN(line, " ", 3)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		out.printf("%s", chatHelp)
	case "/whoami":
		id, ok := c.Identity()
		if !ok {
			return false, domain.ErrNoIdentity
		}
		printIdentity(out, id)
	case "/contacts":
		printContacts(out, c.Contacts())
	case "/add":
		if len(fields) != 2 {
			return false, errors.New("usage: /add <uuid>")
		}
		id, err := uuid.Parse(fields[1])
		if err != nil {
			return false, fmt.Errorf("invalid id %q: %w", fields[1], err)
		}
		return false, c.ContactConnectionRequest(ctx, id)
	case "/msg":
		if len(fields) != 3 || strings.TrimSpace(fields[2]) == "" {
			return false, errors.New("usage: /msg <uuid|name> <text>")
		}
		to, err := resolveContact(c.Contacts(), fields[1])
		if err != nil {
			return false, err
		}
		return false, c.SendMessage(ctx, to.UUID, fields[2])
	case "/history":
		var (
			msgs []domain.ChatMessage
			err  error
		)
		switch len(fields) {
		case 1:
			msgs, err = c.AllHistory()
		case 2:
			to, rerr := resolveContact(c.Contacts(), fields[1])
			if rerr != nil {
				return false, rerr
			}
			msgs, err = c.History(to.UUID)
		default:
			return false, errors.New("usage: /history [uuid|name]")
		}
		if err != nil {
			return false, err
		}
		printHistory(out, msgs, c.Contacts())
	default:
		return false, fmt.Errorf("unknown command %q, try /help", fields[0])
	}
	return false, nil
}

// resolveContact finds a contact by UUID or, failing that, by exact name.
// An ambiguous name is an error.
func resolveContact(contacts []domain.Contact, ref string) (domain.Contact, error) {
	if id, err := uuid.Parse(ref); err == nil {
		for _, c := range contacts {
			if c.UUID == id {
				return c, nil
			}
		}
		return domain.Contact{}, fmt.Errorf("%w: %s, use /add first", domain.ErrContactNotFound, id)
	}
	var found []domain.Contact
	for _, c := range contacts {
		if c.Name == ref {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return domain.Contact{}, fmt.Errorf("%w: %q", domain.ErrContactNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return domain.Contact{}, fmt.Errorf("name %q is ambiguous, use the id", ref)
	}
}
