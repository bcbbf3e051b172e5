package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pqchat/internal/app"
	"pqchat/internal/crypto"
	"pqchat/internal/domain"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the local identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return offline(cmd, func(a *app.ClientApp) error {
				id, err := requireIdentity(a)
				if err != nil {
					return err
				}
				printIdentity(newPrinter(cmd.OutOrStdout()), id)
				return nil
			})
		},
	}
}

func contactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "List known contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return offline(cmd, func(a *app.ClientApp) error {
				printContacts(newPrinter(cmd.OutOrStdout()), a.Contacts.List())
				return nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [uuid]",
		Short: "Print stored messages, optionally for one contact",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return offline(cmd, func(a *app.ClientApp) error {
				var (
					msgs []domain.ChatMessage
					err  error
				)
				if len(args) == 1 {
					id, perr := uuid.Parse(args[0])
					if perr != nil {
						return fmt.Errorf("invalid contact id %q: %w", args[0], perr)
					}
					msgs, err = a.Messages.History(id)
				} else {
					msgs, err = a.Messages.AllHistory()
				}
				if err != nil {
					return err
				}
				printHistory(newPrinter(cmd.OutOrStdout()), msgs, a.Contacts.List())
				return nil
			})
		},
	}
}

func printIdentity(p *printer, id domain.Identity) {
	p.printf("UUID:        %s\n", id.UUID)
	p.printf("Name:        %s\n", id.Name)
	p.printf("KEM:         %s\n", id.KEMScheme)
	p.printf("Fingerprint: %s\n", crypto.Fingerprint(id.PublicKey))
}

func printContacts(p *printer, contacts []domain.Contact) {
	if len(contacts) == 0 {
		p.printf("no contacts\n")
		return
	}
	for _, c := range contacts {
		p.printf("%-16s %s  %s  (%s)\n", c.Name, c.UUID, crypto.Fingerprint(c.PublicKey), c.Origin)
	}
}

func printHistory(p *printer, msgs []domain.ChatMessage, contacts []domain.Contact) {
	names := make(map[domain.UUID]string, len(contacts))
	for _, c := range contacts {
		names[c.UUID] = c.Name
	}
	for _, m := range msgs {
		p.message(m, names[m.ContactUUID])
	}
}
