package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/service"
)

func newSignupCmd(a *app) *cobra.Command {
	var reader domain.Reader

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a reader and print the issued reader ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.readers.Signup(cmd.Context(), reader); err != nil {
				return reported(err)
			}
			return nil
		},
	}

	addReaderFlags(cmd, &reader.FirstName, &reader.LastName, &reader.PhoneNumber, &reader.Email)
	return cmd
}

func newLoanCmd(a *app) *cobra.Command {
	var (
		guest    domain.GuestLoan
		readerID string
	)

	cmd := &cobra.Command{
		Use:   "loan BOOK_ID",
		Short: "Loan a book",
		Long: `Loan a book to a registered reader or to a guest.

With --reader-id, or with no reader flags at all, the book is loaned to a
registered reader; the reader ID is asked for when it is not given. End the
prompt with Ctrl-D to cancel. With --first-name and the other guest flags the
book is loaned to the described reader instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := service.ParseBookID(args[0])
			if err != nil {
				fmt.Fprintln(a.errOut, service.DetailError(err))
				return reported(err)
			}

			if guest != (domain.GuestLoan{}) {
				if _, err := a.loans.LoanAsGuest(cmd.Context(), bookID, guest); err != nil {
					return reported(err)
				}
				return nil
			}

			var prompter service.Prompter = service.Answer(readerID)
			if !cmd.Flags().Changed("reader-id") {
				prompter = newLinePrompter(a.in, a.out)
			}

			_, err = a.loans.LoanByPrompt(cmd.Context(), bookID, prompter)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, service.ErrPromptCanceled):
				return nil
			default:
				return reported(err)
			}
		},
	}

	cmd.Flags().StringVar(&readerID, "reader-id", "", "ID of a registered reader")
	addReaderFlags(cmd, &guest.FirstName, &guest.LastName, &guest.PhoneNumber, &guest.Email)
	for _, name := range []string{"first-name", "last-name", "phone", "email"} {
		cmd.MarkFlagsMutuallyExclusive("reader-id", name)
	}
	return cmd
}

func addReaderFlags(cmd *cobra.Command, first, last, phone, email *string) {
	flags := cmd.Flags()
	flags.StringVar(first, "first-name", "", "First name")
	flags.StringVar(last, "last-name", "", "Last name")
	flags.StringVar(phone, "phone", "", "Phone number, +375XXXXXXXXX")
	flags.StringVar(email, "email", "", "Email address")
}

// linePrompter asks on out and reads one line from in. End of input cancels.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt implements service.Prompter.
func (p *linePrompter) Prompt(ctx context.Context, question string) (string, error) {
	fmt.Fprint(p.out, question+" ")

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		done <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if errors.Is(r.err, io.EOF) && r.line == "" {
			fmt.Fprintln(p.out)
			return "", service.ErrPromptCanceled
		}
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return "", r.err
		}
		return strings.TrimRight(r.line, "\r\n"), nil
	}
}
