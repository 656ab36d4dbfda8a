package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/librarydb/library-web/internal/apiclient"
	"github.com/librarydb/library-web/internal/config"
	"github.com/librarydb/library-web/internal/logger"
	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/service"
	"github.com/librarydb/library-web/internal/validation"
)

// errReported marks failures whose message was already printed as a notice.
var errReported = errors.New("reported")

func reported(err error) error {
	return fmt.Errorf("%w: %w", errReported, err)
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// Persistent flags, forwarded to config.Load when set.
	backendURL     string
	backendTimeout string
	logLevel       string
	envFile        string

	client  *apiclient.Client
	catalog *service.CatalogService
	books   *service.BookService
	loans   *service.LoanService
	readers *service.ReaderService
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "librarian",
		Short: "Browse and manage the library from the terminal",
		Long: `librarian talks to the library API directly.

It lists and shows books, adds books with their authors, registers readers
and records loans. Every action reports its outcome the way the web pages do.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.client != nil {
				a.client.Close()
			}
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.backendURL, "backend-url", "", "Base URL of the library API (default: $BACKEND_URL or http://localhost:8081)")
	flags.StringVar(&a.backendTimeout, "backend-timeout", "", "Timeout of one backend call (default: 10s)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error; default: warn)")
	flags.StringVar(&a.envFile, "env-file", ".env", "Path to .env file")

	root.AddCommand(
		newBooksCmd(a),
		newBookCmd(a),
		newAddBookCmd(a),
		newSignupCmd(a),
		newLoanCmd(a),
	)
	return root
}

// configArgs translates the persistent flags into config.Load arguments.
func (a *app) configArgs() []string {
	args := []string{"-env-file", a.envFile}
	if a.backendURL != "" {
		args = append(args, "-backend-url", a.backendURL)
	}
	if a.backendTimeout != "" {
		args = append(args, "-backend-timeout", a.backendTimeout)
	}
	level := a.logLevel
	if level == "" {
		level = "warn"
	}
	return append(args, "-log-level", level)
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configArgs())
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Writer:      a.errOut,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		RPS:     cfg.Backend.RPS,
		Burst:   cfg.Backend.Burst,
	}, log.Component("apiclient"))
	if err != nil {
		return err
	}

	v := validation.New()
	notifier := notify.NewWriterNotifier(a.out)

	a.client = client
	a.catalog = service.NewCatalogService(client, log.Component("catalog"))
	a.books = service.NewBookService(client, v, notifier, log.Component("books"))
	a.loans = service.NewLoanService(client, v, notifier, log.Component("loans"))
	a.readers = service.NewReaderService(client, v, notifier, log.Component("readers"))
	return nil
}
