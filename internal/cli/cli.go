package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"furniture/admin/internal/service"
	"furniture/admin/internal/session"

	"github.com/spf13/pflag"
)

// AuditProvider opens the audit worker on demand, so that only the audit
// command needs a database
type AuditProvider func(ctx context.Context) (*service.AuditWorker, error)

type App struct {
	svc     *service.Service
	audit   AuditProvider
	workers int
	creds   session.Credentials

	in  *bufio.Reader
	out io.Writer
}

type command struct {
	usage string
	auth  bool
	run   func(ctx context.Context, args []string) error
}

func New(svc *service.Service, audit AuditProvider, workers int, defaults session.Credentials, in io.Reader, out io.Writer) *App {
	return &App{
		svc:     svc,
		audit:   audit,
		workers: workers,
		creds:   defaults,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"login":         {usage: "login [--phone P] [--password P]", run: a.login},
		"logout":        {usage: "logout", run: a.logout},
		"whoami":        {usage: "whoami", run: a.whoami},
		"dashboard":     {usage: "dashboard", auth: true, run: a.dashboard},
		"categories":    {usage: "categories [list|create|update|delete]", auth: true, run: a.categories},
		"subcategories": {usage: "subcategories [list|create|update|delete]", auth: true, run: a.subcategories},
		"products":      {usage: "products [list|show|status|delete|create|update]", auth: true, run: a.products},
		"users":         {usage: "users [list|create|update|delete]", auth: true, run: a.users},
		"tree":          {usage: "tree [--sort]", auth: true, run: a.tree},
		"orphans":       {usage: "orphans", auth: true, run: a.orphans},
		"audit":         {usage: "audit [run|recent]", run: a.auditCmd},
	}
}

// Run executes one command line, without the program name
func (a *App) Run(ctx context.Context, args []string) error {
	commands := a.commands()
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage(commands)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		a.usage(commands)
		return fmt.Errorf("unknown command %q", args[0])
	}

	if cmd.auth {
		if _, err := a.svc.Restore(ctx); err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return fmt.Errorf("%w: run the login command first", err)
			}
			return err
		}
	}

	return cmd.run(ctx, args[1:])
}

func (a *App) usage(commands map[string]command) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "Usage: furniture-admin [--config FILE] <command> [flags]")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Commands:")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %s\n", commands[name].usage)
	}
}

// subcommand splits "list" style actions off the arguments. No action, or a
// flag in first position, means list.
func subcommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "list", args
	}
	return args[0], args[1:]
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// prompt asks for a value on the input when the flag was not given
func (a *App) prompt(label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; anything but y/yes is no
func (a *App) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", question)
	line, _ := a.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func requireArg(fs *pflag.FlagSet, what string) (string, error) {
	if fs.NArg() < 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		return "", fmt.Errorf("%s is required", what)
	}
	return strings.TrimSpace(fs.Arg(0)), nil
}
