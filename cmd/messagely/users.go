// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/holomush/messagely/internal/api"
	"github.com/holomush/messagely/internal/auth"
	"github.com/holomush/messagely/internal/config"
	"github.com/holomush/messagely/internal/store"
)

// UserAdmin is the subset of auth.Service the users commands need.
type UserAdmin interface {
	Signup(ctx context.Context, in auth.RegisterInput) (*auth.User, string, error)
	ListUsers(ctx context.Context) ([]auth.UserSummary, error)
}

// UsersDeps contains injectable dependencies for the users commands.
type UsersDeps struct {
	// AdminFactory builds the user service for cfg. The returned function
	// releases its resources.
	// Default: connects to the configured database.
	AdminFactory func(ctx context.Context, cfg *config.Config) (UserAdmin, func(), error)

	// IsTerminal reports whether fd is a terminal.
	// Default: term.IsTerminal
	IsTerminal func(fd int) bool

	// ReadPassword reads a line from fd without echo.
	// Default: term.ReadPassword
	ReadPassword func(fd int) ([]byte, error)
}

func (d *UsersDeps) withDefaults() *UsersDeps {
	out := UsersDeps{}
	if d != nil {
		out = *d
	}
	if out.AdminFactory == nil {
		out.AdminFactory = databaseAdmin
	}
	if out.IsTerminal == nil {
		out.IsTerminal = term.IsTerminal
	}
	if out.ReadPassword == nil {
		out.ReadPassword = term.ReadPassword
	}
	return &out
}

func databaseAdmin(ctx context.Context, cfg *config.Config) (UserAdmin, func(), error) {
	logger := slog.Default()
	db, err := connectDatabase(ctx, store.PoolConfig{
		URL:            cfg.Database.URL,
		MaxConns:       2,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		Logger:         logger,
	})
	if err != nil {
		return nil, nil, err
	}
	authSvc, _, err := buildServices(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return authSvc, db.Close, nil
}

// NewUsersCmd creates the users subcommand.
func NewUsersCmd() *cobra.Command {
	return newUsersCmd(nil)
}

func newUsersCmd(deps *UsersDeps) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage registered users",
	}
	cmd.PersistentFlags().String("database-url", config.DefaultDatabaseURL, "PostgreSQL connection URL (env: "+config.EnvDatabaseURL+")")

	cmd.AddCommand(newUsersCreateCmd(deps))
	cmd.AddCommand(newUsersListCmd(deps))
	return cmd
}

type createUserOptions struct {
	in         auth.RegisterInput
	printToken bool
}

func newUsersCreateCmd(deps *UsersDeps) *cobra.Command {
	opts := &createUserOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user from the terminal",
		Long: `Register a user. The password is prompted for without echo when stdin is
a terminal; otherwise the first line of stdin is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUsersCreate(cmd, deps, opts)
		},
	}

	cmd.Flags().StringVar(&opts.in.Username, "username", "", "username (required)")
	cmd.Flags().StringVar(&opts.in.FirstName, "first-name", "", "first name (required)")
	cmd.Flags().StringVar(&opts.in.LastName, "last-name", "", "last name (required)")
	cmd.Flags().StringVar(&opts.in.Phone, "phone", "", "phone number (required)")
	cmd.Flags().BoolVar(&opts.printToken, "print-token", false, "print a token for the new user")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func runUsersCreate(cmd *cobra.Command, deps *UsersDeps, opts *createUserOptions) error {
	cfg, err := loadFullConfig(cmd)
	if err != nil {
		return err
	}

	in := opts.in
	if in.Phone != "" {
		phone, perr := api.NormalizePhone(in.Phone, cfg.Auth.PhoneRegion)
		if perr != nil {
			return oops.Code("USERS_INVALID_PHONE").With("phone", in.Phone).Wrapf(auth.ErrInvalidInput, "phone %s", perr)
		}
		in.Phone = phone
	}

	in.Password, err = readPassword(cmd, deps)
	if err != nil {
		return err
	}

	admin, release, err := deps.AdminFactory(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer release()

	user, token, err := admin.Signup(cmd.Context(), in)
	if err != nil {
		return err
	}

	cmd.Printf("Created user %s (%s %s)\n", user.Username, user.FirstName, user.LastName)
	if opts.printToken {
		cmd.Println(token)
	}
	return nil
}

// readPassword prompts on a terminal, or reads one line from a pipe.
func readPassword(cmd *cobra.Command, deps *UsersDeps) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && deps.IsTerminal(int(f.Fd())) {
		cmd.Print("Password: ")
		first, err := deps.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", oops.Code("USERS_PASSWORD_READ_FAILED").Wrap(err)
		}
		cmd.Print("Confirm password: ")
		second, err := deps.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", oops.Code("USERS_PASSWORD_READ_FAILED").Wrap(err)
		}
		if string(first) != string(second) {
			return "", oops.Code("USERS_PASSWORD_MISMATCH").Wrapf(auth.ErrInvalidInput, "passwords do not match")
		}
		return string(first), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", oops.Code("USERS_PASSWORD_READ_FAILED").Wrap(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newUsersListCmd(deps *UsersDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered users ordered by last name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadFullConfig(cmd)
			if err != nil {
				return err
			}
			admin, release, err := deps.AdminFactory(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer release()

			users, err := admin.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Print(formatUsersTable(users))
			return nil
		},
	}
}

func formatUsersTable(users []auth.UserSummary) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "USERNAME\tFIRST NAME\tLAST NAME")
	for _, u := range users {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.FirstName, u.LastName)
	}
	_ = w.Flush()
	return b.String()
}

func loadFullConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, oops.With("operation", "load configuration").Wrap(err)
	}
	return cfg, nil
}
