// Package admin implements feedbackctl, the account maintenance tool. It is
// the only way to grant or revoke the admin flag.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/userfeedback/internal/common"
	"github.com/dmitrijs2005/userfeedback/internal/server/models"
	"github.com/dmitrijs2005/userfeedback/internal/server/services"
	"github.com/dmitrijs2005/userfeedback/internal/server/web"
)

const usage = `usage: feedbackctl <command> [args] [flags]

commands:
  create-admin           register a new user and grant admin
  promote <username>     grant admin
  demote <username>      revoke admin
  delete-user <username> delete a user and all of their feedback

flags:
  -c/-config file  JSON config file
  -d dsn           database DSN
`

var ErrUsage = errors.New("invalid usage")

type UserAdmin interface {
	Register(ctx context.Context, r services.Registration) (*models.User, error)
	SetAdmin(ctx context.Context, username string, isAdmin bool) error
	Delete(ctx context.Context, username string) error
}

type CLI struct {
	users  UserAdmin
	reader *bufio.Reader
	out    io.Writer
}

func New(users UserAdmin, in io.Reader, out io.Writer) *CLI {
	return &CLI{users: users, reader: bufio.NewReader(in), out: out}
}

// Run executes the command in args[0] with the remaining args.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
		return nil
	case "create-admin":
		return c.createAdmin(ctx)
	case "promote":
		return c.withUsername(rest, func(u string) error { return c.setAdmin(ctx, u, true) })
	case "demote":
		return c.withUsername(rest, func(u string) error { return c.setAdmin(ctx, u, false) })
	case "delete-user":
		return c.withUsername(rest, func(u string) error { return c.deleteUser(ctx, u) })
	default:
		fmt.Fprintf(c.out, "unknown command: %s\n%s", cmd, usage)
		return ErrUsage
	}
}

func (c *CLI) withUsername(args []string, fn func(string) error) error {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprint(c.out, usage)
		return ErrUsage
	}
	return fn(args[0])
}

func (c *CLI) createAdmin(ctx context.Context) error {
	var r services.Registration
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Username", &r.Username},
		{"Email", &r.Email},
		{"First name", &r.FirstName},
		{"Last name", &r.LastName},
	} {
		if *f.dst, err = GetSimpleText(c.reader, f.prompt, c.out); err != nil {
			return err
		}
		if *f.dst == "" {
			return fmt.Errorf("%s must not be empty", f.prompt)
		}
	}

	if err := validateRegistration(r); err != nil {
		return err
	}

	if r.Password, err = GetPassword("Password", c.out); err != nil {
		return err
	}
	confirm, err := GetPassword("Repeat password", c.out)
	if err != nil {
		return err
	}
	if r.Password == "" || r.Password != confirm {
		return errors.New("passwords are empty or do not match")
	}

	if _, err := c.users.Register(ctx, r); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return errors.New("username and email must be unique")
		}
		return err
	}
	if err := c.users.SetAdmin(ctx, r.Username, true); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "admin %s created\n", r.Username)
	return nil
}

// validateRegistration applies the web register form rules to everything but
// the password.
func validateRegistration(r services.Registration) error {
	errs := web.Validate(&web.RegisterForm{
		Username:  r.Username,
		Password:  "-",
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	})
	for _, field := range []string{"username", "email", "first_name", "last_name"} {
		if msgs := errs[field]; len(msgs) > 0 {
			return fmt.Errorf("invalid %s: %s", field, msgs[0])
		}
	}
	return nil
}

func (c *CLI) setAdmin(ctx context.Context, username string, isAdmin bool) error {
	if err := c.users.SetAdmin(ctx, username, isAdmin); err != nil {
		return describe(username, err)
	}
	if isAdmin {
		fmt.Fprintf(c.out, "%s is now an admin\n", username)
	} else {
		fmt.Fprintf(c.out, "%s is no longer an admin\n", username)
	}
	return nil
}

func (c *CLI) deleteUser(ctx context.Context, username string) error {
	if err := c.users.Delete(ctx, username); err != nil {
		return describe(username, err)
	}
	fmt.Fprintf(c.out, "%s deleted\n", username)
	return nil
}

func describe(username string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("user %s not found", username)
	}
	return err
}

// CommandArgs returns the leading arguments before the first flag, i.e. the
// command and its operands.
func CommandArgs(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			return args[:i]
		}
	}
	return args
}
