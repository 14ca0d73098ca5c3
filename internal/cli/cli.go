// Package cli maps classpick sub-commands onto screens. Each invocation mounts one screen, performs
// at most one action on it and renders the result.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"classpick/internal/config"
	"classpick/internal/event"
	"classpick/internal/gateway"
	"classpick/internal/screen"
	"classpick/internal/session"
	"classpick/internal/storage"
	"classpick/internal/view"
	"classpick/pkg/apierror"
)

// ErrUsage reports a bad command line; the usage text has already been printed.
var ErrUsage = errors.New("usage error")

type CLI struct {
	api      screen.API
	session  *session.Session
	bus      *event.InMemoryBus
	events   <-chan event.Event
	renderer *view.Renderer
	stdin    *bufio.Reader
	stdout   io.Writer
}

// New opens the on-device session and builds the API client. A stored session that is unreadable or
// expired is dropped with a notice; only a storage failure is fatal.
func New(cfg *config.Config, stdin io.Reader, stdout io.Writer) (*CLI, error) {
	backend, err := storage.New(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open secure storage: %w", err)
	}

	sess := session.New(session.NewStore(backend))
	renderer := view.New(stdout, cfg.Locale, view.WithColor(!cfg.NoColor))

	switch err := sess.Init(); apierror.KindOf(err) {
	case "":
	case apierror.KindMalformedToken, apierror.KindSessionExpired:
		renderer.Notification(screen.Notification{Level: screen.LevelInfo, Message: apierror.Display(err)})
	default:
		return nil, err
	}

	client := gateway.New(cfg.APIBaseURL,
		gateway.WithHTTPClient(gateway.NewHTTPClient(cfg.RequestTimeout, cfg.RateLimitRPM)),
		gateway.WithApplyPath(cfg.ApplyPath),
	)

	return NewWithDeps(client, sess, renderer, stdin, stdout), nil
}

// NewWithDeps wires a CLI from ready-made parts.
func NewWithDeps(api screen.API, sess *session.Session, renderer *view.Renderer, stdin io.Reader, stdout io.Writer) *CLI {
	bus := event.NewBus()
	events, _ := bus.Subscribe()

	return &CLI{
		api:      api,
		session:  sess,
		bus:      bus,
		events:   events,
		renderer: renderer,
		stdin:    bufio.NewReader(stdin),
		stdout:   stdout,
	}
}

// Run executes one command. Failures have already been shown to the user when it returns an error.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.usage()
		return ErrUsage
	}

	name, rest := args[0], args[1:]
	slog.Debug("command", "name", name)

	switch name {
	case "login":
		return c.login(ctx, rest)
	case "signup":
		return c.signup(ctx, rest)
	case "logout":
		return c.logout()
	case "whoami":
		claims, ok := c.session.Claims()
		c.renderer.Whoami(claims, ok && c.session.Authenticated())
		return nil
	case "classes":
		for _, class := range screen.NewSignup(c.api, c.session, c.bus).Classes() {
			fmt.Fprintln(c.stdout, class)
		}
		return nil
	case "home":
		return c.home(ctx, false)
	case "apply":
		return c.home(ctx, true)
	case "feed":
		return c.feed(ctx, "")
	case "vote":
		if len(rest) != 1 {
			fmt.Fprintln(c.stdout, "usage: classpick vote <username>")
			return ErrUsage
		}
		return c.feed(ctx, rest[0])
	case "profile":
		return c.profile(ctx)
	case "post":
		return c.post(ctx, rest)
	case "results":
		return c.results(ctx)
	case "help", "-h", "--help":
		c.usage()
		return nil
	default:
		fmt.Fprintf(c.stdout, "unknown command %q\n", name)
		c.usage()
		return ErrUsage
	}
}

// flush renders the notifications and navigations published so far. Screens publish synchronously,
// so everything an action produced is buffered by the time it returns.
func (c *CLI) flush() {
	for {
		select {
		case e := <-c.events:
			c.renderer.Event(e)
		default:
			return
		}
	}
}

func (c *CLI) login(ctx context.Context, args []string) error {
	fs := c.flagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (default: $CLASSPICK_PASSWORD, else prompted)")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	if *email == "" {
		*email = c.prompt("Email: ")
	}
	if *password == "" {
		*password = c.secret()
	}

	err := screen.NewLogin(c.api, c.session, c.bus).Submit(ctx, screen.LoginForm{Email: *email, Password: *password})
	c.flush()
	return err
}

func (c *CLI) signup(ctx context.Context, args []string) error {
	s := screen.NewSignup(c.api, c.session, c.bus)

	fs := c.flagSet("signup")
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (default: $CLASSPICK_PASSWORD, else prompted)")
	class := fs.String("class", "", "class, one of: "+strings.Join(s.Classes(), ", "))
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	if *username == "" {
		*username = c.prompt("Username: ")
	}
	if *email == "" {
		*email = c.prompt("Email: ")
	}
	if *password == "" {
		*password = c.secret()
	}
	if *class == "" {
		*class = c.prompt("Class (" + strings.Join(s.Classes(), ", ") + "): ")
	}

	err := s.Submit(ctx, screen.SignupForm{Username: *username, Email: *email, Password: *password, Class: *class})
	c.flush()
	return err
}

func (c *CLI) logout() error {
	err := screen.NewProfile(c.api, c.session, c.bus).Logout()
	c.flush()
	return err
}

func (c *CLI) home(ctx context.Context, apply bool) error {
	s := screen.NewHome(c.api, c.session, c.bus)
	defer s.Unmount()

	err := s.Mount(ctx)
	if err == nil && apply {
		err = s.Apply(ctx)
	}
	c.flush()
	if err != nil {
		return err
	}

	c.renderer.Home(s.User(), s.IsCandidate())
	return nil
}

func (c *CLI) feed(ctx context.Context, voteFor string) error {
	s := screen.NewFeed(c.api, c.session, c.bus)
	defer s.Unmount()

	err := s.Mount(ctx)
	if err == nil && voteFor != "" {
		err = s.Vote(ctx, voteFor)
		c.flush()
		return err
	}
	c.flush()
	if err != nil {
		return err
	}

	c.renderer.Feed(s.Campaigns(), s.Voted())
	return nil
}

func (c *CLI) profile(ctx context.Context) error {
	s := screen.NewProfile(c.api, c.session, c.bus)
	defer s.Unmount()

	err := s.Mount(ctx)
	c.flush()
	if err != nil {
		return err
	}

	c.renderer.Profile(s.Claims(), s.Campaign())
	return nil
}

func (c *CLI) post(ctx context.Context, args []string) error {
	fs := c.flagSet("post")
	title := fs.String("title", "", "campaign title (default: first words of the description)")
	description := fs.String("description", "", "campaign text (default: read from stdin)")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	if *description == "" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return fmt.Errorf("read description: %w", err)
		}
		*description = string(data)
	}

	s := screen.NewProfile(c.api, c.session, c.bus)
	defer s.Unmount()

	err := s.Mount(ctx)
	if err == nil {
		err = s.Post(ctx, *title, *description)
	}
	c.flush()
	if err != nil {
		return err
	}

	c.renderer.Profile(s.Claims(), s.Campaign())
	return nil
}

func (c *CLI) results(ctx context.Context) error {
	s := screen.NewResults(c.api, c.session, c.bus)
	defer s.Unmount()

	err := s.Mount(ctx)
	c.flush()
	if err != nil {
		return err
	}

	c.renderer.Results(s.Summary())
	return nil
}

func (c *CLI) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("classpick "+name, flag.ContinueOnError)
	fs.SetOutput(c.stdout)
	return fs
}

func (c *CLI) prompt(label string) string {
	fmt.Fprint(c.stdout, label)
	line, _ := c.stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

func (c *CLI) secret() string {
	if password := os.Getenv("CLASSPICK_PASSWORD"); password != "" {
		return password
	}

	return c.prompt("Password: ")
}

func (c *CLI) usage() {
	fmt.Fprint(c.stdout, `usage: classpick <command> [flags]

  signup    create an account      (-username -email -password -class)
  login     sign in                (-email -password)
  logout    sign out
  whoami    show the signed-in account
  classes   list the classes offered at sign-up
  home      show your status
  apply     run for class delegate
  feed      list campaigns
  vote      vote for a candidate   (vote <username>)
  profile   show your campaign
  post      publish your campaign  (-title -description, or description on stdin)
  results   show the vote tally
`)
}
