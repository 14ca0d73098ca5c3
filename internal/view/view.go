// Package view renders screens and notifications to a terminal.
package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"classpick/internal/event"
	"classpick/internal/model"
	"classpick/internal/screen"
	"classpick/internal/tally"
)

const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	red     = "\033[31m"
	green   = "\033[32m"
	cyan    = "\033[36m"
	barSize = 30
)

type Renderer struct {
	mu      sync.Mutex
	w       io.Writer
	printer *message.Printer
	now     func() time.Time
	color   bool
}

type Option func(*Renderer)

func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// WithClock replaces time.Now for relative dates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// New returns a renderer writing to w. Numbers follow locale; an unparsable locale falls back to French.
func New(w io.Writer, locale string, opts ...Option) *Renderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.French
	}

	r := &Renderer{
		w:       w,
		printer: message.NewPrinter(tag),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Follow prints the events a UI cares about until events is closed.
func (r *Renderer) Follow(events <-chan event.Event) {
	for e := range events {
		r.Event(e)
	}
}

func (r *Renderer) Event(e event.Event) {
	switch e.Type {
	case event.TypeNotification:
		if n, ok := e.Payload.(screen.Notification); ok {
			r.Notification(n)
		}
	case event.TypeNavigation:
		if nav, ok := e.Payload.(screen.Navigation); ok {
			r.printf("%s\n", r.paint(dim, "→ "+string(nav.To)))
		}
	}
}

func (r *Renderer) Notification(n screen.Notification) {
	switch n.Level {
	case screen.LevelError:
		r.printf("%s %s\n", r.paint(red, "✗"), n.Message)
	case screen.LevelSuccess:
		r.printf("%s %s\n", r.paint(green, "✓"), n.Message)
	default:
		r.printf("%s %s\n", r.paint(cyan, "•"), n.Message)
	}
}

func (r *Renderer) Home(user *model.User, isCandidate bool) {
	var b strings.Builder

	name := "guest"
	if user != nil && user.Username != "" {
		name = user.Username
	}
	fmt.Fprintf(&b, "%s\n", r.paint(bold, "Welcome, "+name))
	if user != nil && user.Class != "" {
		fmt.Fprintf(&b, "Class: %s\n", user.Class)
	}

	if isCandidate {
		fmt.Fprintf(&b, "Status: %s\n", r.paint(green, "candidate"))
		fmt.Fprintf(&b, "  You can publish campaign posts (classpick post).\n")
	} else {
		fmt.Fprintf(&b, "Status: voter\n")
		fmt.Fprintf(&b, "  Run for delegate with: classpick apply\n")
	}

	fmt.Fprintf(&b, "\n  feed      see the campaigns\n  results   see the votes\n")
	if isCandidate {
		fmt.Fprintf(&b, "  profile   manage my campaign\n")
	}

	r.write(b.String())
}

func (r *Renderer) Feed(campaigns []model.Campaign, voted bool) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", r.paint(bold, "Campaigns"))
	if voted {
		fmt.Fprintf(&b, "%s\n", r.paint(dim, "You have already voted."))
	}
	if len(campaigns) == 0 {
		fmt.Fprintf(&b, "No campaigns yet.\n")
	}

	for _, c := range campaigns {
		b.WriteString("\n")
		r.writeCampaign(&b, c)
	}

	r.write(b.String())
}

func (r *Renderer) Profile(claims model.TokenClaims, campaign *model.Campaign) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", r.paint(bold, "["+Initials(claims.Username)+"]"), claims.Username)
	if claims.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", claims.Email)
	}
	if claims.Class != "" {
		fmt.Fprintf(&b, "Class: %s\n", claims.Class)
	}
	if !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(&b, "Session expires %s\n", r.relative(claims.ExpiresAt))
	}

	b.WriteString("\n")
	switch {
	case campaign != nil:
		r.writeCampaign(&b, *campaign)
	case claims.Candidate:
		fmt.Fprintf(&b, "No campaign published yet. Publish one with: classpick post\n")
	default:
		fmt.Fprintf(&b, "You are not a candidate.\n")
	}

	r.write(b.String())
}

func (r *Renderer) Results(summary tally.Summary) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", r.paint(bold, "Results"))
	leader, ok := summary.Leader()
	if !ok {
		fmt.Fprintf(&b, "No candidates yet.\n")
		r.write(b.String())
		return
	}

	fmt.Fprintf(&b, "%s\n", r.printer.Sprintf("%d votes", summary.Total))
	if summary.Total > 0 {
		fmt.Fprintf(&b, "%s %s, %s (%s)\n",
			r.paint(bold, "Leader:"),
			leader.Entry.Candidate.Username,
			r.printer.Sprintf("%d votes", leader.Entry.Count),
			r.Percent(leader.Share),
		)
	}
	b.WriteString("\n")

	width := 0
	for _, row := range summary.Rows {
		width = max(width, utf8.RuneCountInString(row.Entry.Candidate.Username))
	}

	for _, row := range summary.Rows {
		name := row.Entry.Candidate.Username
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(name))
		fmt.Fprintf(&b, "%s%s  %s %s  %s\n",
			name, pad,
			r.bar(row),
			r.Percent(row.Share),
			r.printer.Sprintf("%d", row.Entry.Count),
		)
	}

	r.write(b.String())
}

func (r *Renderer) Whoami(claims model.TokenClaims, authenticated bool) {
	if !authenticated {
		r.printf("Not signed in.\n")
		return
	}

	candidate := "no"
	if claims.Candidate {
		candidate = "yes"
	}
	voted := "no"
	if claims.Voted {
		voted = "yes"
	}

	r.printf("%s (%s), class %s, candidate: %s, voted: %s\n",
		claims.Username, claims.Email, claims.Class, candidate, voted)
}

// Percent formats a 0..1 share with one decimal in the renderer's locale.
func (r *Renderer) Percent(share float64) string {
	return r.printer.Sprintf("%.1f%%", share*100)
}

func (r *Renderer) writeCampaign(b *strings.Builder, c model.Campaign) {
	author := c.Candidate.Username
	fmt.Fprintf(b, "%s  %s", r.paint(bold, "["+Initials(author)+"]"), author)
	if c.Candidate.Class != "" {
		fmt.Fprintf(b, " · %s", c.Candidate.Class)
	}
	if !c.CreatedAt.IsZero() {
		fmt.Fprintf(b, " · %s", r.relative(c.CreatedAt))
	}
	b.WriteString("\n")

	if c.Title != "" {
		fmt.Fprintf(b, "%s\n", r.paint(bold, c.Title))
	}
	if c.Description != "" {
		fmt.Fprintf(b, "%s\n", c.Description)
	}
	if author != "" {
		fmt.Fprintf(b, "%s\n", r.paint(dim, "vote: classpick vote "+author))
	}
}

func (r *Renderer) relative(t time.Time) string {
	return humanize.RelTime(t, r.now(), "ago", "from now")
}

func (r *Renderer) bar(row tally.Row) string {
	filled := int(row.Share*barSize + 0.5)
	text := strings.Repeat("█", filled) + strings.Repeat("░", barSize-filled)
	if !r.color {
		return text
	}

	return hexColor(row.Color) + text + reset
}

func (r *Renderer) paint(color string, text string) string {
	if !r.color {
		return text
	}

	return color + text + reset
}

func (r *Renderer) printf(format string, args ...any) {
	r.write(fmt.Sprintf(format, args...))
}

func (r *Renderer) write(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = io.WriteString(r.w, s)
}

// Initials takes the first letter of each word of name, joined with dots: "Jean Dupont" is "J.D".
func Initials(name string) string {
	var parts []string
	for _, word := range strings.Fields(name) {
		first, _ := utf8.DecodeRuneInString(word)
		parts = append(parts, string(unicode.ToUpper(first)))
	}

	if len(parts) == 0 {
		return "?"
	}

	return strings.Join(parts, ".")
}

// hexColor turns "#RRGGBB" into a 24-bit foreground escape; anything else is left uncoloured.
func hexColor(hex string) string {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return ""
	}

	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
}
