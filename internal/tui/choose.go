package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/upwell-app/upwell/internal/ui"
)

// Option is one choice in a Chooser.
type Option struct {
	Label string
	Hint  string // shown muted after the label
}

// Chooser is a small type-to-filter list. Typing narrows the options by
// subsequence match; enter picks the highlighted option, or the typed text
// itself when free text is allowed and nothing matches.
type Chooser struct {
	title    string
	options  []Option
	freeText bool

	query   string
	matches []Option
	cursor  int

	chosen   string
	canceled bool
}

// NewChooser creates a Chooser over options.
func NewChooser(title string, options []Option, freeText bool) *Chooser {
	c := &Chooser{title: title, options: options, freeText: freeText}
	c.filter()
	return c
}

// Choose shows a Chooser and returns the picked label. ok is false when the
// user canceled.
func Choose(title string, options []Option, freeText bool) (choice string, ok bool, err error) {
	res, err := tea.NewProgram(NewChooser(title, options, freeText)).Run()
	if err != nil {
		return "", false, fmt.Errorf("chooser: %w", err)
	}
	c := res.(*Chooser)
	if c.canceled || c.chosen == "" {
		return "", false, nil
	}
	return c.chosen, true, nil
}

// IsTTY reports whether stdin is a terminal.
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func (c *Chooser) Init() tea.Cmd { return nil }

func (c *Chooser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch k.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		c.canceled = true
		return c, tea.Quit
	case tea.KeyEnter:
		switch {
		case len(c.matches) > 0:
			c.chosen = c.matches[c.cursor].Label
		case c.freeText:
			c.chosen = strings.TrimSpace(c.query)
		}
		return c, tea.Quit
	case tea.KeyUp:
		if c.cursor > 0 {
			c.cursor--
		}
	case tea.KeyDown:
		if c.cursor < len(c.matches)-1 {
			c.cursor++
		}
	case tea.KeyBackspace:
		if r := []rune(c.query); len(r) > 0 {
			c.query = string(r[:len(r)-1])
			c.filter()
		}
	case tea.KeySpace:
		c.query += " "
		c.filter()
	case tea.KeyRunes:
		c.query += string(k.Runes)
		c.filter()
	}
	return c, nil
}

func (c *Chooser) View() string {
	var b strings.Builder
	if c.title != "" {
		b.WriteString("  " + ui.Title.Render(c.title) + "\n\n")
	}
	b.WriteString("  " + ui.Accent.Render("> ") + c.query + ui.Accent.Render("▎") + "\n\n")

	if len(c.matches) == 0 {
		msg := "nenhuma opção"
		if c.freeText && strings.TrimSpace(c.query) != "" {
			msg = fmt.Sprintf("enter para usar %q", strings.TrimSpace(c.query))
		}
		b.WriteString("  " + ui.Muted.Render(msg) + "\n")
	}
	for i, o := range c.matches {
		pointer, label := "  ", o.Label
		if i == c.cursor {
			pointer, label = ui.Accent.Render(ui.IconArrow+" "), ui.Accent.Render(o.Label)
		}
		line := "  " + pointer + label
		if o.Hint != "" {
			line += "  " + ui.Muted.Render(o.Hint)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + ui.Muted.Render("  ↑↓ navegar · enter escolher · esc cancelar") + "\n")
	return b.String()
}

func (c *Chooser) filter() {
	type hit struct {
		opt   Option
		score int
	}
	var hits []hit
	for _, o := range c.options {
		if ok, score := Match(c.query, o.Label); ok {
			hits = append(hits, hit{o, score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	c.matches = c.matches[:0]
	for _, h := range hits {
		c.matches = append(c.matches, h.opt)
	}
	c.cursor = 0
}

// Match reports whether every rune of query appears in target in order,
// ignoring case, and scores the match. Runs of adjacent matches and matches
// at the start of a word score higher.
func Match(query, target string) (bool, int) {
	q := []rune(strings.ToLower(query))
	if len(q) == 0 {
		return true, 0
	}
	t := []rune(strings.ToLower(target))

	qi, score, run := 0, 0, 0
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			run = 0
			continue
		}
		qi++
		run++
		score += run
		if ti == 0 || !unicode.IsLetter(t[ti-1]) && !unicode.IsDigit(t[ti-1]) {
			score += 2
		}
	}
	return qi == len(q), score
}
