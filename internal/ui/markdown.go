package ui

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

const markdownWrap = 90

// MarkdownWriter collects a Markdown document and renders it for the
// terminal on Flush. When raw is set, or out is not a terminal, writes go
// straight through and Flush does nothing.
type MarkdownWriter struct {
	out   io.Writer
	buf   bytes.Buffer
	raw   bool
	isTTY bool
}

// NewMarkdownWriter creates a MarkdownWriter targeting out.
func NewMarkdownWriter(out io.Writer, raw bool) *MarkdownWriter {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &MarkdownWriter{out: out, raw: raw, isTTY: tty}
}

func (m *MarkdownWriter) passthrough() bool {
	return m.raw || !m.isTTY
}

// Write satisfies io.Writer.
func (m *MarkdownWriter) Write(p []byte) (int, error) {
	if m.passthrough() {
		return m.out.Write(p)
	}
	return m.buf.Write(p)
}

// Flush renders whatever was buffered. If glamour fails the document is
// written unrendered.
func (m *MarkdownWriter) Flush() error {
	if m.passthrough() || m.buf.Len() == 0 {
		return nil
	}
	rendered, err := render(m.buf.String())
	if err != nil {
		fmt.Fprintln(os.Stderr, Muted.Render("  (não foi possível formatar o markdown, exibindo texto puro)"))
		_, werr := m.out.Write(m.buf.Bytes())
		return werr
	}
	_, err = io.WriteString(m.out, rendered)
	return err
}

func render(md string) (string, error) {
	style := glamour.WithAutoStyle()
	if colorDisabled {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWrap))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
