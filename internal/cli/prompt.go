package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user questions on a terminal (or any reader/writer pair).
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // terminal file descriptor for hidden input, or -1
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

// Interactive reports whether answers come from a terminal.
func (p *Prompter) Interactive() bool {
	return p.fd >= 0
}

// Line asks question and returns the trimmed answer. When def is non-empty it
// is shown and returned for an empty answer. At end of input Line returns
// def and io.EOF.
func (p *Prompter) Line(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	line, err := p.in.ReadString('\n')
	answer := strings.TrimSpace(line)
	if err != nil && !(errors.Is(err, io.EOF) && answer != "") {
		fmt.Fprintln(p.out)
		return def, err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Password asks for a secret. Input is not echoed when reading from a terminal.
func (p *Prompter) Password(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)

	if p.fd >= 0 {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question; anything but y/yes is no.
func (p *Prompter) Confirm(question string) bool {
	answer, err := p.Line(question+" (y/N)", "")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
