package prompter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Prompter interface {
	Confirm(question string) (bool, error)
	Prompt(question, def string) (string, error)
}

type TextPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *TextPrompter {
	return &TextPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm defaults to "no", including on a closed stdin.
func (p *TextPrompter) Confirm(q string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", q); err != nil {
		return false, err
	}

	resp, err := p.readLine()
	if err != nil {
		return false, err
	}

	r := strings.ToLower(resp)
	return r == "y" || r == "yes", nil
}

// Prompt returns def when the answer is empty.
func (p *TextPrompter) Prompt(q, def string) (string, error) {
	label := q
	if def != "" {
		label = fmt.Sprintf("%s [%s]", q, def)
	}
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return "", err
	}

	resp, err := p.readLine()
	if err != nil {
		return "", err
	}
	if resp == "" {
		return def, nil
	}
	return resp, nil
}

func (p *TextPrompter) readLine() (string, error) {
	resp, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// Static answers every question without reading input, for --yes and tests.
type Static struct {
	Answer bool
}

func (s Static) Confirm(string) (bool, error) { return s.Answer, nil }

func (Static) Prompt(_, def string) (string, error) { return def, nil }
