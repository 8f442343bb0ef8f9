package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
)

// Prompter asks the user for a value. The REPL provides one that shares
// its input buffer.
type Prompter interface {
	Prompt(label string) (string, error)
}

type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

func (p *linePrompter) Prompt(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// valueOrPrompt returns the flag value, asking for it when unset. An
// empty answer is returned as is; callers decide whether it is required.
func (rt *Runtime) valueOrPrompt(c *cli.Context, flag, label string) string {
	if v := strings.TrimSpace(c.String(flag)); v != "" {
		return v
	}
	if rt.Prompt == nil {
		return ""
	}
	v, err := rt.Prompt.Prompt(label)
	if err != nil {
		return ""
	}
	return v
}

// required returns an error naming the field when value is empty.
func required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
