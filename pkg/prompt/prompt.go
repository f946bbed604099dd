// Package prompt asks the user for input on the terminal. Commands take a
// Prompter so they can be driven by a script in tests.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"tableflip.dev/journal/pkg/entry"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("prompt: aborted")

// Prompter asks questions.
type Prompter interface {
	Text(label, def string, validate func(string) error) (string, error)
	Password(label string) (string, error)
	Confirm(label string) (bool, error)
	Mood(label string, def entry.Sentiment) (entry.Sentiment, error)
}

// Terminal prompts on a TTY with promptui and reads passwords without echo.
type Terminal struct {
	In  io.ReadCloser
	Out io.WriteCloser
	// Fd is the descriptor passwords are read from when it is a terminal.
	Fd int
}

// Stdio prompts on the process standard streams.
func Stdio() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout, Fd: int(os.Stdin.Fd())}
}

var textTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . }}: ",
	Valid:   "{{ . | green }}: ",
	Invalid: "{{ . | red }}: ",
	Success: "{{ . | bold }}: ",
}

func (t *Terminal) Text(label, def string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: def != "",
		Templates: textTemplates,
		Validate:  validate,
		Stdin:     t.In,
		Stdout:    t.Out,
	}
	result, err := p.Run()
	if err != nil {
		return "", translate(err)
	}
	return result, nil
}

func (t *Terminal) Password(label string) (string, error) {
	if term.IsTerminal(t.Fd) {
		_, _ = fmt.Fprintf(t.Out, "%s: ", label)
		b, err := term.ReadPassword(t.Fd)
		_, _ = fmt.Fprintln(t.Out)
		if err != nil {
			return "", fmt.Errorf("prompt: read password: %w", err)
		}
		return string(b), nil
	}
	return ReadLine(t.In)
}

func (t *Terminal) Confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     t.In,
		Stdout:    t.Out,
	}
	_, err := p.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	}
	return false, translate(err)
}

func (t *Terminal) Mood(label string, def entry.Sentiment) (entry.Sentiment, error) {
	moods := entry.Sentiments()
	cursor := 0
	for i, m := range moods {
		if m == def {
			cursor = i
		}
	}
	p := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     moods,
		CursorPos: cursor,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Emoji }} {{ .Label | bold }}",
			Inactive: "   {{ .Emoji }} {{ .Label }}",
			Selected: "{{ .Emoji }} {{ .Label | bold }}",
		},
		Size:   len(moods),
		Stdin:  t.In,
		Stdout: t.Out,
	}
	i, _, err := p.Run()
	if err != nil {
		return "", translate(err)
	}
	return moods[i], nil
}

func translate(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrAborted
	}
	return err
}

// ReadLine reads one line from r without the line ending.
func ReadLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// NotBlank is a validate func for required fields.
func NotBlank(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("required")
	}
	return nil
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "NO", "No", "no":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}

// DeleteConfirmer asks before an entry is deleted.
type DeleteConfirmer struct {
	Prompter Prompter
}

func (c DeleteConfirmer) Confirm(_ context.Context, e entry.Entry) (bool, error) {
	label := "Delete this entry"
	if e.Title != "" {
		label = fmt.Sprintf("Delete %q", e.Title)
	}
	return c.Prompter.Confirm(label)
}
