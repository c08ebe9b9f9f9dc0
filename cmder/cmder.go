package cmder

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user interrupts a prompt or closes input.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the user questions on a terminal.
type Prompter interface {
	Select(label string, items []string) (string, error)
	Confirm(question string, defaultVal rune) (bool, error)
}

// Terminal is a Prompter backed by promptui. Nil streams fall back to the
// process stdin and stdout.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Select(label string, items []string) (string, error) {
	prompt := promptui.Select{
		Label:  label,
		Items:  items,
		Size:   len(items),
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return result, nil
}

func (t *Terminal) Confirm(question string, defaultVal rune) (bool, error) {
	label, err := confirmLabel(question, defaultVal)
	if err != nil {
		panic(err)
	}

	q := promptui.Prompt{
		Label:    label,
		Validate: validateYesNo,
		Stdin:    t.Stdin,
		Stdout:   t.Stdout,
	}

	res, err := q.Run()
	if err != nil {
		return false, promptError(err)
	}
	return answer(res, defaultVal), nil
}

func confirmLabel(question string, defaultVal rune) (string, error) {
	switch defaultVal {
	case 'y', 'Y':
		return fmt.Sprintf("%s (%s/%s)", question, "Y", "n"), nil
	case 'n', 'N':
		return fmt.Sprintf("%s (%s/%s)", question, "y", "N"), nil
	}
	return "", errors.New("defaultVal argument must be either of y, Y, n, N")
}

func validateYesNo(s string) error {
	if s != "" && s != "y" && s != "Y" && s != "n" && s != "N" {
		return errors.New("Input must be either of y, Y, n, N")
	}
	return nil
}

func answer(res string, defaultVal rune) bool {
	if res == "" {
		res = string(defaultVal)
	}
	return res == "y" || res == "Y"
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrAborted
	}
	return err
}
