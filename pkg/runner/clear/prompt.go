package clear

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// Prompt asks on a terminal before deleting.
type Prompt struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Confirm implements app.Confirmer.
func (p Prompt) Confirm(_ context.Context, count int) (bool, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} ",
		Valid:   "{{ . | yellow }} ",
		Invalid: "{{ . | red }} ",
		Success: "{{ . | bold }} ",
	}
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Delete all %d tasks", count),
		Templates: templates,
		IsConfirm: true,
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
