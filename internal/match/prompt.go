package match

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/fyxsky/songfetch/internal/model"
)

// TerminalSelection is the interactive SelectionPort used by the CLI in
// manual match mode. It renders the offered candidates as a select prompt;
// Ctrl-C surfaces as ErrSelectionCancelled.
type TerminalSelection struct{}

// Choose implements SelectionPort.
func (TerminalSelection) Choose(ctx context.Context, title, artist string, candidates []model.Candidate) (string, error) {
	if len(candidates) == 0 {
		return "", ErrSelectionCancelled
	}

	options := make([]string, len(candidates))
	for i, c := range candidates {
		options[i] = fmt.Sprintf("%d. %s - %s [%s]", i+1, c.Title, c.ArtistLine(), c.Source)
	}

	prompt := &survey.Select{
		Message:  fmt.Sprintf("请选择 %s - %s 的匹配:", title, artist),
		Options:  options,
		PageSize: manualOfferLimit,
	}

	var idx int
	if err := survey.AskOne(prompt, &idx); err != nil {
		if err == terminal.InterruptErr {
			return "", ErrSelectionCancelled
		}
		return "", fmt.Errorf("match: selection prompt: %w", err)
	}
	if idx < 0 || idx >= len(candidates) {
		return "", ErrSelectionCancelled
	}
	return candidates[idx].ID, nil
}
