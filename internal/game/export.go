package game

import (
	"errors"
	"time"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/gentle-checkin/internal/whisper"
)

// exportDialog asks for a destination and renders one cycle into it.
// Cancelling the dialog is not an error.
func (g *Game) exportDialog() error {
	filename, err := zenity.SelectFileSave(
		zenity.Title("Export whisper cycle"),
		zenity.Filename("gentle-checkin.wav"),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "WAV audio",
			Patterns: []string{"*.wav"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return whisper.ExportFile(filename, time.Now().UnixNano(), g.log)
}
