package cli

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar creates the standard progress bar used for batch
// operations like imports and sync-queue drains.
func NewProgressBar(total int, description string, writer io.Writer) *progressbar.ProgressBar {
	if writer == nil {
		writer = os.Stderr
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
