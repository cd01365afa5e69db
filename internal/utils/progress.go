package utils

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// DescVerifying is the progress bar description used by manifest verification
const DescVerifying = "Verifying"

// NewProgressBar creates a consistently styled progress bar.
//
// A negative total switches to spinner mode. A nil output writes to stderr,
// which is the progressbar default.
//
// Example:
//
//	bar := utils.NewProgressBar(len(entries), utils.DescVerifying, nil)
//	defer bar.Finish()
func NewProgressBar(total int, description string, output io.Writer) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}

	if output != nil {
		opts = append(opts, progressbar.OptionSetWriter(output))
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
