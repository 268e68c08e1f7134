package run

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// barrierProgress shows the progress of each barrier using a progress bar.
type barrierProgress struct {
	bar *progressbar.ProgressBar
	mu  sync.Mutex
}

func (p *barrierProgress) update(finished, total int) {
	defer p.mu.Unlock()
	p.mu.Lock()
	if p.bar == nil || p.bar.GetMax() != total {
		p.bar = progressbar.NewOptions(
			total,
			progressbar.OptionSetDescription("waiting for jobs"),
			progressbar.OptionShowDescriptionAtLineEnd(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(os.Stderr, "\n")
			}),
			progressbar.OptionSetWriter(os.Stderr),
		)
	}
	p.bar.Set(finished)
	if finished >= total {
		p.bar = nil
	}
}
