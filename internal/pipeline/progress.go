package pipeline

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Progress tracks a labelled pass over many symbols. On a terminal it keeps
// a single updating line; elsewhere every step is a plain log line.
type Progress struct {
	label string
	total int

	mu  sync.Mutex
	n   int
	tty bool
}

// NewProgress creates a progress tracker for a pass of the given size.
func NewProgress(label string, total int) *Progress {
	return &Progress{
		label: label,
		total: total,
		tty:   isatty.IsTerminal(os.Stderr.Fd()),
	}
}

// Step advances the counter, naming the symbol being worked on.
func (p *Progress) Step(symbol string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	if p.tty {
		fmt.Fprintf(os.Stderr, "\r\033[K%s: %d/%d %s", p.label, p.n, p.total, symbol)
		return
	}
	log.Printf("[INFO] %s: %d/%d %s", p.label, p.n, p.total, symbol)
}

// Log writes a message without corrupting an in-flight progress line.
func (p *Progress) Log(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tty {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
	log.Printf(format, args...)
}

// Done finishes the progress line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tty && p.n > 0 {
		fmt.Fprintln(os.Stderr)
	}
}
