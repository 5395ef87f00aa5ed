package pipeline

import (
	"fmt"
	"io"
	"sync"
)

// Notifier receives user-facing status lines in pipeline order.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// WriterNotifier prints each message on its own line.
func WriterNotifier(w io.Writer) Notifier {
	return NotifierFunc(func(msg string) { fmt.Fprintln(w, msg) })
}

// Recorder keeps messages in memory; handy for tests and embedding hosts.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *Recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

type discard struct{}

func (discard) Notify(string) {}
