package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// progress shows an elapsed-time ticker on a terminal while a long request
// runs. On other writers it prints the message once.
type progress struct {
	w     io.Writer
	msg   string
	done  chan struct{}
	wg    sync.WaitGroup
	isTTY bool
}

func startProgress(w io.Writer, msg string) *progress {
	p := &progress{w: w, msg: msg, done: make(chan struct{})}
	if f, ok := w.(*os.File); ok {
		p.isTTY = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !p.isTTY {
		fmt.Fprintf(w, "%s\n", msg)
		return p
	}

	start := time.Now()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			fmt.Fprintf(p.w, "\r%s %s", p.msg, time.Since(start).Truncate(time.Second))
			select {
			case <-p.done:
				fmt.Fprintf(p.w, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
	return p
}

// Stop clears the ticker line. It is safe to call more than once.
func (p *progress) Stop() {
	select {
	case <-p.done:
		return
	default:
	}
	close(p.done)
	p.wg.Wait()
}
