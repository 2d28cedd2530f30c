package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"hostel-portal/internal/listing"
)

// lineReader feeds input lines through a channel so a read can be abandoned
// when ctx is cancelled.
type lineReader struct {
	lines chan string
	once  sync.Once
	src   io.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{lines: make(chan string), src: r}
}

func (l *lineReader) start() {
	l.once.Do(func() {
		go func() {
			defer close(l.lines)
			sc := bufio.NewScanner(l.src)
			sc.Buffer(make([]byte, 64*1024), 1024*1024)
			for sc.Scan() {
				l.lines <- sc.Text()
			}
		}()
	})
}

// ReadLine returns false at end of input or when ctx is done.
func (l *lineReader) ReadLine(ctx context.Context) (string, bool) {
	l.start()
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-l.lines:
		return line, ok
	}
}

// promptConfirmer asks on the console and accepts only an explicit yes.
type promptConfirmer struct {
	c *Console
}

func (p promptConfirmer) Confirm(ctx context.Context, pr listing.Prompt) bool {
	if ctx.Err() != nil {
		return false
	}
	label := pr.ConfirmLabel
	if label == "" {
		label = "Confirm"
	}
	p.c.printf("\n[%s] %s\n%s\n%s? [y/N] ", strings.ToUpper(string(pr.Severity)), pr.Title, pr.Message, label)
	line, ok := p.c.in.ReadLine(ctx)
	if !ok {
		p.c.printf("\n")
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// toaster prints notifications inline.
type toaster struct {
	c *Console
}

func (t toaster) Success(msg string) { t.c.printf("[ok] %s\n", msg) }

func (t toaster) Error(msg string) { t.c.printf("[error] %s\n", msg) }

var _ listing.Confirmer = promptConfirmer{}

func (c *Console) printf(format string, args ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}
