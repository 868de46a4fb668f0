package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Spinner animates a one-line status while a blocking call runs. When the
// output is not a terminal it prints the message once and stays quiet.
type Spinner struct {
	w       io.Writer
	message string
	animate bool
	start   time.Time

	ctx    context.Context
	cancel context.CancelFunc
	quit   chan struct{}
	exited chan struct{}
	once   sync.Once
	mu     sync.Mutex
	width  int // printed width of the last frame
}

// startSpinner shows message on stderr until Stop is called or ctx ends.
func startSpinner(ctx context.Context, message string) *Spinner {
	return runSpinner(ctx, os.Stderr, message, isTerminal(os.Stderr))
}

func runSpinner(ctx context.Context, w io.Writer, message string, animate bool) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &Spinner{
		w:       w,
		message: message,
		animate: animate,
		start:   time.Now(),
		ctx:     sctx,
		cancel:  cancel,
		quit:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	if !animate {
		fmt.Fprintln(w, StyleDim.Render(message))
		close(s.exited)
		return s
	}
	go s.loop()
	return s
}

func (s *Spinner) loop() {
	defer close(s.exited)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			return
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.draw(frame)
		}
	}
}

func (s *Spinner) draw(frame int) {
	elapsed := time.Since(s.start).Truncate(time.Second)
	line := fmt.Sprintf("%s %s %s",
		styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]),
		StyleDim.Render(s.message),
		StyleDim.Render(elapsed.String()))

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r"+line)
	s.width = len(line)
}

// Stop ends the animation and erases the status line. It is safe to call
// more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.quit)
		<-s.exited
		s.cancel()

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%*s\r", s.width, "")
		}
	})
}

// Succeed stops the spinner and prints a success line.
func (s *Spinner) Succeed(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// Fail stops the spinner and prints an error line.
func (s *Spinner) Fail(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended before Stop.
func (s *Spinner) Cancelled() bool {
	select {
	case <-s.quit:
		return false
	default:
		return s.ctx.Err() != nil
	}
}
