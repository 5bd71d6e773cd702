package utils

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

var spinnerFrames = []rune(`⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`)

// Spinner is the progress indicator shown while an icon artifact is built.
type Spinner struct {
	// StopMsg is printed once the spinner is stopped.
	StopMsg string

	mu         sync.Mutex
	w          io.Writer
	delay      time.Duration
	message    string
	hideCursor bool
	lastLen    int

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a progress indicator writing to w. The frame is
// advanced every d.
func NewSpinner(w io.Writer, msg string, d time.Duration, hideCursor bool) *Spinner {
	return &Spinner{
		w:          w,
		delay:      d,
		message:    msg,
		hideCursor: hideCursor && runtime.GOOS != "windows",
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start draws the spinner until Stop is called.
func (s *Spinner) Start() {
	if s.hideCursor {
		fmt.Fprint(s.w, "\033[?25l")
	}

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.delay)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.render(spinnerFrames[i%len(spinnerFrames)])
			select {
			case <-s.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop removes the spinner, restores the cursor and prints StopMsg.
// It waits for the drawing goroutine to exit and may be called more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.done

		s.mu.Lock()
		defer s.mu.Unlock()

		s.clear()
		if s.hideCursor {
			fmt.Fprint(s.w, "\033[?25h")
		}
		if s.StopMsg != "" {
			fmt.Fprint(s.w, s.StopMsg)
		}
	})
}

func (s *Spinner) render(frame rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := fmt.Sprintf("\r%s%s %c%s", s.message, SuccessColor, frame, DefaultColor)
	fmt.Fprint(s.w, out)
	s.lastLen = utf8.RuneCountInString(out)
}

// clear deletes the last drawn line. Caller must hold the lock.
func (s *Spinner) clear() {
	if runtime.GOOS == "windows" {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.lastLen)+"\r")
	} else {
		fmt.Fprint(s.w, "\r\033[K")
	}
	s.lastLen = 0
}
