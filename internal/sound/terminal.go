package sound

import (
	"os"
	"sync"
)

// Terminal is a terminal file whose writes are serialised, so a bell rung
// from Update lands between two renderer frames instead of inside one. The
// file is embedded, so Fd stays visible and the UI still detects the tty.
type Terminal struct {
	*os.File
	mu sync.Mutex
}

// NewTerminal wraps f. Pass the result both to NewBell and as the program's
// output.
func NewTerminal(f *os.File) *Terminal {
	return &Terminal{File: f}
}

func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.File.Write(p)
}

// WriteString is overridden so io.WriteString does not bypass the lock
// through the embedded file.
func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}
