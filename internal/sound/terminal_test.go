package sound

import (
	"io"
	"os"
	"strings"
	"sync"
	"testing"
)

func TestTerminalKeepsFramesWhole(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	term := NewTerminal(w)
	if term.Fd() != w.Fd() {
		t.Fatalf("Fd() = %d, want %d", term.Fd(), w.Fd())
	}

	read := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		read <- string(b)
	}()

	frame := "[" + strings.Repeat("#", 4096) + "]"
	const frames, bells = 50, 50
	bell := NewBell(term)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range frames {
			io.WriteString(term, frame)
		}
	}()
	go func() {
		defer wg.Done()
		for range bells {
			bell.Play(EffectPaddleHit)
		}
	}()
	wg.Wait()
	w.Close()

	out := <-read
	if n := strings.Count(out, "\a"); n != bells {
		t.Errorf("got %d bells, want %d", n, bells)
	}
	if n := strings.Count(out, frame); n != frames {
		t.Errorf("got %d whole frames, want %d", n, frames)
	}
}
