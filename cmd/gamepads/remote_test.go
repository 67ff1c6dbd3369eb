package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type connCount struct{ n atomic.Int32 }

func (c *connCount) Connections() int { return int(c.n.Load()) }

// syncBuffer lets the logger and the test touch the buffer concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLogConnectionsOnChange(t *testing.T) {
	var out syncBuffer
	log.SetOutput(&out)
	defer log.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	conns := &connCount{}
	done := make(chan struct{})
	go func() {
		logConnections(ctx, conns, 5*time.Millisecond)
		close(done)
	}()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for !strings.Contains(out.String(), want) {
			if time.Now().After(deadline) {
				t.Fatalf("log never contained %q: %q", want, out.String())
			}
			time.Sleep(5 * time.Millisecond)
		}
	}

	conns.n.Store(2)
	waitFor("Browsers connected: 2")
	conns.n.Store(0)
	waitFor("Browsers connected: 0")

	cancel()
	<-done
	if got := strings.Count(out.String(), "Browsers connected"); got != 2 {
		t.Errorf("logged %d changes, want 2: %q", got, out.String())
	}
}
