package parallel

import (
	"bytes"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/sup/internal/exec"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestMultiplexer_Format(t *testing.T) {
	out := exec.Line{Host: "deploy@web1", Text: "ok"}
	errLine := exec.Line{Host: "deploy@web1", Text: "warning", Stderr: true}

	prefixed := NewMultiplexer(nil, false)
	assert.Equal(t, "deploy@web1 ok", prefixed.Format(out))
	assert.Equal(t, "deploy@web1 stderr: warning", prefixed.Format(errLine))

	bare := NewMultiplexer(nil, true)
	assert.Equal(t, "ok", bare.Format(out))
	assert.Equal(t, "stderr: warning", bare.Format(errLine))
}

func TestMultiplexer_DrainArrivalOrder(t *testing.T) {
	var buf bytes.Buffer
	mux := NewMultiplexer(&buf, false)

	lines := NewChannel()
	lines <- exec.Line{Host: "deploy@b", Text: "one"}
	lines <- exec.Line{Host: "deploy@a", Text: "two"}
	lines <- exec.Line{Host: "deploy@b", Text: "three"}
	close(lines)

	n := mux.Drain(lines)

	assert.Equal(t, 3, n)
	assert.Equal(t, "deploy@b one\ndeploy@a two\ndeploy@b three\n", buf.String())
}

func TestChannel_Backpressure(t *testing.T) {
	lines := NewChannel()
	assert.Equal(t, ChannelCapacity, cap(lines))

	var sent int
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < ChannelCapacity+5; i++ {
			lines <- exec.Line{Host: "deploy@a", Text: "x"}
			mu.Lock()
			sent++
			mu.Unlock()
		}
	}()

	// The producer stalls once the buffer is full.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return sent == ChannelCapacity
	}, time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, ChannelCapacity, sent)
	mu.Unlock()

	go func() {
		<-done
		close(lines)
	}()

	var buf bytes.Buffer
	assert.Equal(t, ChannelCapacity+5, NewMultiplexer(&buf, true).Drain(lines))
}
