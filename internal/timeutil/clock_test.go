package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClockAfter(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	ch := c.After(time.Second)
	select {
	case <-ch:
		t.Fatal("fired before Advance")
	default:
	}

	c.Advance(500 * time.Millisecond)
	select {
	case <-ch:
		t.Fatal("fired early")
	default:
	}

	c.Advance(500 * time.Millisecond)
	assert.Equal(t, start.Add(time.Second), <-ch)
	assert.Equal(t, time.Second, c.Since(start))
}

func TestMockClockTicker(t *testing.T) {
	c := NewMockClock(time.Unix(0, 0))
	tk := c.NewTicker(100 * time.Millisecond)

	c.Advance(350 * time.Millisecond)
	<-tk.C()
	select {
	case <-tk.C():
		t.Fatal("ticker should drop ticks when the reader is slow")
	default:
	}

	tk.Stop()
	c.Advance(time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}
