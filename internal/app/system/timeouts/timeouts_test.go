package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/accessdeck/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Medium: 3 * time.Second})
	got := timeouts.Current()
	if got.Medium != 3*time.Second {
		t.Errorf("Medium = %v", got.Medium)
	}
	if got.Short != timeouts.DefaultShort || got.Long != timeouts.DefaultLong {
		t.Errorf("zero values should keep defaults, got %+v", got)
	}
}

func TestReset(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: time.Minute})
	timeouts.Reset()
	if timeouts.Ping() != timeouts.DefaultPing {
		t.Errorf("Ping = %v after Reset", timeouts.Ping())
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	<-ctx.Done()
	cancel()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("Err = %v", ctx.Err())
	}
}
