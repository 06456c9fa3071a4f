package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func received[T any](ch chan T) bool {
	select {
	case <-ch:
		return true
	case <-time.After(5 * time.Second):
		return false
	}
}

func TestWatchFile(t *testing.T) {
	convey.Convey("re-runs on write and stops with the context", t, func() {
		path := filepath.Join(t.TempDir(), "front.tgm")
		convey.So(os.WriteFile(path, []byte("[Node]\nTreadDepth=0.003\n"), 0o644), convey.ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		calls := make(chan struct{}, 8)
		done := make(chan error, 1)
		go func() {
			done <- watchFile(ctx, path, func() error {
				calls <- struct{}{}
				return nil
			})
		}()

		convey.So(received(calls), convey.ShouldBeTrue)

		convey.So(os.WriteFile(path, []byte("[Node]\nTreadDepth=0.004\n"), 0o644), convey.ShouldBeNil)
		convey.So(received(calls), convey.ShouldBeTrue)

		cancel()
		convey.So(received(done), convey.ShouldBeTrue)
	})
}
