package journal

import (
	"os"
	"time"

	"github.com/0xmhha/filewatch/pkg/logger"
	"github.com/0xmhha/filewatch/pkg/notify"
)

// Subscriber is the part of notify.Bus that Subscribe needs.
type Subscriber interface {
	Subscribe(event string, h notify.Handler) func()
}

// StatFunc reads the size recorded with each change.
type StatFunc func(path string) (os.FileInfo, error)

// Subscribe records every file:changed published on bus into store and
// returns a function that stops recording.
//
// A path that can no longer be read is recorded with size zero. Store
// failures are logged; they never reach the publisher.
func Subscribe(bus Subscriber, store Store, stat StatFunc, log logger.Logger) func() {
	if stat == nil {
		stat = os.Stat
	}
	if log == nil {
		log = logger.Noop()
	}
	log = log.Named("journal")

	return bus.Subscribe(notify.EventFileChanged, func(payload any) {
		changed, ok := payload.(notify.FileChanged)
		if !ok {
			log.Warn("unexpected file:changed payload", "payload", payload)
			return
		}

		var size int64
		if info, err := stat(changed.Path); err != nil {
			log.Debug("stat failed, recording zero size", "path", changed.Path, "error", err)
		} else {
			size = info.Size()
		}

		if err := store.Record(changed.Path, size, time.Now()); err != nil {
			log.Error("failed to record change", "path", changed.Path, "error", err)
		}
	})
}
