//go:build linux

package buttons

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

type keyboardLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Keyboard watches Linux evdev devices under /dev/input/event* and turns
// key presses into Events.
//
// It is best-effort: if no input devices are available, it logs and emits nothing.
type Keyboard struct {
	Glob   string
	Logger keyboardLogger

	ch     chan Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewKeyboard(logger keyboardLogger) *Keyboard {
	return &Keyboard{Glob: "/dev/input/event*", Logger: logger, ch: make(chan Event, 16)}
}

func (k *Keyboard) Events() <-chan Event { return k.ch }

func (k *Keyboard) Start(ctx context.Context) error {
	paths, err := filepath.Glob(k.Glob)
	if err != nil || len(paths) == 0 {
		if k.Logger != nil {
			k.Logger.Infof("input", "no evdev devices found, keyboard control disabled")
		}
		return nil
	}
	ctx, k.cancel = context.WithCancel(ctx)
	for _, path := range paths {
		k.wg.Add(1)
		go func(p string) {
			defer k.wg.Done()
			k.watch(ctx, p)
		}(path)
	}
	if k.Logger != nil {
		k.Logger.Infof("input", "watching %d evdev devices", len(paths))
	}
	return nil
}

func (k *Keyboard) Stop() error {
	if k.cancel != nil {
		k.cancel()
	}
	k.wg.Wait()
	k.once.Do(func() { close(k.ch) })
	return nil
}

func (k *Keyboard) watch(ctx context.Context, path string) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	buf := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		_, pollErr := unix.Poll(pollFds, 250)
		if pollErr != nil {
			if pollErr == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, readErr := unix.Read(fd, buf)
		if readErr != nil {
			if readErr == unix.EAGAIN || readErr == unix.EINTR {
				continue
			}
			return
		}
		for _, ev := range decodeEvents(buf[:n], tvSize) {
			select {
			case k.ch <- ev:
			case <-ctx.Done():
				return
			default:
				// Drop when nobody is listening.
			}
		}
	}
}
