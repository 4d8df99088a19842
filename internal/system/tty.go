package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// Prefer /dev/tty (active VT), fallback to /dev/tty0.
var vtPaths = []string{"/dev/tty", "/dev/tty0"}

// Console switches the active virtual terminal between text and graphics
// so the hardware cursor does not blink over the gauge.
type Console struct {
	Logger logger
}

// Enter sets KD_GRAPHICS and hides the cursor. Failures are logged and
// returned but leave the console usable.
func (c Console) Enter() error {
	err := setKDMode(kdGraphics)
	c.log("KD_GRAPHICS", err)
	if cerr := writeVT("\x1b[?25l"); cerr != nil {
		c.log("hide cursor", cerr)
		if err == nil {
			err = cerr
		}
	}
	return err
}

// Restore shows the cursor and returns to KD_TEXT.
func (c Console) Restore() error {
	cerr := writeVT("\x1b[?25h")
	c.log("show cursor", cerr)
	err := setKDMode(kdText)
	c.log("KD_TEXT", err)
	if err == nil {
		err = cerr
	}
	return err
}

func (c Console) log(what string, err error) {
	if c.Logger == nil {
		return
	}
	if err != nil {
		c.Logger.Errorf("tty", "%s failed: %v", what, err)
		return
	}
	c.Logger.Infof("tty", "%s ok", what)
}

func setKDMode(mode int) error {
	var lastErr error
	for _, p := range vtPaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		_ = unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("KDSETMODE %d on %s: %w", mode, p, err)
			continue
		}
		return nil
	}
	return lastErr
}

func writeVT(s string) error {
	var lastErr error
	for _, p := range vtPaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		_ = f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("write VT failed: %w", lastErr)
}
