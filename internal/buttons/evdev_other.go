//go:build !linux

package buttons

type keyboardLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// NewKeyboard has no input devices to read outside Linux.
func NewKeyboard(logger keyboardLogger) Buttons {
	if logger != nil {
		logger.Infof("input", "keyboard control is only available on linux")
	}
	return NewNoopButtons()
}
