package buttons

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testTV = 16

func record(typ, code uint16, value int32) []byte {
	rec := make([]byte, testTV+8)
	binary.LittleEndian.PutUint16(rec[testTV:], typ)
	binary.LittleEndian.PutUint16(rec[testTV+2:], code)
	binary.LittleEndian.PutUint32(rec[testTV+4:], uint32(value))
	return rec
}

func TestDecodeEvents(t *testing.T) {
	var buf []byte
	buf = append(buf, record(evKey, keyF11, keyPress)...)
	buf = append(buf, record(0, 0, 0)...) // SYN_REPORT
	buf = append(buf, record(evKey, keyF11, keyRelease)...)
	buf = append(buf, record(evKey, keyUp, keyRepeat)...)
	buf = append(buf, record(evKey, key1, keyRepeat)...)
	buf = append(buf, record(evKey, 30, keyPress)...) // KEY_A
	buf = append(buf, record(evKey, keyF4, keyPress)[:10]...)

	assert.Equal(t, []Event{ToggleFullscreen, ValueUp}, decodeEvents(buf, testTV))
}

func TestKeymap(t *testing.T) {
	tests := map[uint16]Event{
		keyEsc:  LeaveFullscreen,
		keyF4:   Exit,
		keyDown: ValueDown,
		key4:    Preset4,
	}
	for code, want := range tests {
		got, ok := eventFor(evKey, code, keyPress)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestPresetIndex(t *testing.T) {
	i, ok := Preset3.PresetIndex()
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = Exit.PresetIndex()
	assert.False(t, ok)
}

func TestNoopButtonsStopTwice(t *testing.T) {
	b := NewNoopButtons()
	assert.NoError(t, b.Stop())
	assert.NoError(t, b.Stop())
	_, open := <-b.Events()
	assert.False(t, open)
}
