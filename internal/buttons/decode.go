package buttons

import "encoding/binary"

// decodeEvents parses a run of input_event records whose timeval takes
// tvSize bytes. A trailing partial record is ignored.
func decodeEvents(buf []byte, tvSize int) []Event {
	size := tvSize + 8
	var out []Event
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off : off+size]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if ev, ok := eventFor(typ, code, value); ok {
			out = append(out, ev)
		}
	}
	return out
}
