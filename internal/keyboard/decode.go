package keyboard

// set1Decode is a small US-QWERTY scancode-set-1 make-code table. There
// is no Go equivalent of pc-keyboard in the example pack to import, and
// the table is small enough that hand-writing the common keys is the
// only realistic option — see DESIGN.md. Only the make codes (key-down)
// for printable keys are decoded; break codes (make code | 0x80) and
// non-printable keys are ignored, matching print_keypresses's behavior
// of only emitting characters for recognized, printable key-down events.
var set1Decode = map[byte]rune{
	0x02: '1', 0x03: '2', 0x04: '3', 0x05: '4', 0x06: '5',
	0x07: '6', 0x08: '7', 0x09: '8', 0x0A: '9', 0x0B: '0',
	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'y', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1E: 'a', 0x1F: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l',
	0x2C: 'z', 0x2D: 'x', 0x2E: 'c', 0x2F: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm',
	0x39: ' ', // space bar
	0x1C: '\n',
}

const breakCodeBit = 0x80

// decodeScancode turns a single scancode-set-1 byte into a rune, if it
// is a make code (key-down) for a key this table recognizes. Break
// codes and unrecognized make codes report ok == false.
func decodeScancode(b byte) (rune, bool) {
	if b&breakCodeBit != 0 {
		return 0, false
	}
	r, ok := set1Decode[b]
	return r, ok
}
