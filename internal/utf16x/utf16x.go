package utf16x

const (
	// 0xd800-0xdc00 encodes the high 10 bits of a pair.
	// 0xdc00-0xe000 encodes the low 10 bits of a pair.
	// the value is those 20 bits plus 0x10000.
	surr1 = 0xd800
	surr2 = 0xdc00
	surr3 = 0xe000
)

// replacementChar is used in place of code units that don't decode to a
// valid rune. Defined locally so this package doesn't depend on package
// unicode.
const replacementChar = '�'
