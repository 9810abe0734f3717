package trophies

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/pytatbro/metaltrophysolidv/internal/services"
)

// timeFieldHexChars is the number of leading hex characters of the stats Time
// field that encode the unlock timestamp.
const timeFieldHexChars = 8

// DecodeUnlockTime interprets the first 8 hex characters of a stats Time
// field as 4 raw bytes and reinterprets them as a little-endian unsigned
// 32-bit Unix timestamp. The byte written last inside that window is the most
// significant byte of the result.
func DecodeUnlockTime(field string) (uint32, error) {
	if len(field) < timeFieldHexChars {
		return 0, services.Wrap(services.ErrDecode, "trophies", "decode unlock time",
			fmt.Sprintf("time field %q shorter than %d characters", field, timeFieldHexChars), nil)
	}
	raw, err := hex.DecodeString(field[:timeFieldHexChars])
	if err != nil {
		return 0, services.Wrap(services.ErrDecode, "trophies", "decode unlock time",
			fmt.Sprintf("time field %q is not valid hex", field[:timeFieldHexChars]), err)
	}
	return binary.LittleEndian.Uint32(raw), nil
}
