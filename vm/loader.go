package vm

import (
	"fmt"
	"io"
)

// ErrImageSize is an input fault (spec.md §7.1), reported before any
// execution begins: the program image's length is not a multiple of 4
// bytes, so it cannot be split into whole 32-bit words.
var ErrImageSize = fmt.Errorf("program image size is not a multiple of 4 bytes")

// Load reads a program image and produces a Memory whose segment 0 holds
// the image's words in file order, each word assembled big-endian from
// four consecutive bytes (spec.md §6). This is the loader's entire
// contract: the engine never creates or destroys Memory itself.
func Load(r io.Reader) (*Memory, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, ErrImageSize
	}

	n := len(data) / 4
	mem := NewMemory()
	seg0 := mem.Map(uint32(n))

	for i := 0; i < n; i++ {
		off := i * 4
		word := uint32(data[off])<<24 | uint32(data[off+1])<<16 | uint32(data[off+2])<<8 | uint32(data[off+3])
		// Store can't fail here: seg0 was just mapped with exactly n words.
		_ = mem.Store(seg0, uint32(i), word)
	}

	return mem, nil
}
