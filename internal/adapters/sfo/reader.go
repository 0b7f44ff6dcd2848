package sfo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
)

var magic = []byte{0, 'P', 'S', 'F'}

const (
	headerSize = 20
	entrySize  = 16

	fmtUTF8Special = 0x0004
	fmtUTF8        = 0x0204
	fmtInt32       = 0x0404
)

// ErrInvalid is returned for files that are not parameter descriptors
var ErrInvalid = errors.New("invalid PARAM.SFO")

// Reader implements ports.SaveDescriptorReader for PARAM.SFO files
type Reader struct {
	values map[string]string
}

// NewReader creates a new Reader
func NewReader() *Reader {
	return &Reader{}
}

// Load reads and parses the descriptor at path
func (r *Reader) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	values, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	r.values = values
	return nil
}

// Value returns the entry named key, or def
func (r *Reader) Value(key, def string) string {
	if v, ok := r.values[key]; ok && v != "" {
		return v
	}
	return def
}

// Parse decodes a descriptor. Integer entries are rendered in decimal.
func Parse(data []byte) (map[string]string, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], magic) {
		return nil, ErrInvalid
	}
	le := binary.LittleEndian
	keyTable := int(le.Uint32(data[8:]))
	dataTable := int(le.Uint32(data[12:]))
	count := int(le.Uint32(data[16:]))

	if headerSize+count*entrySize > len(data) || keyTable > len(data) || dataTable > len(data) {
		return nil, fmt.Errorf("%w: truncated index", ErrInvalid)
	}

	values := make(map[string]string, count)
	for i := 0; i < count; i++ {
		e := data[headerSize+i*entrySize:]
		keyOff := keyTable + int(le.Uint16(e[0:]))
		format := le.Uint16(e[2:])
		length := int(le.Uint32(e[4:]))
		dataOff := dataTable + int(le.Uint32(e[12:]))

		if keyOff >= len(data) || dataOff+length > len(data) {
			return nil, fmt.Errorf("%w: entry %d out of range", ErrInvalid, i)
		}
		key := cstring(data[keyOff:])
		raw := data[dataOff : dataOff+length]

		switch format {
		case fmtUTF8, fmtUTF8Special:
			values[key] = cstring(raw)
		case fmtInt32:
			if len(raw) < 4 {
				return nil, fmt.Errorf("%w: short integer %s", ErrInvalid, key)
			}
			values[key] = strconv.FormatUint(uint64(le.Uint32(raw)), 10)
		}
	}
	return values, nil
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
