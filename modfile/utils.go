package modfile

import (
	"bytes"
	"encoding/binary"
)

func convertCstring(data []byte) string {
	i := bytes.IndexByte(data, 0)
	if i == -1 {
		return string(data)
	}
	return string(data[:i])
}

func putCstring(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func getWord(b []byte) int {
	return int(binary.BigEndian.Uint16(b))
}

func putWord(b []byte, v int) {
	binary.BigEndian.PutUint16(b, uint16(v))
}
