package utils

import (
	"encoding/binary"
	"strconv"
)

// Uint64ToBytes encodes big-endian so byte order matches numeric order in bolt cursors.
func Uint64ToBytes(num uint64) []byte {
	bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(bytes, num)
	return bytes
}

func StringToUint64(s string) (uint64, error) {
	num, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}
