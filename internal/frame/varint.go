package frame

import "encoding/binary"

// PutVarint encodes x as an unsigned LEB128 varint, the same shape the
// packet codec collaborator's to_var_int/from_var_int pair produces:
// the caller gets back exactly the bytes that were consumed, nothing
// padded.
func PutVarint(x uint64) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, x)
	return buf[:n]
}

// Varint decodes a varint from the front of buf, returning the value and
// the number of bytes consumed. consumed is 0 if buf does not contain a
// complete, well-formed varint.
func Varint(buf []byte) (value uint64, consumed int) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0
	}
	return v, n
}
