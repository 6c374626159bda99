package fs

import (
	"bytes"
	"encoding/binary"
)

// rawSuperblock is the exact 8-byte on-disk layout: magic then block
// size, both little-endian uint32.
type rawSuperblock struct {
	Magic     uint32
	BlockSize uint32
}

func readSuperblock(data []byte) (rawSuperblock, error) {
	var sb rawSuperblock
	reader := bytes.NewReader(data)
	if err := binary.Read(reader, binary.LittleEndian, &sb); err != nil {
		return rawSuperblock{}, err
	}
	return sb, nil
}

func encodeSuperblock(sb rawSuperblock) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, &sb)
	return buf.Bytes()
}
