package checkpoint

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Load reads a checkpoint from r.
//
// The checksum is verified before the body is decoded. A short read fails
// with an error wrapping both ErrMalformed and io.ErrUnexpectedEOF.
func Load(r io.Reader) (*Checkpoint, error) {
	var header [FixedHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrMalformed, err)
	}

	if string(header[:4]) != MagicBytes {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrInvalidMagic, header[:4], MagicBytes)
	}
	if version := binary.LittleEndian.Uint32(header[4:8]); version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	size := binary.LittleEndian.Uint64(header[8:16])
	if size > MaxBodySize {
		return nil, fmt.Errorf("%w: body size %d exceeds %d", ErrMalformed, size, uint64(MaxBodySize))
	}

	body, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrMalformed, err)
	}
	if uint64(len(body)) != size {
		return nil, fmt.Errorf("%w: read body: %w", ErrMalformed, io.ErrUnexpectedEOF)
	}
	var stored [ChecksumSize]byte
	if _, err := io.ReadFull(r, stored[:]); err != nil {
		return nil, fmt.Errorf("%w: read checksum: %w", ErrMalformed, err)
	}
	if err := ValidateChecksum(ComputeChecksum(body), stored); err != nil {
		return nil, err
	}

	c, err := unmarshalBody(body)
	if err != nil {
		return nil, err
	}
	sortEntries(c.Tensors)
	if err := ValidateEntries(c.Tensors); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads a checkpoint from path.
func LoadFile(path string) (*Checkpoint, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for checkpoint loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Load(file)
}
