package checkpoint

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"slices"
)

// Save writes c to w.
//
// The caller's entry order is not modified; a sorted copy is written.
func Save(w io.Writer, c *Checkpoint) error {
	sorted := &Checkpoint{Step: c.Step, Loss: c.Loss, Tensors: slices.Clone(c.Tensors)}
	sortEntries(sorted.Tensors)
	if err := ValidateEntries(sorted.Tensors); err != nil {
		return err
	}

	body := marshalBody(sorted)
	checksum := ComputeChecksum(body)

	buf := make([]byte, 0, FixedHeaderSize+len(body)+ChecksumSize)
	buf = append(buf, MagicBytes...)
	buf = binary.LittleEndian.AppendUint32(buf, FormatVersion)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(body)))
	buf = append(buf, body...)
	buf = append(buf, checksum[:]...)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// SaveFile writes c to path, replacing any existing file.
func SaveFile(path string, c *Checkpoint) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for checkpoint saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return Save(file, c)
}
