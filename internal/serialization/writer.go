package serialization

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/rtpolicy/internal/nn"
)

// Encode serializes the network's architecture and current parameters.
func Encode(net *nn.Network) []byte {
	arch := net.Architecture()
	blob := make([]byte, 0, BlobSize(arch))
	blob = appendHeader(blob, arch)
	for _, p := range net.Parameters() {
		for _, v := range p.Data() {
			blob = byteOrder.AppendUint32(blob, math.Float32bits(v))
		}
	}
	return blob
}

// Write encodes net to w.
func Write(w io.Writer, net *nn.Network) error {
	if _, err := w.Write(Encode(net)); err != nil {
		return fmt.Errorf("failed to write weight blob: %w", err)
	}
	return nil
}

// WriteFile encodes net to the file at path, replacing it atomically.
func WriteFile(path string, net *nn.Network) error {
	tmp := path + ".tmp"
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, net); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}
