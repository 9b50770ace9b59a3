package charset

import (
	"fmt"
	"os"
)

// ConvertFile reads the input file, decodes it with the input codec, and
// writes it to the output file re-encoded with the output codec. It is used
// to hand a preprocessor its expected encoding when the working codec
// differs.
func ConvertFile(inPath string, inCodec *Codec, outPath string, outCodec *Codec) error {
	if inCodec == nil || outCodec == nil {
		return ErrNilCodec
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	text, err := inCodec.Decode(data)
	if err != nil {
		return err
	}

	out, err := outCodec.Encode(text)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, out, 0600); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
