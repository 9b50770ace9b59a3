package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/diffprep/internal/ui/pretty"
	"github.com/yaklabco/diffprep/pkg/charset"
)

// detectPrefixLen bounds how much of each file the detector inspects.
const detectPrefixLen = 16 * 1024

type detectFlags struct {
	encoding string
}

func newDetectCommand() *cobra.Command {
	flags := &detectFlags{}

	cmd := &cobra.Command{
		Use:   "detect <files...>",
		Short: "Show the encoding each file would be decoded with",
		Long: `Inspect each file's leading bytes for a byte order mark or an XML/HTML
charset declaration and print the encoding the ingestion pipeline would
decode it with. Files without any declaration fall back to the given
encoding.

Examples:
  diffprep detect index.html
  diffprep detect --encoding ISO-8859-1 legacy.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.encoding, "encoding", "UTF-8",
		"fallback encoding when nothing is detected")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, flags *detectFlags) error {
	fallback, err := charset.Resolve(flags.encoding)
	if err != nil {
		return fmt.Errorf("unknown fallback encoding %q", flags.encoding)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
	out := cmd.OutOrStdout()

	var failed bool
	for _, path := range args {
		prefix, err := readPrefix(path, detectPrefixLen)
		if err != nil {
			fmt.Fprintf(out, "%s: %s\n",
				styles.FilePath.Render(path),
				styles.Error.Render(fmt.Sprintf("error: %v", err)))
			failed = true
			continue
		}

		if det, ok := charset.Detect(prefix); ok {
			origin := "charset declaration"
			if det.SkipBytes > 0 {
				origin = "byte order mark"
			}
			fmt.Fprintf(out, "%s: %s %s\n",
				styles.FilePath.Render(path),
				styles.Bold.Render(det.Codec.Name()),
				styles.Dim.Render(fmt.Sprintf("(%s)", origin)))
			continue
		}

		fmt.Fprintf(out, "%s: %s %s\n",
			styles.FilePath.Render(path),
			styles.Bold.Render(fallback.Name()),
			styles.Dim.Render("(fallback)"))
	}

	if failed {
		return ErrIngestProblems
	}
	return nil
}

// readPrefix reads up to limit bytes from the start of the named file.
func readPrefix(path string, limit int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, limit)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}
