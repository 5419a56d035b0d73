package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/charset"
)

var (
	asciiCols    int
	asciiRows    int
	asciiCharset string
)

func newASCIICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ascii IMAGE",
		Short: "convert an image to ASCII art",
		Args:  cobra.ExactArgs(1),
		RunE:  runASCII,
	}
	cmd.Flags().IntVar(&asciiCols, "cols", 80, "output columns")
	cmd.Flags().IntVar(&asciiRows, "rows", 0, "output rows (0 keeps the aspect ratio)")
	cmd.Flags().StringVar(&asciiCharset, "charset", charset.Standard, "glyph ramp")
	return cmd
}

func runASCII(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}
	set, ok := charset.Lookup(asciiCharset)
	if !ok {
		return fmt.Errorf("unknown charset %q", asciiCharset)
	}
	rows := asciiRows
	if rows <= 0 {
		rows = asciiRowsFor(img.Bounds(), asciiCols)
	}
	gridfx.Logger().Debug("ascii: decoded", "format", format, "cols", asciiCols, "rows", rows)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), charset.FromImage(img, asciiCols, rows, set))
	return err
}

// asciiRowsFor keeps the image aspect for glyphs about twice as tall as
// wide.
func asciiRowsFor(b image.Rectangle, cols int) int {
	if b.Dx() == 0 {
		return 0
	}
	return max(1, int(float64(cols)*float64(b.Dy())/float64(b.Dx())*0.5+0.5))
}
