// Command tabex turns a chromatography/mass-spec/sequence file into a
// TSV stream on stdout, auto-detecting its format and compression.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Schaudge/tabex/dispatch"
	"github.com/Schaudge/tabex/rbuf"
	"github.com/Schaudge/tabex/record"
	"github.com/Schaudge/tabex/tabexlog"
	"github.com/Schaudge/tabex/tconfig"
	"github.com/Schaudge/tabex/xcompress"
)

func main() {
	v := tconfig.New()
	root := &cobra.Command{
		Use:     "tabex",
		Short:   "Turn anything into a TSV",
		Version: "0.1.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := tconfig.Load(v)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	tconfig.BindFlags(root, v)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *tconfig.Config) error {
	logger := tabexlog.New("info")

	src, closeSrc, err := openInput(cfg.Input)
	if err != nil {
		return err
	}
	defer closeSrc()

	kind := xcompress.None
	switch cfg.Compression {
	case "gzip":
		kind = xcompress.Gzip
	case "bzip2":
		kind = xcompress.Bzip2
	case "zstd":
		kind = xcompress.Zstd
	case "none":
		kind = xcompress.None
	}
	if cfg.Compression == "auto" {
		src, kind, err = xcompress.Detect(src)
		if err != nil {
			return fmt.Errorf("tabex: opening input: %w", err)
		}
	}
	decompressed, err := xcompress.Open(src, kind, false)
	if err != nil {
		return fmt.Errorf("tabex: opening input: %w", err)
	}

	rb, err := rbuf.New(decompressed)
	if err != nil {
		return fmt.Errorf("tabex: buffering input: %w", err)
	}
	defer rb.Release()

	tag, err := resolveTag(cfg.Parser, rb)
	if err != nil {
		return fmt.Errorf("tabex: %w", err)
	}
	logger.Debug("detected format", "format", tag.String())

	if cfg.Metadata {
		fmt.Printf("format\t%s\ncompression\t%s\n", tag, kind)
		return nil
	}

	rd, err := dispatch.New(tag, rb)
	if err != nil {
		return fmt.Errorf("tabex: %w", err)
	}

	out, closeOut, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}
	defer closeOut()

	return writeReaderToTSV(rd, out)
}

func resolveTag(parser string, rb *rbuf.Buffer) (dispatch.Tag, error) {
	switch parser {
	case "":
		return dispatch.Detect(rb)
	case "fasta":
		return dispatch.TagFASTA, nil
	case "chemstation-fid":
		return dispatch.TagChemstationFID, nil
	case "chemstation-mwd":
		return dispatch.TagChemstationMWD, nil
	case "chemstation-ms":
		return dispatch.TagChemstationMS, nil
	case "chemstation-uv":
		return dispatch.TagChemstationUV, nil
	case "inficon":
		return dispatch.TagInficon, nil
	default:
		return dispatch.TagUnknown, fmt.Errorf("unrecognized parser %q", parser)
	}
}

// writeReaderToTSV streams rd's headers and records to w, one field at
// a time, never materializing a full row.
func writeReaderToTSV(rd record.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	headers := rd.Headers()
	for i, h := range headers {
		if i > 0 {
			bw.WriteByte('\t')
		}
		bw.WriteString(h)
	}

	writeField := func(b []byte) error {
		_, err := bw.Write(b)
		return err
	}

	for {
		rec, err := rd.Next()
		if err != nil {
			return err
		}
		if rec == nil {
			break
		}
		bw.WriteByte('\n')
		if err := rec.WriteField(0, writeField); err != nil {
			return err
		}
		for i := 1; i < rec.Size(); i++ {
			bw.WriteByte('\t')
			if err := rec.WriteField(i, writeField); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("tabex: opening %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("tabex: creating %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
