// Package tconfig binds the tabex CLI's flags and optional config file
// into a single Config value, the way the rest of the corpus layers
// cobra command flags over a viper-backed config search path.
package tconfig

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds one invocation's resolved settings.
type Config struct {
	// Input is the path to read from, or "-"/"" for stdin.
	Input string
	// Output is the path to write to, or "-"/"" for stdout.
	Output string
	// Parser names a format explicitly, bypassing Detect.
	Parser string
	// Metadata, when set, makes the driver report detected
	// format/compression instead of converting to TSV.
	Metadata bool
	// Compression names the input's compression envelope explicitly
	// ("auto" triggers sniffing).
	Compression string
}

// BindFlags registers -i/-o/-p/-m plus --compression on cmd and binds
// them through v. -i/-o/-p/-m mirror entab's original CLI flag names;
// --compression is tabex's own addition, needed because xcompress can
// decode more than one envelope and a caller may want to skip sniffing.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.StringP("input", "i", "-", "input file (- for stdin)")
	flags.StringP("output", "o", "-", "output file (- for stdout)")
	flags.StringP("parser", "p", "", "force a specific parser instead of detecting one")
	flags.BoolP("metadata", "m", false, "report detected format and compression instead of converting")
	flags.String("compression", "auto", "input compression: auto, none, gzip, bzip2, zstd")

	v.BindPFlag("input", flags.Lookup("input"))
	v.BindPFlag("output", flags.Lookup("output"))
	v.BindPFlag("parser", flags.Lookup("parser"))
	v.BindPFlag("metadata", flags.Lookup("metadata"))
	v.BindPFlag("compression", flags.Lookup("compression"))
}

// Load reads the bound values out of v into a Config, after
// cmd.Execute's flag parsing has populated them.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Input:       v.GetString("input"),
		Output:      v.GetString("output"),
		Parser:      v.GetString("parser"),
		Metadata:    v.GetBool("metadata"),
		Compression: v.GetString("compression"),
	}
	switch cfg.Compression {
	case "auto", "none", "gzip", "bzip2", "zstd":
	default:
		return nil, fmt.Errorf("tconfig: unrecognized compression %q", cfg.Compression)
	}
	return cfg, nil
}

// New returns a fresh viper instance configured to also read an
// optional tabex.yaml from the current directory or $HOME, following
// the layered flag/file/default precedence viper provides.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("tabex")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	v.SetDefault("compression", "auto")
	v.SetDefault("input", "-")
	v.SetDefault("output", "-")
	_ = v.ReadInConfig()
	return v
}
