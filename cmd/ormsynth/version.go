package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ormsynth/internal/cache"
	"ormsynth/internal/program"
	"ormsynth/internal/version"
)

const versionTagline = "managers nobody wrote, typed anyway"

// versionInfo is what `ormsynth version` can print. Stubs fingerprints the
// embedded ORM stubs, which take part in every cache key.
type versionInfo struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	Stubs      string `json:"stubs,omitempty"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

type versionOptions struct {
	json        bool
	showStubs   bool
	showHash    bool
	showMessage bool
	showDate    bool
	color       bool
}

func (o versionOptions) brief() bool {
	return !o.showStubs && !o.showHash && !o.showMessage && !o.showDate
}

var versionFlags struct {
	format string
	stubs  bool
	hash   bool
	msg    bool
	date   bool
	full   bool
}

func init() {
	f := versionCmd.Flags()
	f.BoolVar(&versionFlags.stubs, "stubs", false, "include the fingerprint of the embedded ORM stubs")
	f.BoolVar(&versionFlags.hash, "hash", false, "include git commit hash")
	f.BoolVar(&versionFlags.msg, "message", false, "include git commit message")
	f.BoolVar(&versionFlags.date, "date", false, "include build timestamp")
	f.BoolVar(&versionFlags.full, "full", false, "show every recorded bit of build metadata")
	f.StringVar(&versionFlags.format, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ormsynth build fingerprints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts versionOptions
		switch strings.ToLower(versionFlags.format) {
		case "pretty":
		case "json":
			opts.json = true
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFlags.format)
		}
		colored, err := useColor(cmd)
		if err != nil {
			return err
		}
		full := versionFlags.full
		opts.showStubs = versionFlags.stubs || full
		opts.showHash = versionFlags.hash || full
		opts.showMessage = versionFlags.msg || full
		opts.showDate = versionFlags.date || full
		opts.color = colored

		info := collectVersionInfo(opts)
		if opts.json {
			return renderVersionJSON(cmd.OutOrStdout(), info)
		}
		renderVersionPretty(cmd.OutOrStdout(), info, opts)
		return nil
	},
}

// collectVersionInfo fills only the fields opts asks for.
func collectVersionInfo(opts versionOptions) versionInfo {
	info := versionInfo{Tool: "ormsynth", Version: strings.TrimSpace(version.Version), Tagline: versionTagline}
	if info.Version == "" {
		info.Version = "dev"
	}
	if opts.showStubs {
		info.Stubs = cache.Sum(program.StubsSource()).String()
	}
	if opts.showHash {
		info.GitCommit = orUnknown(version.GitCommit)
	}
	if opts.showMessage {
		info.GitMessage = orUnknown(version.GitMessage)
	}
	if opts.showDate {
		info.BuildDate = orUnknown(version.BuildDate)
	}
	return info
}

func renderVersionPretty(out io.Writer, info versionInfo, opts versionOptions) {
	shown := info.Version
	if opts.color && shown == strings.TrimSpace(version.Version) {
		shown = version.Colored()
	}
	fmt.Fprintf(out, "%s %s, %s\n", info.Tool, shown, info.Tagline)
	for _, row := range [][2]string{
		{"stubs:  ", info.Stubs},
		{"commit: ", info.GitCommit},
		{"message:", info.GitMessage},
		{"built:  ", info.BuildDate},
	} {
		if row[1] != "" {
			fmt.Fprintln(out, row[0], row[1])
		}
	}
	if opts.brief() {
		fmt.Fprintln(out, "set --stubs, --hash, --message, --date, or --full for more build trivia")
	}
}

func renderVersionJSON(out io.Writer, info versionInfo) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
