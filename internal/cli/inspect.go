package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/squirrel-labs/squirrel-setup/internal/archive"
	"github.com/squirrel-labs/squirrel-setup/internal/bundle"
	"github.com/squirrel-labs/squirrel-setup/internal/config"
	"github.com/squirrel-labs/squirrel-setup/internal/preflight"
	"github.com/squirrel-labs/squirrel-setup/internal/selfmap"
)

var (
	inspectOutput  string
	inspectEntries bool
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "text", "Output format: text, yaml or json")
	inspectCmd.Flags().BoolVar(&inspectEntries, "entries", false, "List every file in the embedded package")
	rootCmd.AddCommand(inspectCmd)
}

type entryReport struct {
	Name string `json:"name" yaml:"name"`
	Size uint64 `json:"size" yaml:"size"`
}

type inspectReport struct {
	Path           string        `json:"path" yaml:"path"`
	Size           int64         `json:"size" yaml:"size"`
	Stamped        bool          `json:"stamped" yaml:"stamped"`
	MarkerPosition int64         `json:"markerPosition" yaml:"marker_position"`
	Marker         bundle.Marker `json:"marker" yaml:"marker"`
	PackageSize    string        `json:"packageSize,omitempty" yaml:"package_size,omitempty"`
	FileCount      int           `json:"fileCount,omitempty" yaml:"file_count,omitempty"`
	Updater        string        `json:"updater,omitempty" yaml:"updater,omitempty"`
	RequiredSpace  string        `json:"requiredSpace,omitempty" yaml:"required_space,omitempty"`
	Entries        []entryReport `json:"entries,omitempty" yaml:"entries,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <setup.exe>",
	Short: "Show the bundle marker and package of a setup program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := inspect(args[0], config.Current())
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), report, inspectOutput)
	},
}

func inspect(path string, s config.Settings) (*inspectReport, error) {
	img, err := selfmap.MapFile(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	r := &inspectReport{Path: path, Size: img.Len(), MarkerPosition: -1}
	m, pos, err := bundle.Find(img, img.Len())
	if errors.Is(err, bundle.ErrMarkerNotFound) {
		return r, nil
	}
	r.Marker, r.MarkerPosition = m, pos
	if err != nil {
		return r, err
	}
	r.Stamped = m.IsBundle()
	if !r.Stamped {
		return r, nil
	}

	view, err := img.Slice(m.Offset, m.Length)
	if err != nil {
		return r, err
	}
	ar, err := archive.Open(view, view.Size())
	if err != nil {
		return r, err
	}

	r.PackageSize = preflight.PrettyBytes(uint64(m.Length))
	r.FileCount = ar.Len()
	policy := preflight.Policy{Overhead: s.SpaceOverhead, Multiplier: s.SpaceMultiplier}
	r.RequiredSpace = preflight.PrettyBytes(uint64(policy.Required(m.Length)))
	if e, err := ar.Find(archive.NameHasSuffix(s.UpdaterName, s.UpdaterFoldCase)); err == nil {
		r.Updater = e.Name
	}
	if inspectEntries {
		for e := range ar.Entries() {
			if !e.IsDir {
				r.Entries = append(r.Entries, entryReport{Name: e.Name, Size: e.UncompressedSize})
			}
		}
	}
	return r, nil
}

func writeReport(w io.Writer, r *inspectReport, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		return enc.Close()
	case "text":
		fmt.Fprintf(w, "File:     %s (%s)\n", r.Path, preflight.PrettyBytes(uint64(r.Size)))
		switch {
		case r.MarkerPosition < 0:
			fmt.Fprintln(w, "Marker:   not found (not a setup template)")
			return nil
		case !r.Stamped:
			fmt.Fprintf(w, "Marker:   at %d, empty (template without a package)\n", r.MarkerPosition)
			return nil
		}
		fmt.Fprintf(w, "Marker:   at %d, offset %d, length %d\n", r.MarkerPosition, r.Marker.Offset, r.Marker.Length)
		fmt.Fprintf(w, "Package:  %s, %d entries\n", r.PackageSize, r.FileCount)
		if r.Updater == "" {
			fmt.Fprintln(w, "Updater:  missing")
		} else {
			fmt.Fprintf(w, "Updater:  %s\n", r.Updater)
		}
		fmt.Fprintf(w, "Requires: %s free\n", r.RequiredSpace)
		for _, e := range r.Entries {
			fmt.Fprintf(w, "  %10d  %s\n", e.Size, e.Name)
		}
	default:
		return fmt.Errorf("unknown output format %q (want text, yaml or json)", format)
	}
	return nil
}
