package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/squirrel-labs/squirrel-setup/internal/archive"
	"github.com/squirrel-labs/squirrel-setup/internal/bundle"
	"github.com/squirrel-labs/squirrel-setup/internal/config"
	"github.com/squirrel-labs/squirrel-setup/internal/preflight"
)

var (
	bundleOut      string
	bundleNoVerify bool
)

func init() {
	bundleCmd.Flags().StringVarP(&bundleOut, "out", "o", "", "Write the stamped setup program here (default: <package name>Setup.exe next to the package)")
	bundleCmd.Flags().BoolVar(&bundleNoVerify, "no-verify", false, "Skip checking that the package contains the updater")
	rootCmd.AddCommand(bundleCmd)
}

var bundleCmd = &cobra.Command{
	Use:   "bundle <setup-template> <package>",
	Short: "Embed a package into a setup template",
	Long: `Copy the setup template and append the package to the copy, recording the
package's offset and length in the copy's bundle marker. The template itself
is left untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, m, err := stampSetup(args[0], args[1], bundleOut, !bundleNoVerify, config.Current())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (package at offset %d, %s)\n", out, m.Offset, preflight.PrettyBytes(uint64(m.Length)))
		return nil
	},
}

// stampSetup copies template to out and stamps pkg into the copy. An empty
// out means <package name>Setup.exe next to the package.
func stampSetup(template, pkg, out string, verify bool, s config.Settings) (string, bundle.Marker, error) {
	if verify {
		if err := verifyPackage(pkg, s.UpdaterName, s.UpdaterFoldCase); err != nil {
			return "", bundle.Marker{}, err
		}
	}

	if out == "" {
		base := filepath.Base(pkg)
		out = filepath.Join(filepath.Dir(pkg), base[:len(base)-len(filepath.Ext(base))]+"Setup.exe")
	}
	for _, in := range []string{template, pkg} {
		if sameFile(in, out) {
			return "", bundle.Marker{}, fmt.Errorf("output %s would overwrite input %s", out, in)
		}
	}
	if err := copyFile(template, out); err != nil {
		return "", bundle.Marker{}, err
	}

	m, err := bundle.Stamp(out, pkg)
	if err != nil {
		_ = os.Remove(out)
		return "", bundle.Marker{}, fmt.Errorf("stamping %s: %w", out, err)
	}
	return out, m, nil
}

// sameFile reports whether a and b name the same file. A b that does not
// exist yet is compared by absolute path.
func sameFile(a, b string) bool {
	ai, aerr := os.Stat(a)
	bi, berr := os.Stat(b)
	if aerr == nil && berr == nil {
		return os.SameFile(ai, bi)
	}
	absA, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false
	}
	return absA == absB
}

// verifyPackage checks that pkg is a zip archive holding the updater.
func verifyPackage(pkg, updaterName string, fold bool) error {
	f, err := os.Open(pkg)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat package: %w", err)
	}

	ar, err := archive.Open(f, info.Size())
	if err != nil {
		return fmt.Errorf("%s is not a valid package: %w", pkg, err)
	}
	if _, err := ar.Find(archive.NameHasSuffix(updaterName, fold)); err != nil {
		return fmt.Errorf("%s does not contain %s (use --no-verify to stamp anyway)", pkg, updaterName)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening template: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying template: %w", err)
	}
	return out.Close()
}
