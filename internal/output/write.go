package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/carefinder/listingkit/pkg/errors"
)

// Target describes where and how a command result is written.
type Target struct {
	Format Format
	Path   string // empty writes to Stdout
	Stdout io.Writer
}

// Resolve fills in the format from the output path when none was given and
// falls back to terminal detection.
func (t Target) Resolve() Target {
	if t.Format == "" && t.Path != "" {
		t.Format = FormatFromPath(t.Path)
	}
	if t.Format == "" {
		t.Format = DetectFormat("")
	}
	if t.Stdout == nil {
		t.Stdout = os.Stdout
	}
	return t
}

// Write renders data to the target. Tabular formats use table when it is
// non-nil and data otherwise, so commands can give a flattened view for
// table/csv/xlsx and the full structure for json/yaml.
func (t Target) Write(data any, table *Data) error {
	t = t.Resolve()

	payload := data
	if t.Format.Tabular() && table != nil {
		payload = *table
	}

	formatter := NewFormatter(t.Format)
	if t.Path == "" {
		if t.Format.Binary() && isTerminal(t.Stdout) {
			return errors.NewValidationError("out", t.Format,
				fmt.Sprintf("%s output cannot be written to a terminal; use --out", t.Format))
		}
		return formatter.Format(t.Stdout, payload)
	}

	file, err := os.Create(t.Path)
	if err != nil {
		return errors.WrapIO("create", t.Path, err)
	}
	if err := formatter.Format(file, payload); err != nil {
		_ = file.Close()
		return errors.WrapIO("write", t.Path, err)
	}
	return errors.WrapIO("close", t.Path, file.Close())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// To returns a copy of t that writes to w when no output path is set.
func (t Target) To(w io.Writer) Target {
	t.Stdout = w
	return t
}
