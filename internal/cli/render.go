package cli

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"golang.org/x/term"

	"github.com/jmylchreest/wallhue/internal/colour"
	"github.com/jmylchreest/wallhue/internal/schemecache"
)

// Formats handled here rather than by schemecache.
const (
	formatPreview   = "preview"
	formatVariables = "variables"
)

// checkFormat rejects unknown output formats before any work is done.
func checkFormat(format string) error {
	if format == formatPreview || format == formatVariables {
		return nil
	}
	if _, err := schemecache.ParseFormat(format); err != nil {
		return fmt.Errorf("%w (or %s, %s)", err, formatPreview, formatVariables)
	}
	return nil
}

// render encodes s in one of the schemecache formats, as a preview or as
// the template variable table. Previews use ANSI colour only when w is a
// terminal.
func render(w io.Writer, s *colour.Scheme, format string) error {
	if format == formatVariables {
		vars := s.Variables()
		tbl := newTable("VARIABLE", "VALUE")
		for _, name := range slices.Sorted(maps.Keys(vars)) {
			tbl.addRow(name, vars[name])
		}
		_, err := io.WriteString(w, tbl.render())
		return err
	}
	if format == formatPreview {
		if isTerminal(w) {
			_, err := fmt.Fprintln(w, s.Preview())
			return err
		}
		_, err := fmt.Fprintln(w, s.PlainPreview())
		return err
	}

	f, err := schemecache.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("%w (or %s, %s)", err, formatPreview, formatVariables)
	}
	data, err := schemecache.Encode(s, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeOutput renders into path, or into w when path is empty. The file
// is only touched once rendering has succeeded.
func writeOutput(w io.Writer, path string, s *colour.Scheme, format string) error {
	if path == "" {
		return render(w, s, format)
	}

	var buf bytes.Buffer
	if err := render(&buf, s, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { // #nosec G306 - Scheme output is read by other programs
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
