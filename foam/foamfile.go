// Package foam writes the OpenFOAM polyMesh file set (points, faces, owner,
// neighbour, boundary, cell/face sets and zones) from a grid.Model.
package foam

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// countFieldWidth is the number of characters reserved for the item count
// written near the top of every file. Close seeks back and patches it.
const countFieldWidth = 10

// FoamFile is the framed text writer underlying every polyMesh artifact:
// a FoamFile header, a fixed-width slot for the item count, and a
// parenthesized list body. Specializations embed it and supply their own
// record formatting; onClose lets a specialization finish its last record
// before the closing delimiter is written.
type FoamFile struct {
	Class    string
	Object   string
	Location string
	Version  string
	Format   string

	onClose func(*FoamFile)

	f        *os.File
	countPos int64
	numItems int
}

// NewFoamFile creates a writer for one polyMesh object. An empty location
// defaults to "constant/polyMesh".
func NewFoamFile(class, object, location string) *FoamFile {
	if location == "" {
		location = "constant/polyMesh"
	}
	return &FoamFile{
		Class:    class,
		Object:   object,
		Location: location,
		Version:  "2.0",
		Format:   "ascii",
	}
}

// Create truncates/creates the target file in dir, writes the header,
// reserves the item count slot and opens the list body. On failure the
// writer stays inert: all subsequent writes are no-ops.
func (ff *FoamFile) Create(dir string) error {
	ff.Close()
	ff.numItems = 0
	f, err := os.Create(filepath.Join(dir, ff.Object))
	if err != nil {
		return fmt.Errorf("foam: create %s: %w", ff.Object, err)
	}
	ff.f = f
	ff.writeHeader()
	ff.countPos, _ = f.Seek(0, io.SeekCurrent)
	fmt.Fprintf(f, "%-*d\n", countFieldWidth, 0)
	fmt.Fprintln(f, "(")
	return nil
}

// IsOpen reports whether the file is open for writing.
func (ff *FoamFile) IsOpen() bool { return ff.f != nil }

// Items returns the number of records written so far.
func (ff *FoamFile) Items() int { return ff.numItems }

// IncrItems advances the item counter by one.
func (ff *FoamFile) IncrItems() { ff.numItems++ }

// Printf appends formatted text to the file body. No-op when closed.
func (ff *FoamFile) Printf(format string, args ...interface{}) {
	if ff.f != nil {
		fmt.Fprintf(ff.f, format, args...)
	}
}

// WriteString appends s to the file body. No-op when closed.
func (ff *FoamFile) WriteString(s string) {
	if ff.f != nil {
		ff.f.WriteString(s)
	}
}

// Close patches the reserved item count, runs the onClose hook, writes the
// closing delimiter and releases the handle. Closing an already closed
// writer is a no-op, so the count field is patched exactly once.
func (ff *FoamFile) Close() error {
	if ff.f == nil {
		return nil
	}
	savePos, err := ff.f.Seek(0, io.SeekCurrent)
	if err == nil {
		if _, err = ff.f.Seek(ff.countPos, io.SeekStart); err == nil {
			fmt.Fprintf(ff.f, "%-*d", countFieldWidth, ff.numItems)
			_, err = ff.f.Seek(savePos, io.SeekStart)
		}
	}
	if ff.onClose != nil {
		ff.onClose(ff)
	}
	fmt.Fprintln(ff.f, ")")
	cerr := ff.f.Close()
	ff.f = nil
	if err != nil {
		return fmt.Errorf("foam: patch item count in %s: %w", ff.Object, err)
	}
	if cerr != nil {
		return fmt.Errorf("foam: close %s: %w", ff.Object, cerr)
	}
	return nil
}

func (ff *FoamFile) writeHeader() {
	ff.Printf("FoamFile\n")
	ff.Printf("{\n")
	ff.Printf("    version     %s;\n", ff.Version)
	ff.Printf("    format      %s;\n", ff.Format)
	ff.Printf("    class       %s;\n", ff.Class)
	ff.Printf("    location    \"%s\";\n", ff.Location)
	ff.Printf("    object      %s;\n", ff.Object)
	ff.Printf("}\n\n")
}
