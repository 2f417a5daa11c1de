package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// SequenceDir holds text video sequences, one sequences/<name>.txt each.
const SequenceDir = "sequences"

// ErrUnknownSequence is returned by Sequence when no file exists.
var ErrUnknownSequence = errors.New("registry: unknown sequence")

// Sequence returns the lines of a video sequence.
func (c *Catalog) Sequence(name string) ([]string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("registry: invalid sequence name %q", name)
	}
	data, err := fs.ReadFile(c.fsys, path.Join(SequenceDir, name+".txt"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w %q", ErrUnknownSequence, name)
	}
	if err != nil {
		return nil, fmt.Errorf("registry: sequence %s: %w", name, err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
}
