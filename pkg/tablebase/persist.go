package tablebase

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PersistenceError reports a malformed tablebase file or a failed
// write/read, distinct from a RulesEngineError since it names an I/O or
// format problem rather than an internal invariant violation.
type PersistenceError struct {
	Reason string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("tablebase: %v", e.Reason)
}

// Write emits one line per key, "<depth> <placement> <side>", where
// "<placement> <side>" together are exactly the key's canonical string
// form -- so a line round-trips through strings.Fields into (depth, key).
func Write(w io.Writer, tb *Tablebase) error {
	bw := bufio.NewWriter(w)
	for d, layer := range tb.Layers {
		for key := range layer {
			if _, err := fmt.Fprintf(bw, "%d %s\n", d, key); err != nil {
				return &PersistenceError{Reason: err.Error()}
			}
		}
	}
	return bw.Flush()
}

// Read parses the format Write produces. Lines are not required to be
// grouped or sorted by depth; Read reconstructs Layers from whatever
// depth each line names.
func Read(r io.Reader) (*Tablebase, error) {
	tb := newTablebase()
	layers := map[int]map[string]struct{}{}
	maxDepth := -1

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, &PersistenceError{Reason: fmt.Sprintf("malformed line %q: want 3 fields, got %d", line, len(fields))}
		}
		depth, err := strconv.Atoi(fields[0])
		if err != nil || depth < 0 {
			return nil, &PersistenceError{Reason: fmt.Sprintf("malformed depth in line %q", line)}
		}
		key := fields[1] + " " + fields[2]

		if layers[depth] == nil {
			layers[depth] = map[string]struct{}{}
		}
		layers[depth][key] = struct{}{}
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &PersistenceError{Reason: err.Error()}
	}

	for d := 0; d <= maxDepth; d++ {
		layer := layers[d]
		if layer == nil {
			layer = map[string]struct{}{}
		}
		tb.appendLayer(layer)
	}
	return tb, nil
}
