package tinylog

import (
	"fmt"
	"strings"

	"github.com/scigolib/tinylog/internal/frame"
)

// Op identifies whether a Change inserts or deletes a line.
type Op byte

const (
	Insert Op = 'I'
	Delete Op = 'D'
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("unknown(%d)", byte(o))
	}
}

// Change is a single line-level edit: "at line Line, Op the line Content".
// Line numbers are 1-based and refer to the document state at the moment
// the change is applied, not the final document.
type Change struct {
	Line    int
	Op      Op
	Content string
}

// ComputeChanges diffs old against new line by line and returns the
// ordered edits that turn old into new. It walks both documents in
// lockstep: a line present later in new is treated as an insertion ahead
// of schedule, and a line from old with no match remaining in new is a
// deletion - the same greedy strategy the line-diff format this encodes
// was designed around, not a general LCS diff.
func ComputeChanges(oldText, newText string) []Change {
	oldLines := strings.Split(oldText, "\n")
	newLines := strings.Split(newText, "\n")

	var changes []Change
	lineNum := 1

	for len(oldLines) > 0 && len(newLines) > 0 {
		oldL := oldLines[0]
		newL := newLines[0]

		if oldL == newL {
			oldLines = oldLines[1:]
			newLines = newLines[1:]
			lineNum++
			continue
		}

		if !containsString(newLines[1:], oldL) {
			// old's head line was deleted.
			changes = append(changes, Change{Line: lineNum, Op: Delete, Content: oldL})
			oldLines = oldLines[1:]
			continue
		}

		// old's head line occurs later in new -> new's head was inserted.
		changes = append(changes, Change{Line: lineNum, Op: Insert, Content: newL})
		newLines = newLines[1:]
		lineNum++
	}

	for _, l := range oldLines {
		changes = append(changes, Change{Line: lineNum, Op: Delete, Content: l})
	}
	for _, l := range newLines {
		changes = append(changes, Change{Line: lineNum, Op: Insert, Content: l})
		lineNum++
	}

	return changes
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// Encode serializes changes into the wire format a version packet
// carries: a 4-byte big-endian dependency version number, followed by one
// varint-length-prefixed record per change (each record itself being
// varint(line) ‖ op-byte ‖ content-bytes).
func Encode(changes []Change, dependency uint32) []byte {
	buf := make([]byte, 4)
	buf[0] = byte(dependency >> 24)
	buf[1] = byte(dependency >> 16)
	buf[2] = byte(dependency >> 8)
	buf[3] = byte(dependency)

	for _, c := range changes {
		rec := append(frame.PutVarint(uint64(c.Line)), byte(c.Op))
		rec = append(rec, []byte(c.Content)...)
		buf = append(buf, frame.PutVarint(uint64(len(rec)))...)
		buf = append(buf, rec...)
	}
	return buf
}

// Decode is the inverse of Encode.
func Decode(b []byte) ([]Change, uint32, error) {
	if len(b) < 4 {
		return nil, 0, fmt.Errorf("tinylog: encoded diff too short (%d bytes)", len(b))
	}
	dependency := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	b = b[4:]

	var changes []Change
	for len(b) > 0 {
		size, n := frame.Varint(b)
		b = b[n:]
		if uint64(len(b)) < size {
			return nil, 0, fmt.Errorf("tinylog: encoded diff record truncated")
		}
		rec := b[:size]
		b = b[size:]

		line, ln := frame.Varint(rec)
		if ln >= len(rec) {
			return nil, 0, fmt.Errorf("tinylog: encoded diff record missing op byte")
		}
		op := Op(rec[ln])
		content := string(rec[ln+1:])
		changes = append(changes, Change{Line: int(line), Op: op, Content: content})
	}
	return changes, dependency, nil
}

// Apply replays changes, in order, against text's lines and returns the
// resulting text. Each change's Line refers to the document as it stands
// at that point in the replay, matching how ComputeChanges numbered them.
func Apply(text string, changes []Change) string {
	lines := strings.Split(text, "\n")

	for _, c := range changes {
		idx := c.Line - 1
		switch c.Op {
		case Insert:
			lines = insertLine(lines, idx, c.Content)
		case Delete:
			lines = deleteLine(lines, idx)
		}
	}
	return strings.Join(lines, "\n")
}

func insertLine(lines []string, idx int, content string) []string {
	if idx < 0 {
		idx = 0
	}
	if idx > len(lines) {
		idx = len(lines)
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:idx]...)
	out = append(out, content)
	out = append(out, lines[idx:]...)
	return out
}

func deleteLine(lines []string, idx int) []string {
	if idx < 0 || idx >= len(lines) {
		return lines
	}
	out := make([]string, 0, len(lines)-1)
	out = append(out, lines[:idx]...)
	out = append(out, lines[idx+1:]...)
	return out
}

// Reverse returns the inverse edit sequence: every insert becomes a
// delete and vice versa, in reverse order, so replaying it against the
// post-change document restores the pre-change one.
func Reverse(changes []Change) []Change {
	out := make([]Change, len(changes))
	for i, c := range changes {
		inv := c
		if c.Op == Delete {
			inv.Op = Insert
		} else {
			inv.Op = Delete
		}
		out[len(changes)-1-i] = inv
	}
	return out
}
