package linear

import (
	"bytes"
	"strings"
)

// SegmentKind discriminates the three shapes a parsed region can take
// (§4.6.1).
type SegmentKind int

const (
	// SegmentLine is a single literal line of content.
	SegmentLine SegmentKind = iota
	// SegmentConflict is a well-formed CONFLICT region: two or more
	// alternatives separated by a bare "=======" line.
	SegmentConflict
	// SegmentCycle is a well-formed CYCLE region: an ordered run of
	// lines that must be broken before the file can be diffed back
	// (§4.6.3).
	SegmentCycle
)

// Segment is one parsed unit of a linear file.
type Segment struct {
	Kind SegmentKind

	// Text holds the line's content (SegmentLine only), without its
	// trailing newline.
	Text string

	// ID holds the marker's uuid (SegmentConflict and SegmentCycle
	// only).
	ID string

	// Alternatives holds each branch's line sequence (SegmentConflict
	// only).
	Alternatives [][]Segment

	// Lines holds the enclosed sequence (SegmentCycle only).
	Lines []Segment
}

const (
	conflictStart = "<<<<<<< CONFLICT "
	conflictSep   = "======="
	conflictEnd   = ">>>>>>> CONFLICT"
	cycleStart    = "<<<<<<< CYCLE "
	cycleEnd      = ">>>>>>> CYCLE"
)

// Parse reads data into a flat sequence of top-level segments (§4.6.1).
// A marker line that never finds its matching close (truncated input, or
// a hand edit that broke the pairing) is not an error: parsing recovers
// by treating the opening marker, and everything that follows up to end
// of input, as literal lines - the same policy used for any other text
// a user might type.
func Parse(data []byte) []Segment {
	lines := splitLines(data)
	segs, _ := parseRange(lines, 0)
	return segs
}

// parseRange parses lines[i:] as a sequence of top-level segments up to
// end of input, and returns them with the index it stopped at, which is
// always len(lines).
func parseRange(lines []string, i int) ([]Segment, int) {
	var segs []Segment
	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, conflictStart):
			seg, next, ok := parseConflict(lines, i)
			if !ok {
				segs = append(segs, literalFrom(lines, i)...)
				return segs, len(lines)
			}
			segs = append(segs, seg)
			i = next
		case strings.HasPrefix(line, cycleStart):
			seg, next, ok := parseCycle(lines, i)
			if !ok {
				segs = append(segs, literalFrom(lines, i)...)
				return segs, len(lines)
			}
			segs = append(segs, seg)
			i = next
		default:
			segs = append(segs, Segment{Kind: SegmentLine, Text: line})
			i++
		}
	}
	return segs, i
}

// parseConflict attempts to parse a well-formed CONFLICT region starting
// at lines[start]. ok is false if no matching terminator is found before
// end of input.
func parseConflict(lines []string, start int) (Segment, int, bool) {
	id := strings.TrimPrefix(lines[start], conflictStart)
	i := start + 1

	var alternatives [][]Segment
	var current []Segment
	for i < len(lines) {
		line := lines[i]
		if line == conflictSep {
			alternatives = append(alternatives, current)
			current = nil
			i++
			continue
		}
		if line == conflictEnd {
			alternatives = append(alternatives, current)
			return Segment{Kind: SegmentConflict, ID: id, Alternatives: alternatives}, i + 1, true
		}
		if strings.HasPrefix(line, cycleStart) {
			seg, next, ok := parseCycle(lines, i)
			if !ok {
				return Segment{}, 0, false
			}
			current = append(current, seg)
			i = next
			continue
		}
		current = append(current, Segment{Kind: SegmentLine, Text: line})
		i++
	}
	return Segment{}, 0, false
}

// parseCycle attempts to parse a well-formed CYCLE region starting at
// lines[start].
func parseCycle(lines []string, start int) (Segment, int, bool) {
	id := strings.TrimPrefix(lines[start], cycleStart)
	i := start + 1

	var members []Segment
	for i < len(lines) {
		line := lines[i]
		if line == cycleEnd {
			return Segment{Kind: SegmentCycle, ID: id, Lines: members}, i + 1, true
		}
		members = append(members, Segment{Kind: SegmentLine, Text: line})
		i++
	}
	return Segment{}, 0, false
}

func literalFrom(lines []string, i int) []Segment {
	segs := make([]Segment, 0, len(lines)-i)
	for ; i < len(lines); i++ {
		segs = append(segs, Segment{Kind: SegmentLine, Text: lines[i]})
	}
	return segs
}

// splitLines splits data on '\n'. A trailing '\n' is a separator, not
// content (§4.5.1 adds no trailing newline unless the file's last line
// carries one itself), so a final empty element it would otherwise
// produce is dropped rather than kept as a phantom empty last line.
func splitLines(data []byte) []string {
	text := string(bytes.TrimSuffix(data, []byte("\n")))
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Flatten collapses segs into a flat list of plain-text lines, rendering
// conflict markers and cycle markers back out literally. Used when an
// edited file still contains regions the diff stage has decided to treat
// as ordinary text rather than structure (§4.6.3).
func Flatten(segs []Segment) []string {
	var out []string
	for _, s := range segs {
		switch s.Kind {
		case SegmentLine:
			out = append(out, s.Text)
		case SegmentConflict:
			out = append(out, conflictStart+s.ID)
			for i, alt := range s.Alternatives {
				if i > 0 {
					out = append(out, conflictSep)
				}
				out = append(out, Flatten(alt)...)
			}
			out = append(out, conflictEnd)
		case SegmentCycle:
			out = append(out, cycleStart+s.ID)
			out = append(out, Flatten(s.Lines)...)
			out = append(out, cycleEnd)
		}
	}
	return out
}

// HasUnresolvedCycle reports whether segs still contains a well-formed
// CYCLE region, which must be manually broken before a diff can be taken
// (§4.6.3).
func HasUnresolvedCycle(segs []Segment) bool {
	for _, s := range segs {
		switch s.Kind {
		case SegmentCycle:
			return true
		case SegmentConflict:
			for _, alt := range s.Alternatives {
				if HasUnresolvedCycle(alt) {
					return true
				}
			}
		}
	}
	return false
}
