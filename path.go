package avrojson

import "strings"

// fieldPath tracks the dotted position of the value currently being converted.
// It is local to one top-level conversion call; concurrent calls each build
// their own, so the engine needs no locking.
type fieldPath struct {
	segs []string
}

// enter pushes name and returns the matching release. The push is skipped when
// the top segment already equals name: union resolution re-enters conversion
// for the same field once per candidate and must not duplicate the segment.
// Callers defer the release so the pop runs on every exit, including errors.
func (p *fieldPath) enter(name string) func() {
	if name == "" || (len(p.segs) > 0 && p.segs[len(p.segs)-1] == name) {
		return func() {}
	}
	p.segs = append(p.segs, name)
	return func() { p.segs = p.segs[:len(p.segs)-1] }
}

func (p *fieldPath) String() string { return strings.Join(p.segs, ".") }
