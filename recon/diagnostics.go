package recon

import (
	"maps"
	"slices"
)

// Diagnostics accumulates messages per source file.
//
// Files keep the order in which they first received a message and messages keep
// discovery order. A file without messages never appears. The zero value is empty and
// ready to use.
//
// Diagnostics has value semantics: Append and Merge return a new value and never
// change the receiver, so a value can be shared between goroutines once built.
type Diagnostics struct {
	files    []string
	messages map[string][]string
}

// DiagnosticsFromMap builds an accumulator from a plain map. Go maps carry no order, so
// files are ordered by name.
func DiagnosticsFromMap(m map[string][]string) Diagnostics {
	var out Diagnostics
	for _, file := range slices.Sorted(maps.Keys(m)) {
		out = out.Append(file, m[file]...)
	}
	return out
}

// Append returns a copy of d with msgs added under file.
func (d Diagnostics) Append(file string, msgs ...string) Diagnostics {
	if len(msgs) == 0 {
		return d
	}

	next := Diagnostics{
		files:    d.files,
		messages: make(map[string][]string, len(d.messages)+1),
	}
	maps.Copy(next.messages, d.messages)

	existing, ok := d.messages[file]
	if !ok {
		next.files = append(slices.Clip(d.files), file)
	}
	// Clip forces a fresh backing array so d's slice is never written through.
	next.messages[file] = append(slices.Clip(existing), msgs...)
	return next
}

// Merge returns d followed by other: other's messages are appended per file and files
// new to d are added in other's order.
func (d Diagnostics) Merge(other Diagnostics) Diagnostics {
	out := d
	for _, file := range other.files {
		out = out.Append(file, other.messages[file]...)
	}
	return out
}

// Files returns the files with at least one message, in discovery order.
func (d Diagnostics) Files() []string {
	return slices.Clone(d.files)
}

// Messages returns the messages recorded for file.
func (d Diagnostics) Messages(file string) []string {
	return slices.Clone(d.messages[file])
}

// Len returns the total number of messages.
func (d Diagnostics) Len() int {
	n := 0
	for _, msgs := range d.messages {
		n += len(msgs)
	}
	return n
}

// Empty reports whether no message has been recorded.
func (d Diagnostics) Empty() bool {
	return len(d.files) == 0
}

// Map returns the diagnostics as file -> messages.
func (d Diagnostics) Map() map[string][]string {
	out := make(map[string][]string, len(d.messages))
	for file, msgs := range d.messages {
		out[file] = slices.Clone(msgs)
	}
	return out
}
