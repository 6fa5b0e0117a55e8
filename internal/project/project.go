package project

import (
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/scrylabs/scry/internal/parser"
	"github.com/scrylabs/scry/internal/types"
)

// Project is the parsed, in-memory view of one source tree. Units are keyed
// by path relative to Root. A Project is immutable after population; every
// accessor is safe for concurrent readers.
type Project struct {
	Root        string
	Units       map[string]*parser.Unit
	Diagnostics []types.Diagnostic
	TotalBytes  int64
}

// Paths returns unit paths in sorted order. Every consumer iterates in this
// order so identical projects always yield identical output.
func (p *Project) Paths() []string {
	paths := make([]string, 0, len(p.Units))
	for path := range p.Units {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Unit returns the parsed unit for a relative path, or nil.
func (p *Project) Unit(relPath string) *parser.Unit {
	return p.Units[relPath]
}

// FileCount reports the number of successfully parsed units.
func (p *Project) FileCount() int {
	return len(p.Units)
}

// ContentHash digests every unit hash in path order, giving a stable
// fingerprint of the project content.
func (p *Project) ContentHash() uint64 {
	d := xxhash.New()
	for _, path := range p.Paths() {
		d.WriteString(path)
		var buf [8]byte
		h := p.Units[path].Hash
		for i := 0; i < 8; i++ {
			buf[i] = byte(h >> (8 * i))
		}
		d.Write(buf[:])
	}
	return d.Sum64()
}
