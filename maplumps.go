package wad

import (
	"fmt"
	"slices"
)

// A map lump group is the fixed-schema run of lumps behind a zero-length
// map marker. The walk below follows the engine's lump order: four
// geometry lumps, three node-builder products, SECTORS, then two more
// node-builder products at the tail. Only the "keep" entries are geometry
// the codec reads; the rest are derived artifacts that a node builder
// regenerates from scratch.
type mapLumpRule struct {
	name string
	keep bool
}

var mapLumpTable = []mapLumpRule{
	{"THINGS", true},
	{"LINEDEFS", true},
	{"SIDEDEFS", true},
	{"VERTEXES", true},
	{"SEGS", false},
	{"SSECTORS", false},
	{"NODES", false},
	{"SECTORS", true},
	{"REJECT", false},
	{"BLOCKMAP", false},
}

// mapGroupNames is the canonical order of the required lumps in an
// extracted group, after the marker.
var mapGroupNames = []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SECTORS"}

// MapLumps extracts the map lump group whose marker sits at index.
// The result is always [marker, THINGS, LINEDEFS, SIDEDEFS, VERTEXES,
// SECTORS]; SEGS, SSECTORS and NODES may be absent from the archive, and
// REJECT/BLOCKMAP are never read. It fails with ErrMissingMarker when the
// marker is non-empty and ErrIncompleteMapGroup when a required lump is
// missing, misnamed, or the archive ends early.
func (w *WAD) MapLumps(index int) ([]Lump, error) {
	if index < 0 || index >= len(w.lumps) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrMissingMarker, index)
	}
	marker := w.lumps[index]
	if !marker.IsMarker() {
		return nil, fmt.Errorf("%w: %s is not empty", ErrMissingMarker, marker.Name)
	}

	group := make([]Lump, 0, len(mapGroupNames)+1)
	group = append(group, marker.clone())
	pos := index + 1
	for _, rule := range mapLumpTable {
		if rule.name == "REJECT" {
			// Everything the codec reads has been satisfied by now.
			break
		}
		if pos < len(w.lumps) && w.lumps[pos].Name == rule.name {
			if rule.keep {
				group = append(group, w.lumps[pos].clone())
			}
			pos++
			continue
		}
		if rule.keep {
			return nil, fmt.Errorf("%w: %s: no %s at lump %d", ErrIncompleteMapGroup, marker.Name, rule.name, pos)
		}
		// Absent build artifact: skip the table entry without consuming input.
	}
	return group, nil
}

// validateMapGroup checks that group is a well-formed extracted map lump
// group: an empty marker followed by the five required lumps in canonical
// order.
func validateMapGroup(group []Lump) error {
	if len(group) != len(mapGroupNames)+1 {
		return fmt.Errorf("%w: group has %d lumps, want %d", ErrIncompleteMapGroup, len(group), len(mapGroupNames)+1)
	}
	if !group[0].IsMarker() {
		return fmt.Errorf("%w: %s is not empty", ErrMissingMarker, group[0].Name)
	}
	for i, name := range mapGroupNames {
		if group[i+1].Name != name {
			return fmt.Errorf("%w: lump %d is %s, want %s", ErrIncompleteMapGroup, i+1, group[i+1].Name, name)
		}
	}
	return nil
}

// ReplaceMapLumps overwrites an existing map's required lumps in place and
// deletes any node-builder products (SEGS, SSECTORS, NODES, REJECT,
// BLOCKMAP) found in the group, since they are stale relative to the new
// geometry. The whole on-disk group is walked and validated before any
// mutation, so a failed replace leaves the archive untouched.
func (w *WAD) ReplaceMapLumps(group []Lump) error {
	if err := validateMapGroup(group); err != nil {
		return err
	}
	index, ok := w.LumpIndex(group[0].Name)
	if !ok {
		return fmt.Errorf("%w: no lump named %s", ErrMissingMarker, group[0].Name)
	}
	if !w.lumps[index].IsMarker() {
		return fmt.Errorf("%w: %s is not empty", ErrMissingMarker, group[0].Name)
	}

	// Walk the full table, recording where every lump lands. Unlike
	// extraction, the walk runs past SECTORS so stale REJECT/BLOCKMAP
	// lumps are found too.
	var keepAt, staleAt []int
	pos := index + 1
	for _, rule := range mapLumpTable {
		if pos < len(w.lumps) && w.lumps[pos].Name == rule.name {
			if rule.keep {
				keepAt = append(keepAt, pos)
			} else {
				staleAt = append(staleAt, pos)
			}
			pos++
			continue
		}
		if rule.keep {
			return fmt.Errorf("%w: %s: no %s at lump %d", ErrIncompleteMapGroup, group[0].Name, rule.name, pos)
		}
	}

	for i, p := range keepAt {
		w.lumps[p] = group[i+1].clone()
	}
	for i := len(staleAt) - 1; i >= 0; i-- {
		w.lumps = slices.Delete(w.lumps, staleAt[i], staleAt[i]+1)
	}
	logger.Printf("Replaced map %s: %v lumps, %v stale artifacts removed", group[0].Name, len(keepAt), len(staleAt))
	return nil
}

// SetMapLumps replaces the map group if its marker exists, else appends a
// brand-new group (marker plus the five required lumps, nothing else) at
// the end of the archive.
func (w *WAD) SetMapLumps(group []Lump) error {
	if err := validateMapGroup(group); err != nil {
		return err
	}
	if _, ok := w.LumpIndex(group[0].Name); !ok {
		w.AppendLumps(group)
		logger.Printf("Added new map %s", group[0].Name)
		return nil
	}
	return w.ReplaceMapLumps(group)
}

// MapMarkers returns the indexes of all lumps that head a well-formed map
// lump group, in archive order.
func (w *WAD) MapMarkers() []int {
	var markers []int
	for i := range w.lumps {
		if _, err := w.MapLumps(i); err == nil {
			markers = append(markers, i)
		}
	}
	return markers
}
