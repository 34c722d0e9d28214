package build

import (
	"fmt"

	wad "github.com/stuarthighley/wadforge"
)

// Store is the explicit memoizing layer between the archive and the
// script host. A map decodes on first access and the same instance comes
// back on every later request; writes happen only through Put, which
// routes the encoded lump group back into the archive.
type Store struct {
	archive *wad.WAD
	levels  map[string]*wad.Level
}

func NewStore(archive *wad.WAD) *Store {
	return &Store{
		archive: archive,
		levels:  map[string]*wad.Level{},
	}
}

// MapNames lists the marker names of every well-formed map lump group, in
// archive order.
func (s *Store) MapNames() []string {
	markers := s.archive.MapMarkers()
	names := make([]string, len(markers))
	for i, idx := range markers {
		names[i] = s.archive.LumpAt(idx).Name
	}
	return names
}

// GetOrLoad returns the named map, decoding its lump group on first
// access and the cached instance thereafter.
func (s *Store) GetOrLoad(name string) (*wad.Level, error) {
	if level, ok := s.levels[name]; ok {
		return level, nil
	}
	index, ok := s.archive.LumpIndex(name)
	if !ok {
		return nil, fmt.Errorf("%w: no lump named %s", wad.ErrMissingMarker, name)
	}
	group, err := s.archive.MapLumps(index)
	if err != nil {
		return nil, err
	}
	level, err := wad.LevelFromLumps(group)
	if err != nil {
		return nil, err
	}
	s.levels[name] = level
	return level, nil
}

// Put encodes the level and replaces its lump group in the archive, or
// appends a brand-new group when the marker does not exist yet. The cache
// is updated so a later GetOrLoad sees exactly what was written.
func (s *Store) Put(level *wad.Level) error {
	if err := s.archive.SetMapLumps(level.ToLumps()); err != nil {
		return err
	}
	s.levels[level.Name] = level
	return nil
}
