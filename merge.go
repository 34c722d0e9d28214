package wad

// Append merges src's entities into l, the copy/paste-style composition
// mutation scripts use. Things, vertexes and sectors copy unmodified;
// sides and lines have their cross references renumbered by the pre-merge
// slice lengths so src's geometry lands intact after l's. All offsets are
// captured before any append, never incrementally.
func (l *Level) Append(src *Level) {
	vertexBase := len(l.Vertexes)
	sideBase := len(l.Sides)
	sectorBase := len(l.Sectors)

	for _, t := range src.Things {
		l.Things = append(l.Things, t.Clone())
	}
	for _, v := range src.Vertexes {
		l.Vertexes = append(l.Vertexes, v.Clone())
	}
	for _, s := range src.Sides {
		s = s.Clone()
		s.Sector += sectorBase
		l.Sides = append(l.Sides, s)
	}
	for _, s := range src.Sectors {
		l.Sectors = append(l.Sectors, s.Clone())
	}
	for _, line := range src.Lines {
		line = line.Clone()
		line.V1 += vertexBase
		line.V2 += vertexBase
		line.Side1 += sideBase
		if line.Side2 != 0 {
			line.Side2 += sideBase
		}
		l.Lines = append(l.Lines, line)
	}
	logger.Printf("Merged %s into %s", src.Name, l.Name)
}
