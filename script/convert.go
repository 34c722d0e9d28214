package script

import (
	"fmt"

	"github.com/d5/tengo/v2"

	wad "github.com/stuarthighley/wadforge"
)

// Levels cross the script boundary as plain Tengo data: a map with one
// array per entity kind, each record a map of named fields. Scripts
// mutate the data freely; conversion back re-checks every field.

func levelToObject(l *wad.Level) *tengo.Map {
	things := make([]tengo.Object, len(l.Things))
	for i, t := range l.Things {
		things[i] = record(map[string]int64{
			"x": int64(t.X), "y": int64(t.Y), "angle": int64(t.Angle),
			"type": int64(t.Type), "flags": int64(t.Flags),
		}, nil)
	}
	lines := make([]tengo.Object, len(l.Lines))
	for i, ln := range l.Lines {
		lines[i] = record(map[string]int64{
			"v1": int64(ln.V1), "v2": int64(ln.V2), "flags": int64(ln.Flags),
			"action": int64(ln.Action), "tag": int64(ln.Tag),
			"side1": int64(ln.Side1), "side2": int64(ln.Side2),
		}, nil)
	}
	sides := make([]tengo.Object, len(l.Sides))
	for i, s := range l.Sides {
		sides[i] = record(map[string]int64{
			"x_offset": int64(s.XOffset), "y_offset": int64(s.YOffset),
			"sector": int64(s.Sector),
		}, map[string]string{
			"upper": s.Upper, "middle": s.Middle, "lower": s.Lower,
		})
	}
	vertexes := make([]tengo.Object, len(l.Vertexes))
	for i, v := range l.Vertexes {
		vertexes[i] = record(map[string]int64{"x": int64(v.X), "y": int64(v.Y)}, nil)
	}
	sectors := make([]tengo.Object, len(l.Sectors))
	for i, s := range l.Sectors {
		sectors[i] = record(map[string]int64{
			"floor_height": int64(s.FloorHeight), "ceiling_height": int64(s.CeilingHeight),
			"light": int64(s.LightLevel), "special": int64(s.Special), "tag": int64(s.Tag),
		}, map[string]string{
			"floor_texture": s.FloorTexture, "ceiling_texture": s.CeilingTexture,
		})
	}

	return &tengo.Map{Value: map[string]tengo.Object{
		"things":   &tengo.Array{Value: things},
		"linedefs": &tengo.Array{Value: lines},
		"sidedefs": &tengo.Array{Value: sides},
		"vertexes": &tengo.Array{Value: vertexes},
		"sectors":  &tengo.Array{Value: sectors},
	}}
}

func record(ints map[string]int64, strs map[string]string) *tengo.Map {
	value := make(map[string]tengo.Object, len(ints)+len(strs))
	for k, v := range ints {
		value[k] = &tengo.Int{Value: v}
	}
	for k, v := range strs {
		value[k] = &tengo.String{Value: v}
	}
	return &tengo.Map{Value: value}
}

// fields wraps one script-side record for typed access.
type fields struct {
	mapName string
	kind    string
	index   int
	value   map[string]tengo.Object
}

func (f fields) intVal(key string) (int, error) {
	obj, ok := f.value[key]
	if !ok {
		return 0, fmt.Errorf("script: %s %s[%d]: missing field %q", f.mapName, f.kind, f.index, key)
	}
	switch v := obj.(type) {
	case *tengo.Int:
		return int(v.Value), nil
	case *tengo.Float:
		return int(v.Value), nil
	}
	return 0, fmt.Errorf("script: %s %s[%d]: field %q is not a number", f.mapName, f.kind, f.index, key)
}

func (f fields) strVal(key string) (string, error) {
	obj, ok := f.value[key]
	if !ok {
		return "", fmt.Errorf("script: %s %s[%d]: missing field %q", f.mapName, f.kind, f.index, key)
	}
	s, ok := tengo.ToString(obj)
	if !ok {
		return "", fmt.Errorf("script: %s %s[%d]: field %q is not a string", f.mapName, f.kind, f.index, key)
	}
	return s, nil
}

func levelFromObject(name string, obj tengo.Object) (*wad.Level, error) {
	root, ok := obj.(*tengo.Map)
	if !ok {
		return nil, fmt.Errorf("script: map %s is no longer a map object", name)
	}
	level := &wad.Level{Name: name}

	if err := eachRecord(root, name, "things", func(f fields) error {
		var t wad.Thing
		var typ, flags int
		var err error
		if t.X, err = f.intVal("x"); err != nil {
			return err
		}
		if t.Y, err = f.intVal("y"); err != nil {
			return err
		}
		if t.Angle, err = f.intVal("angle"); err != nil {
			return err
		}
		if typ, err = f.intVal("type"); err != nil {
			return err
		}
		if flags, err = f.intVal("flags"); err != nil {
			return err
		}
		t.Type, t.Flags = uint16(typ), uint16(flags)
		level.Things = append(level.Things, t)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRecord(root, name, "linedefs", func(f fields) error {
		var ln wad.Line
		var flags, action, tag int
		var err error
		if ln.V1, err = f.intVal("v1"); err != nil {
			return err
		}
		if ln.V2, err = f.intVal("v2"); err != nil {
			return err
		}
		if flags, err = f.intVal("flags"); err != nil {
			return err
		}
		if action, err = f.intVal("action"); err != nil {
			return err
		}
		if tag, err = f.intVal("tag"); err != nil {
			return err
		}
		if ln.Side1, err = f.intVal("side1"); err != nil {
			return err
		}
		if ln.Side2, err = f.intVal("side2"); err != nil {
			return err
		}
		ln.Flags, ln.Action, ln.Tag = uint16(flags), uint16(action), uint16(tag)
		level.Lines = append(level.Lines, ln)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRecord(root, name, "sidedefs", func(f fields) error {
		var s wad.Side
		var err error
		if s.XOffset, err = f.intVal("x_offset"); err != nil {
			return err
		}
		if s.YOffset, err = f.intVal("y_offset"); err != nil {
			return err
		}
		if s.Upper, err = f.strVal("upper"); err != nil {
			return err
		}
		if s.Middle, err = f.strVal("middle"); err != nil {
			return err
		}
		if s.Lower, err = f.strVal("lower"); err != nil {
			return err
		}
		if s.Sector, err = f.intVal("sector"); err != nil {
			return err
		}
		level.Sides = append(level.Sides, s)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRecord(root, name, "vertexes", func(f fields) error {
		var v wad.Vertex
		var err error
		if v.X, err = f.intVal("x"); err != nil {
			return err
		}
		if v.Y, err = f.intVal("y"); err != nil {
			return err
		}
		level.Vertexes = append(level.Vertexes, v)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRecord(root, name, "sectors", func(f fields) error {
		var s wad.Sector
		var special, tag int
		var err error
		if s.FloorHeight, err = f.intVal("floor_height"); err != nil {
			return err
		}
		if s.CeilingHeight, err = f.intVal("ceiling_height"); err != nil {
			return err
		}
		if s.FloorTexture, err = f.strVal("floor_texture"); err != nil {
			return err
		}
		if s.CeilingTexture, err = f.strVal("ceiling_texture"); err != nil {
			return err
		}
		if s.LightLevel, err = f.intVal("light"); err != nil {
			return err
		}
		if special, err = f.intVal("special"); err != nil {
			return err
		}
		if tag, err = f.intVal("tag"); err != nil {
			return err
		}
		s.Special, s.Tag = uint16(special), uint16(tag)
		level.Sectors = append(level.Sectors, s)
		return nil
	}); err != nil {
		return nil, err
	}

	return level, nil
}

func eachRecord(root *tengo.Map, mapName, kind string, fn func(fields) error) error {
	obj, ok := root.Value[kind]
	if !ok {
		return fmt.Errorf("script: map %s: missing %s array", mapName, kind)
	}

	var elems []tengo.Object
	switch arr := obj.(type) {
	case *tengo.Array:
		elems = arr.Value
	case *tengo.ImmutableArray:
		elems = arr.Value
	default:
		return fmt.Errorf("script: map %s: %s is not an array", mapName, kind)
	}

	for i, elem := range elems {
		var value map[string]tengo.Object
		switch rec := elem.(type) {
		case *tengo.Map:
			value = rec.Value
		case *tengo.ImmutableMap:
			value = rec.Value
		default:
			return fmt.Errorf("script: map %s: %s[%d] is not a record", mapName, kind, i)
		}
		if err := fn(fields{mapName: mapName, kind: kind, index: i, value: value}); err != nil {
			return err
		}
	}
	return nil
}
