// Package script runs user-supplied map mutation scripts against a WAD
// archive. Scripts are Tengo programs; they see only the map data contract
// (get_map, new_map, merge_maps, map_names) plus Tengo's pure standard
// modules, so they cannot reach the filesystem or spawn processes.
package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	wad "github.com/stuarthighley/wadforge"
)

// Store is the map access a mutation script gets: named levels decoded on
// first request, written back only through an explicit Put.
type Store interface {
	// MapNames lists map marker names in archive order.
	MapNames() []string
	// GetOrLoad returns the named map, decoding it on first access.
	GetOrLoad(name string) (*wad.Level, error)
	// Put writes a level back to the archive.
	Put(level *wad.Level) error
}

// Tengo standard modules without filesystem or process capability.
var safeModules = []string{"math", "text", "times", "rand", "fmt", "json", "base64", "hex"}

// Host executes mutation scripts against a Store.
type Host struct {
	store Store
}

func NewHost(store Store) *Host {
	return &Host{store: store}
}

// Run executes one mutation script. mapName is exposed to the script as
// the global map_name, so a script knows which map it was invoked for.
// When the script completes, every map it touched is validated and written
// back through the store in first-touch order. A script error aborts with
// nothing written back.
func (h *Host) Run(src []byte, mapName string) error {
	var touched []string
	handles := map[string]*tengo.Map{}

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(safeModules...))
	if err := s.Add("map_name", mapName); err != nil {
		return err
	}

	addFn := func(name string, fn tengo.CallableFunc) {
		// Add only fails for invalid values; a UserFunction never is.
		_ = s.Add(name, &tengo.UserFunction{Name: name, Value: fn})
	}

	touch := func(name string, level *wad.Level) *tengo.Map {
		m := levelToObject(level)
		handles[name] = m
		touched = append(touched, name)
		return m
	}

	addFn("get_map", func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg(args, "get_map")
		if err != nil {
			return nil, err
		}
		if m, ok := handles[name]; ok {
			return m, nil
		}
		level, err := h.store.GetOrLoad(name)
		if err != nil {
			return nil, err
		}
		return touch(name, level), nil
	})

	addFn("new_map", func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg(args, "new_map")
		if err != nil {
			return nil, err
		}
		if m, ok := handles[name]; ok {
			return m, nil
		}
		return touch(name, &wad.Level{Name: name}), nil
	})

	addFn("merge_maps", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		dstName, ok := tengo.ToString(args[0])
		if !ok {
			return nil, fmt.Errorf("merge_maps: destination name must be a string")
		}
		srcName, ok := tengo.ToString(args[1])
		if !ok {
			return nil, fmt.Errorf("merge_maps: source name must be a string")
		}
		dstHandle, ok := handles[dstName]
		if !ok {
			return nil, fmt.Errorf("merge_maps: %s was not obtained with get_map or new_map", dstName)
		}
		srcHandle, ok := handles[srcName]
		if !ok {
			return nil, fmt.Errorf("merge_maps: %s was not obtained with get_map or new_map", srcName)
		}

		dst, err := levelFromObject(dstName, dstHandle)
		if err != nil {
			return nil, err
		}
		src, err := levelFromObject(srcName, srcHandle)
		if err != nil {
			return nil, err
		}
		dst.Append(src)

		// The script keeps its existing reference to the destination, so
		// swap the merged contents in behind it.
		dstHandle.Value = levelToObject(dst).Value
		return dstHandle, nil
	})

	addFn("map_names", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 0 {
			return nil, tengo.ErrWrongNumArguments
		}
		names := h.store.MapNames()
		arr := make([]tengo.Object, len(names))
		for i, name := range names {
			arr[i] = &tengo.String{Value: name}
		}
		return &tengo.Array{Value: arr}, nil
	})

	if _, err := s.Run(); err != nil {
		return fmt.Errorf("run script for %s: %w", mapName, err)
	}

	for _, name := range touched {
		level, err := levelFromObject(name, handles[name])
		if err != nil {
			return err
		}
		if err := level.Validate(); err != nil {
			return err
		}
		if err := h.store.Put(level); err != nil {
			return err
		}
	}
	return nil
}

func stringArg(args []tengo.Object, fn string) (string, error) {
	if len(args) != 1 {
		return "", tengo.ErrWrongNumArguments
	}
	name, ok := tengo.ToString(args[0])
	if !ok {
		return "", fmt.Errorf("%s: map name must be a string", fn)
	}
	return name, nil
}
