package restfb

import (
	"strconv"
	"strings"
	"sync"

	eng "github.com/restfb/restfb-sub000/internal/engine"
	"github.com/restfb/restfb-sub000/jsonvalue"
)

// Presence is the bit flag collected by WithMeta APIs.
type Presence uint8

const (
	PresenceSeen    Presence = 1 << iota // Member appeared in the input.
	PresenceWasNull                      // Member value was null.
)

// PresenceMap maps JSON Pointers to Presence flags. The root is "/".
type PresenceMap map[string]Presence

// Seen reports whether the pointer appeared in the input.
func (pm PresenceMap) Seen(pointer string) bool { return pm[pointer]&PresenceSeen != 0 }

// WasNull reports whether the pointer was explicitly null.
func (pm PresenceMap) WasNull(pointer string) bool { return pm[pointer]&PresenceWasNull != 0 }

// AnySeenUnder reports whether the pointer or any of its descendants appeared.
func (pm PresenceMap) AnySeenUnder(pointer string) bool {
	if pm.Seen(pointer) {
		return true
	}
	prefix := strings.TrimSuffix(pointer, "/") + "/"
	for k, v := range pm {
		if v&PresenceSeen != 0 && strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// Decoded carries the mapped value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

// simple string interner for PresenceMap keys
var (
	_internMu   sync.RWMutex
	_internPool = map[string]string{}
)

func internString(s string) string {
	_internMu.RLock()
	if v, ok := _internPool[s]; ok {
		_internMu.RUnlock()
		return v
	}
	_internMu.RUnlock()

	_internMu.Lock()
	if v, ok := _internPool[s]; ok { // double-check
		_internMu.Unlock()
		return v
	}
	_internPool[s] = s
	_internMu.Unlock()
	return s
}

// collectPresence walks a value tree and records every member and element
// pointer, filtered by the include and exclude prefixes.
func collectPresence(v jsonvalue.Value, popt PresenceOpt) PresenceMap {
	pm := make(PresenceMap)
	c := presenceCollector{pm: pm, opt: popt}
	c.mark("/", v)
	c.walk("/", v)
	return pm
}

type presenceCollector struct {
	pm  PresenceMap
	opt PresenceOpt
}

func (c presenceCollector) walk(path string, v jsonvalue.Value) {
	switch t := v.(type) {
	case *jsonvalue.Object:
		for _, m := range t.Members() {
			p := eng.JoinPointer(path, m.Name)
			c.mark(p, m.Value)
			c.walk(p, m.Value)
		}
	case *jsonvalue.Array:
		for i, e := range t.Values() {
			p := eng.JoinPointer(path, strconv.Itoa(i))
			c.mark(p, e)
			c.walk(p, e)
		}
	}
}

func (c presenceCollector) mark(path string, v jsonvalue.Value) {
	if !c.include(path) {
		return
	}
	flags := PresenceSeen
	if jsonvalue.IsNull(v) {
		flags |= PresenceWasNull
	}
	if c.opt.Intern {
		path = internString(path)
	}
	c.pm[path] |= flags
}

func (c presenceCollector) include(path string) bool {
	if len(c.opt.Include) > 0 {
		ok := false
		for _, p := range c.opt.Include {
			if strings.HasPrefix(path, p) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, p := range c.opt.Exclude {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}
