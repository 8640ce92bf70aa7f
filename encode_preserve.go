package restfb

import (
	eng "github.com/restfb/restfb-sub000/internal/engine"
	"github.com/restfb/restfb-sub000/jsonvalue"
	"github.com/restfb/restfb-sub000/mapper"
)

// PreservingValue renders dm.Value keeping only the object members that were
// present in the input. Members that were null in the input stay null;
// members the input never carried are dropped, even when the Go value holds
// something for them. Array elements are kept as a whole.
func PreservingValue[T any](dm Decoded[T]) (jsonvalue.Value, error) {
	v, err := mapper.ToValue(dm.Value)
	if err != nil {
		return nil, toIssues(err)
	}
	return prune("/", v, dm.Presence), nil
}

// MarshalPreserving is PreservingValue rendered as compact JSON.
func MarshalPreserving[T any](dm Decoded[T]) ([]byte, error) {
	v, err := PreservingValue(dm)
	if err != nil {
		return nil, err
	}
	return jsonvalue.Compact(v)
}

func prune(path string, v jsonvalue.Value, pm PresenceMap) jsonvalue.Value {
	obj, ok := v.(*jsonvalue.Object)
	if !ok {
		return v
	}
	out := jsonvalue.NewObject()
	for _, m := range obj.Members() {
		p := eng.JoinPointer(path, m.Name)
		switch {
		case pm.WasNull(p):
			out.Set(m.Name, jsonvalue.Null{})
		case pm.Seen(p):
			out.Set(m.Name, prune(p, m.Value, pm))
		}
	}
	return out
}
