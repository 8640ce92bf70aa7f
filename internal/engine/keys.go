package engine

// KeyTracker tells object keys apart from string values for tokenizers that
// report both as plain strings. The zero value is ready to use.
type KeyTracker struct {
	stack []keyFrame
}

type keyFrame struct {
	object       bool
	expectingKey bool
}

// Open records the start of an object or array.
func (t *KeyTracker) Open(object bool) {
	t.Value()
	t.stack = append(t.stack, keyFrame{object: object, expectingKey: object})
}

// Close records the end of the innermost container.
func (t *KeyTracker) Close() {
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
}

// IsKey consumes a string token and reports whether it was an object key.
func (t *KeyTracker) IsKey() bool {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	t.Value()
	return false
}

// Value records a scalar member value; the next string in the object is a key.
func (t *KeyTracker) Value() {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
