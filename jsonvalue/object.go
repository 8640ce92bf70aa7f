package jsonvalue

// Member is a single name/value pair of an Object.
type Member struct {
	Name  string
	Value Value
}

// Object is an insertion-ordered JSON object. The zero value is an empty
// object ready to use.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an object holding the given members in order. Later
// members replace earlier ones with the same name.
func NewObject(members ...Member) *Object {
	o := &Object{}
	for _, m := range members {
		o.Set(m.Name, m.Value)
	}
	return o
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) isValue()   {}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Has reports whether a member with the given name exists.
func (o *Object) Has(name string) bool {
	_, ok := o.lookup(name)
	return ok
}

// Get returns the member value for name.
func (o *Object) Get(name string) (Value, bool) {
	i, ok := o.lookup(name)
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Set adds or replaces a member. A replaced member keeps its position.
// A nil value is stored as Null.
func (o *Object) Set(name string, v Value) {
	if v == nil {
		v = Null{}
	}
	if i, ok := o.lookup(name); ok {
		o.members[i].Value = v
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[name] = len(o.members)
	o.members = append(o.members, Member{Name: name, Value: v})
}

// Remove deletes the member with the given name and reports whether it existed.
func (o *Object) Remove(name string) bool {
	i, ok := o.lookup(name)
	if !ok {
		return false
	}
	o.members = append(o.members[:i], o.members[i+1:]...)
	delete(o.index, name)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].Name] = j
	}
	return true
}

// Names returns member names in order.
func (o *Object) Names() []string {
	names := make([]string, 0, o.Len())
	for _, m := range o.Members() {
		names = append(names, m.Name)
	}
	return names
}

// Members returns the members in order. The slice must not be modified.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

// IsNull reports whether the member exists and holds null.
func (o *Object) IsNull(name string) bool {
	v, ok := o.Get(name)
	return ok && IsNull(v)
}

func (o *Object) GetString(name string) (string, bool) {
	v, _ := o.Get(name)
	s, ok := v.(String)
	return string(s), ok
}

func (o *Object) GetNumber(name string) (Number, bool) {
	v, _ := o.Get(name)
	n, ok := v.(Number)
	return n, ok
}

func (o *Object) GetBool(name string) (bool, bool) {
	v, _ := o.Get(name)
	b, ok := v.(Bool)
	return bool(b), ok
}

func (o *Object) GetObject(name string) (*Object, bool) {
	v, _ := o.Get(name)
	obj, ok := v.(*Object)
	return obj, ok
}

func (o *Object) GetArray(name string) (*Array, bool) {
	v, _ := o.Get(name)
	a, ok := v.(*Array)
	return a, ok
}

// Equal compares two objects member by member, ignoring order.
func (o *Object) Equal(p *Object) bool {
	if o.Len() != p.Len() {
		return false
	}
	for _, m := range o.Members() {
		pv, ok := p.Get(m.Name)
		if !ok || !Equal(m.Value, pv) {
			return false
		}
	}
	return true
}

func (o *Object) lookup(name string) (int, bool) {
	if o == nil || o.index == nil {
		return 0, false
	}
	i, ok := o.index[name]
	return i, ok
}

// Array is an ordered list of values.
type Array struct {
	elems []Value
}

// NewArray returns an array holding vs. Nil elements are stored as Null.
func NewArray(vs ...Value) *Array {
	a := &Array{elems: make([]Value, 0, len(vs))}
	for _, v := range vs {
		a.Append(v)
	}
	return a
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) isValue()   {}

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.elems)
}

// Append adds v at the end.
func (a *Array) Append(v Value) {
	if v == nil {
		v = Null{}
	}
	a.elems = append(a.elems, v)
}

// At returns the element at i. It panics if i is out of range.
func (a *Array) At(i int) Value { return a.elems[i] }

// Set replaces the element at i. It panics if i is out of range.
func (a *Array) Set(i int, v Value) {
	if v == nil {
		v = Null{}
	}
	a.elems[i] = v
}

// Values returns the elements. The slice must not be modified.
func (a *Array) Values() []Value {
	if a == nil {
		return nil
	}
	return a.elems
}

// Equal compares two arrays element by element.
func (a *Array) Equal(b *Array) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, v := range a.Values() {
		if !Equal(v, b.elems[i]) {
			return false
		}
	}
	return true
}
