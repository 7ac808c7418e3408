package cascade

import (
	"errors"
	"strconv"
	"strings"
)

var ErrNameAlreadyPresent = errors.New("cascade: element with this name already present")

// Key is a node of the tree. It owns its values and child keys; parent is a
// back reference kept in sync by SetParent.
//
// An anonymous key (empty name) is an array element whose effective name is
// its index among its siblings.
type Key struct {
	name     string
	isArray  bool
	comments string
	pos      Position
	parent   *Key
	values   []*Value
	keys     []*Key
}

// NewKey returns a detached key.
func NewKey(name string) *Key {
	return &Key{name: name}
}

// NewArrayKey returns a detached anonymous array key.
func NewArrayKey() *Key {
	return &Key{isArray: true}
}

func (k *Key) Name() string         { return k.name }
func (k *Key) SetName(name string)  { k.name = name }
func (k *Key) HasName() bool        { return k.name != "" }
func (k *Key) IsArray() bool        { return k.isArray }
func (k *Key) SetArray(a bool)      { k.isArray = a }
func (k *Key) Comments() string     { return k.comments }
func (k *Key) SetComments(c string) { k.comments = c }
func (k *Key) Pos() Position        { return k.pos }
func (k *Key) SetPos(p Position)    { k.pos = p }
func (k *Key) Parent() *Key         { return k.parent }

// AddComments appends c as a new comment line.
func (k *Key) AddComments(c string) {
	switch {
	case c == "":
	case k.comments == "":
		k.comments = c
	default:
		k.comments += "\n" + c
	}
}

// EffectiveName is the name, or the index for anonymous keys.
func (k *Key) EffectiveName() string {
	if k.name != "" {
		return k.name
	}
	return strconv.Itoa(k.Index())
}

// Root walks up to the top of the tree.
func (k *Key) Root() *Key {
	r := k
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Index is the position of k among its siblings, or -1 for a root.
func (k *Key) Index() int {
	if k.parent == nil {
		return -1
	}
	for i, c := range k.parent.keys {
		if c == k {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether k has neither values nor child keys.
func (k *Key) IsEmpty() bool {
	return len(k.values) == 0 && len(k.keys) == 0
}

// Keys returns the child keys. The slice must not be modified.
func (k *Key) Keys() []*Key { return k.keys }

// Values returns the values. The slice must not be modified.
func (k *Key) Values() []*Value { return k.values }

func (k *Key) KeyCount() int   { return len(k.keys) }
func (k *Key) ValueCount() int { return len(k.values) }

func (k *Key) KeyAt(i int) *Key {
	if i < 0 || i >= len(k.keys) {
		return nil
	}
	return k.keys[i]
}

func (k *Key) ValueAt(i int) *Value {
	if i < 0 || i >= len(k.values) {
		return nil
	}
	return k.values[i]
}

// Variants returns the scalars of k in order.
func (k *Key) Variants() []Variant {
	vs := make([]Variant, len(k.values))
	for i, v := range k.values {
		vs[i] = v.v
	}
	return vs
}

// FindKey finds a child by effective name, ignoring case.
func (k *Key) FindKey(name string) *Key {
	if c := k.findNamed(name, true); c != nil {
		return c
	}
	if i, err := strconv.Atoi(name); err == nil {
		if c := k.KeyAt(i); c != nil && !c.HasName() {
			return c
		}
	}
	return nil
}

// findNamed finds a named child, ignoring case. Named array keys are only
// considered when arrays is set.
func (k *Key) findNamed(name string, arrays bool) *Key {
	for _, c := range k.keys {
		if c.name == "" || (c.isArray && !arrays) {
			continue
		}
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

// CreateKey adds a named record child. The name must not already be used by
// another record child.
func (k *Key) CreateKey(name string) (*Key, error) {
	if k.findNamed(name, false) != nil {
		return nil, ErrNameAlreadyPresent
	}
	c := NewKey(name)
	c.SetParent(k)
	return c, nil
}

// GetOrCreateKey returns the named record child, creating it when missing.
func (k *Key) GetOrCreateKey(name string) *Key {
	if c := k.findNamed(name, false); c != nil {
		return c
	}
	c := NewKey(name)
	c.SetParent(k)
	return c
}

// CreateArrayKey adds an anonymous array child.
func (k *Key) CreateArrayKey() *Key {
	c := NewArrayKey()
	c.SetParent(k)
	return c
}

// AddValue appends a scalar to k.
func (k *Key) AddValue(v Variant) *Value {
	val := NewValue(v)
	val.SetParent(k)
	return val
}

func (k *Key) AddValues(vs ...Variant) {
	for _, v := range vs {
		k.AddValue(v)
	}
}

// RemoveKey detaches the child found by FindKey.
func (k *Key) RemoveKey(name string) bool {
	c := k.FindKey(name)
	if c == nil {
		return false
	}
	c.SetParent(nil)
	return true
}

func (k *Key) RemoveKeyAt(i int) bool {
	c := k.KeyAt(i)
	if c == nil {
		return false
	}
	c.SetParent(nil)
	return true
}

func (k *Key) RemoveValueAt(i int) bool {
	v := k.ValueAt(i)
	if v == nil {
		return false
	}
	v.SetParent(nil)
	return true
}

// ClearValues detaches every value.
func (k *Key) ClearValues() {
	for _, v := range k.values {
		v.parent = nil
	}
	k.values = nil
}

// SetParent moves k to the end of p's children. A nil p detaches k, which is
// how keys are deleted.
func (k *Key) SetParent(p *Key) {
	if k.parent == p && p != nil {
		return
	}
	if k.parent != nil {
		if i := k.Index(); i >= 0 {
			k.parent.keys = append(k.parent.keys[:i], k.parent.keys[i+1:]...)
		}
	}
	k.parent = p
	if p != nil {
		p.keys = append(p.keys, k)
	}
}

// IsAncestorOf reports whether k is o or one of o's ancestors.
func (k *Key) IsAncestorOf(o *Key) bool {
	for c := o; c != nil; c = c.parent {
		if c == k {
			return true
		}
	}
	return false
}

// Copy returns a detached deep copy of k.
func (k *Key) Copy() *Key {
	c := &Key{name: k.name, isArray: k.isArray, comments: k.comments, pos: k.pos}
	for _, v := range k.values {
		v.copy().SetParent(c)
	}
	for _, ch := range k.keys {
		ch.Copy().SetParent(c)
	}
	return c
}

// MergeKey merges a copy of src into k: values are appended, record children
// are merged by name and everything else is appended.
func (k *Key) MergeKey(src *Key) {
	if k.IsAncestorOf(src) {
		src = src.Copy()
	}
	k.AddComments(src.comments)
	for _, v := range src.values {
		v.copy().SetParent(k)
	}
	for _, ch := range src.keys {
		if ch.HasName() && !ch.isArray {
			if existing := k.findNamed(ch.name, false); existing != nil {
				existing.MergeKey(ch)
				continue
			}
		}
		ch.Copy().SetParent(k)
	}
}

// Walk visits k and its descendants in pre-order. Returning false from fn
// skips the children of that key.
func (k *Key) Walk(fn func(k *Key, depth int) bool) {
	k.walk(fn, 0)
}

func (k *Key) walk(fn func(*Key, int) bool, depth int) {
	if !fn(k, depth) {
		return
	}
	for _, c := range append([]*Key(nil), k.keys...) {
		c.walk(fn, depth+1)
	}
}

// Equal compares names, array flags, values and children, ignoring comments
// and positions.
func (k *Key) Equal(o *Key) bool { return k.equal(o, false) }

// EqualWithComments is Equal that also compares comments.
func (k *Key) EqualWithComments(o *Key) bool { return k.equal(o, true) }

func (k *Key) equal(o *Key, comments bool) bool {
	if k == nil || o == nil {
		return k == o
	}
	if k.name != o.name || k.isArray != o.isArray {
		return false
	}
	if comments && k.comments != o.comments {
		return false
	}
	if len(k.values) != len(o.values) || len(k.keys) != len(o.keys) {
		return false
	}
	for i, v := range k.values {
		if !v.v.Equal(o.values[i].v) {
			return false
		}
	}
	for i, c := range k.keys {
		if !c.equal(o.keys[i], comments) {
			return false
		}
	}
	return true
}

func (k *Key) Position() Position { return k.pos }

func (k *Key) Describe() string {
	if k.parent == nil && k.name == "" {
		return "<root>"
	}
	return k.Path()
}

func (k *Key) String() string { return k.SaveToString() }
