package cascade

// Value is a scalar leaf of a Key.
type Value struct {
	v        Variant
	comments string
	pos      Position
	parent   *Key
}

func NewValue(v Variant) *Value { return &Value{v: v} }

func (v *Value) Variant() Variant     { return v.v }
func (v *Value) Set(x Variant)        { v.v = x }
func (v *Value) String() string       { return v.v.String() }
func (v *Value) Comments() string     { return v.comments }
func (v *Value) SetComments(c string) { v.comments = c }
func (v *Value) Pos() Position        { return v.pos }
func (v *Value) SetPos(p Position)    { v.pos = p }
func (v *Value) Parent() *Key         { return v.parent }

// Index is the position of v among its parent's values, or -1.
func (v *Value) Index() int {
	if v.parent == nil {
		return -1
	}
	for i, x := range v.parent.values {
		if x == v {
			return i
		}
	}
	return -1
}

// SetParent moves v to the end of p's values. A nil p detaches v.
func (v *Value) SetParent(p *Key) {
	if v.parent == p && p != nil {
		return
	}
	if v.parent != nil {
		if i := v.Index(); i >= 0 {
			v.parent.values = append(v.parent.values[:i], v.parent.values[i+1:]...)
		}
	}
	v.parent = p
	if p != nil {
		p.values = append(p.values, v)
	}
}

func (v *Value) copy() *Value {
	return &Value{v: v.v, comments: v.comments, pos: v.pos}
}
