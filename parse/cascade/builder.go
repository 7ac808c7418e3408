package cascade

import "strings"

// builder turns classified lines into a tree. Nesting follows rank; record
// dividers at a rank split its lines into anonymous array elements.
type builder struct {
	m    *Manager
	root *Key
	log  Logger
}

func minRank(lines []*Line) int {
	r := lines[0].Rank
	for _, l := range lines[1:] {
		if l.Rank < r {
			r = l.Rank
		}
	}
	return r
}

// build fills k from lines, all of which belong below k.
func (b *builder) build(k *Key, lines []*Line) {
	if len(lines) == 0 {
		return
	}
	rank := minRank(lines)
	var cuts []int
	for i, l := range lines {
		if l.Divider && l.Rank == rank {
			cuts = append(cuts, i)
		}
	}
	if len(cuts) == 0 {
		b.collect(k, lines, rank, false)
		collapse(k)
		return
	}

	var divider *Line
	start := 0
	for _, cut := range append(cuts, len(lines)) {
		b.group(k, divider, lines[start:cut], rank)
		if cut < len(lines) {
			divider = lines[cut]
		}
		start = cut + 1
	}
	collapse(k)
}

// group builds one divider-delimited segment as an anonymous array element.
func (b *builder) group(parent *Key, divider *Line, seg []*Line, rank int) {
	if !hasStatement(seg) {
		for _, l := range seg {
			b.log.LogWarning(NextLineCommentMissParent, l)
		}
		return
	}
	g := parent.CreateArrayKey()
	g.pos = seg[0].Pos
	if divider != nil {
		g.pos = divider.Pos
		g.AddComments(divider.Comments)
	}
	if minRank(seg) > rank {
		b.build(g, seg)
		return
	}
	b.collect(g, seg, rank, true)
	collapse(g)
}

func hasStatement(lines []*Line) bool {
	for _, l := range lines {
		if !l.IsCommentOnly() {
			return true
		}
	}
	return false
}

// collapse hoists the children of a lone anonymous, valueless array child
// into k and drops the wrapper.
func collapse(k *Key) {
	if len(k.keys) != 1 {
		return
	}
	c := k.keys[0]
	if !c.isArray || c.HasName() || len(c.values) > 0 {
		return
	}
	c.SetParent(nil)
	k.AddComments(c.comments)
	for _, gc := range append([]*Key(nil), c.keys...) {
		gc.SetParent(k)
	}
}

// frame is the state of one collect pass. ctx is the key that receives
// records: the parent itself until a bare value line opens an element.
type frame struct {
	parent *Key
	ctx    *Key
	group  bool

	comment     string
	commentLine *Line
	name        string
	nameLine    *Line
}

// fillable reports whether the key of a divider group is still untouched, so
// that its first value line and #Name apply to it directly.
func (f *frame) fillable() bool {
	return f.group && f.ctx == f.parent && f.parent.IsEmpty()
}

func (f *frame) pendComment(l *Line) {
	if f.comment == "" {
		f.comment, f.commentLine = l.Comments, l
		return
	}
	f.comment += "\n" + l.Comments
}

func (f *frame) takeComment() string {
	c := f.comment
	f.comment, f.commentLine = "", nil
	return c
}

func (f *frame) takeName() string {
	n := f.name
	f.name, f.nameLine = "", nil
	return n
}

// collect reads the lines of one rank into k. Deeper lines belong to the
// statement above them.
func (b *builder) collect(k *Key, lines []*Line, rank int, group bool) {
	f := &frame{parent: k, ctx: k, group: group}
	for i := 0; i < len(lines); {
		j := i + 1
		for j < len(lines) && lines[j].Rank > rank {
			j++
		}
		if l := lines[i]; l.Rank > rank {
			b.build(f.ctx, lines[i:j])
		} else {
			b.statement(f, l, lines[i+1:j])
		}
		i = j
	}
	if f.comment != "" {
		b.log.LogWarning(NextLineCommentMissParent, f.commentLine)
	}
	if f.name != "" {
		b.log.LogWarning(NextArrayKeyNameMissParent, f.nameLine)
	}
}

func (b *builder) statement(f *frame, l *Line, sub []*Line) {
	switch {
	case l.Command != CommandNone:
		b.command(f, l)
		b.build(f.ctx, sub)
	case l.Head != nil:
		b.record(f, l, sub)
	case len(l.Tail) > 0:
		b.element(f, l, sub)
	case l.IsCommentOnly():
		f.pendComment(l)
		b.build(f.ctx, sub)
	default:
		b.build(f.ctx, sub)
	}
}

func addTail(k *Key, l *Line) {
	for _, t := range l.Tail {
		v := k.AddValue(t.Variant())
		v.pos = t.Pos
	}
}

// record handles "Name: values" lines.
func (b *builder) record(f *frame, l *Line, sub []*Line) {
	name := l.Head.Text
	dest := f.ctx
	existing := dest.findNamed(name, false)
	if existing != nil && l.Mode == Add {
		tmp := NewKey(name)
		tmp.pos = l.Pos
		addTail(tmp, l)
		tmp.AddComments(f.takeComment())
		tmp.AddComments(l.Comments)
		b.build(tmp, sub)
		existing.MergeKey(tmp)
		return
	}
	if existing != nil {
		b.log.LogError(ElementWithNameAlreadyPresent, l)
		f.takeComment()
		return
	}
	k := NewKey(name)
	k.pos = l.Pos
	addTail(k, l)
	k.AddComments(f.takeComment())
	k.AddComments(l.Comments)
	k.SetParent(dest)
	b.build(k, sub)
	if k.IsEmpty() {
		b.log.LogWarning(HeadWithoutValues, l)
	}
}

// element handles bare value lines: each one opens a new array element that
// receives the records that follow, unless it fills an untouched group key.
func (b *builder) element(f *frame, l *Line, sub []*Line) {
	k := f.parent
	if !f.fillable() {
		k = NewArrayKey()
		k.pos = l.Pos
		k.name = f.takeName()
		k.SetParent(f.parent)
		f.ctx = k
	}
	addTail(k, l)
	k.AddComments(f.takeComment())
	k.AddComments(l.Comments)
	b.build(k, sub)
}

// paramText joins command parameters back into text.
func paramText(l *Line) string {
	parts := make([]string, 0, len(l.Params))
	for _, p := range l.Params {
		if p.Flag {
			parts = append(parts, p.Key)
		} else {
			parts = append(parts, p.Key+":"+p.Value.Text)
		}
	}
	return strings.Join(parts, " ")
}
