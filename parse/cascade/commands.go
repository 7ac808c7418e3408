package cascade

import "strings"

const (
	flagAddKey         = "add_key"
	flagInsertInParent = "insert_in_parent"
	parentMark         = '<'
)

func (b *builder) command(f *frame, l *Line) {
	switch l.Command {
	case CommandName:
		b.nameCommand(f, l)
	case CommandInsert:
		b.insert(f.ctx, l)
	case CommandDelete:
		b.delete(f.ctx, l)
	case CommandChangeValue:
		b.changeValue(f.ctx, l)
	}
}

// nameCommand names the group key being filled, or the next array element
// opened in this frame.
func (b *builder) nameCommand(f *frame, l *Line) {
	name := paramText(l)
	if name == "" {
		b.log.LogError(EmptyCommand, l)
		return
	}
	if f.fillable() && !f.parent.HasName() {
		f.parent.name = name
		return
	}
	if f.name != "" {
		b.log.LogError(NextArrayKeyNameAlreadySetted, l)
		return
	}
	f.name, f.nameLine = name, l
}

// trimFlags strips flag names written as trailing path segments.
func trimFlags(segs []string) (rest []string, addKey, inParent bool) {
	for len(segs) > 0 {
		switch strings.ToLower(segs[len(segs)-1]) {
		case flagAddKey:
			addKey = true
		case flagInsertInParent:
			inParent = true
		default:
			return segs, addKey, inParent
		}
		segs = segs[:len(segs)-1]
	}
	return segs, addKey, inParent
}

// unwrapRoot returns the lone anonymous element of a document root, or the
// root itself.
func unwrapRoot(root *Key) *Key {
	if len(root.values) == 0 && len(root.keys) == 1 {
		if c := root.keys[0]; c.isArray && !c.HasName() {
			return c
		}
	}
	return root
}

// insert copies a subtree of this or another document into dest.
//
//	#Insert [file:F] [key:PATH] [add_key] [insert_in_parent]
func (b *builder) insert(dest *Key, l *Line) {
	file, hasFile := l.Param("file")
	path, hasKey := l.Param("key")
	segs, addKey, inParent := trimFlags(SplitPath(path))
	addKey = addKey || l.HasFlag(flagAddKey)
	inParent = inParent || l.HasFlag(flagInsertInParent)

	switch {
	case hasFile && strings.TrimSpace(file) == "",
		hasKey && len(segs) == 0 && len(SplitPath(path)) == 0,
		!hasFile && !hasKey:
		b.log.LogError(PathEmpty, l)
		return
	}

	root := b.root
	if hasFile {
		var code Code
		if root, code = b.m.lookup(file); root == nil {
			b.log.LogError(code, l)
			return
		}
	}
	src := unwrapRoot(root)
	if len(segs) > 0 {
		if src = root.findSegments(segs); src == nil {
			b.log.LogError(CantFindKey, l)
			return
		}
	}
	if inParent {
		if dest.parent == nil {
			b.log.LogError(KeyMustHaveParent, l)
			return
		}
		dest = dest.parent
	}

	cp := src.Copy()
	if !addKey {
		b.splice(dest, cp)
		return
	}
	if !cp.HasName() {
		cp.isArray = true
	}
	if isRecord(cp) && dest.findNamed(cp.name, false) != nil {
		b.log.LogError(ElementWithNameAlreadyPresent, l)
		return
	}
	cp.SetParent(dest)
}

// splice moves the values and children of src into dest. Records that
// collide with an existing record of dest are skipped.
func (b *builder) splice(dest, src *Key) {
	for _, v := range append([]*Value(nil), src.values...) {
		v.SetParent(dest)
	}
	for _, c := range append([]*Key(nil), src.keys...) {
		if isRecord(c) && dest.findNamed(c.name, false) != nil {
			b.log.LogWarning(DublicateKeyName, c)
			continue
		}
		c.SetParent(dest)
	}
}

// delete detaches a key and prunes the ancestors it leaves empty.
//
//	#Delete [<...] path\to\key
func (b *builder) delete(from *Key, l *Line) {
	var segs []string
	for _, p := range l.Params {
		text := p.Key
		if !p.Flag {
			text += ":" + p.Value.Text
		}
		segs = append(segs, SplitPath(text)...)
	}
	for len(segs) > 0 && strings.Trim(segs[0], string(parentMark)) == "" {
		for range segs[0] {
			if from = from.parent; from == nil {
				b.log.LogError(KeyMustHaveParent, l)
				return
			}
		}
		segs = segs[1:]
	}
	if len(segs) == 0 {
		b.log.LogError(PathEmpty, l)
		return
	}
	target := from.findSegments(segs)
	if target == nil {
		b.log.LogError(CantFindKey, l)
		return
	}
	parent := target.parent
	target.SetParent(nil)
	for parent != nil && parent != from && parent.IsEmpty() {
		next := parent.parent
		parent.SetParent(nil)
		parent = next
	}
}

// changeValue rewrites every value below k whose text matches a key of the
// replacement table.
//
//	#ChangeValue old:new, old2:new2
func (b *builder) changeValue(k *Key, l *Line) {
	repl := make(map[string]Variant)
	for _, p := range l.Params {
		if !p.Flag {
			repl[p.Key] = p.Value.Variant()
		}
	}
	if len(repl) == 0 {
		b.log.LogError(EmptyCommand, l)
		return
	}
	k.Walk(func(c *Key, _ int) bool {
		for _, v := range c.values {
			if x, ok := repl[v.v.String()]; ok {
				v.v = x
			}
		}
		return true
	})
}
