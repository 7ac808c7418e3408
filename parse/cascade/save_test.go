package cascade

import (
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

const sample = `// header
Weapon: "Long Sword" // the best
	Damage: 10, 12
	Weight: 3.5
	Ready: true
	Tags:
		sharp
		steel
Points:
	1, 2
	3, 4
Items:
	--
	Name: Sword
	-- // shield group
	#Name special
	Name: Shield
Quoted: "a, b", "true", "x // y", "  pad"
`

func TestSaveRoundTrip(t *testing.T) {
	convey.Convey("Given a parsed document", t, func() {
		doc, d := parse(sample)
		convey.So(d.Items, convey.ShouldBeEmpty)

		convey.Convey("the written text reads back into an equal tree", func() {
			text := doc.Root.SaveToString()
			again, d2 := parse(text)
			convey.So(d2.Items, convey.ShouldBeEmpty)
			convey.So(again.Root.EqualWithComments(doc.Root), convey.ShouldBeTrue)

			convey.Convey("and writing is stable", func() {
				convey.So(again.Root.SaveToString(), convey.ShouldEqual, text)
			})
		})

		convey.Convey("strings that would change meaning are quoted", func() {
			text := doc.Root.SaveToString()
			convey.So(text, convey.ShouldContainSubstring, `Quoted: "a, b", "true", "x // y", "  pad"`)
			convey.So(text, convey.ShouldContainSubstring, "Weapon: Long Sword")
		})

		convey.Convey("comments can be left out", func() {
			text := doc.Root.SaveToString(WithoutComments())
			convey.So(strings.Contains(text, "header"), convey.ShouldBeFalse)
			convey.So(strings.Contains(text, "shield group"), convey.ShouldBeFalse)
			again, _ := parse(text)
			convey.So(again.Root.Equal(doc.Root), convey.ShouldBeTrue)
		})

		convey.Convey("named divided elements keep their name", func() {
			convey.So(doc.Root.FindPath("Items/special/Name"), convey.ShouldNotBeNil)
			text := doc.Root.SaveToString()
			convey.So(text, convey.ShouldContainSubstring, "\t#Name special\n")
		})
	})

	convey.Convey("a tree built in code round trips", t, func() {
		root := NewKey("")
		cfg := root.GetOrCreateKey("Config")
		cfg.AddComments("first\nsecond")
		cfg.GetOrCreateKey("Ratio").AddValue(NewDouble(1e40))
		cfg.GetOrCreateKey("Neg").AddValue(NewLong(-1 << 40))
		list := cfg.GetOrCreateKey("List")
		a := list.CreateArrayKey()
		a.SetName("alpha")
		a.AddValue(NewByte(1))
		list.CreateArrayKey().AddValue(NewByte(2))

		back, d := parse(root.SaveToString())
		convey.So(d.Items, convey.ShouldBeEmpty)
		convey.So(back.Root.EqualWithComments(root), convey.ShouldBeTrue)
	})

	convey.Convey("Key.String is the written form", t, func() {
		doc, _ := parse("A: 1")
		convey.So(doc.Root.String(), convey.ShouldEqual, "A: 1\n")
	})
}

func TestSaveShapes(t *testing.T) {
	roundTrips := []struct {
		name string
		text string
	}{
		{"comment lines inside a group", "Items:\n\t--\n\t// about A\n\tA: 1\n\t--\n\tB: 2\n"},
		{"group comments before its values", "-- // first\n// second\n1 // third\n--\n2\n"},
		{"group comments without values", "Items:\n\t-- // a\n\t\t-- // b\n\t\tA: 1\n\t--\n\tB: 2\n"},
		{"named group comments without values", "Items:\n\t-- // a\n\t#Name x\n\t\t-- // b\n\t\tA: 1\n\t--\n\tB: 2\n"},
		{"record inserted beside records", "Src:\n\t--\n\tX: 1\n\t--\n\tY: 2\nBar:\n\tZ: 3\n\t#Insert key:Src add_key\n"},
		{"spliced insert", "Src:\n\tX: 1 // x\n\tY: 2\nBar:\n\tZ: 3\n\t#Insert key:Src\n"},
		{"element inserted under an element", "Src:\n\t1\n\t2\nBar:\n\t3\n\t#Insert key:Src\\1 add_key\n"},
	}

	for _, rt := range roundTrips {
		convey.Convey(rt.name+" survive a text round trip", t, func() {
			doc, d := parse(rt.text)
			convey.So(d.Items, convey.ShouldBeEmpty)
			convey.So(doc.Root.CheckText(), convey.ShouldBeNil)

			text := doc.Root.SaveToString()
			again, d2 := parse(text)
			convey.So(d2.Items, convey.ShouldBeEmpty)
			convey.So(again.Root.EqualWithComments(doc.Root), convey.ShouldBeTrue)
			convey.So(again.Root.SaveToString(), convey.ShouldEqual, text)
		})
	}

	convey.Convey("a record beside a divided element has no text form", t, func() {
		doc, d := parse("Src:\n\t--\n\tX: 1\n\t--\n\tY: 2\nBar:\n\tZ: 3\n\t#Insert key:Src\\0 add_key\n")
		convey.So(d.Items, convey.ShouldBeEmpty)
		bar := doc.Root.FindKey("Bar")
		convey.So(bar.KeyAt(0).Name(), convey.ShouldEqual, "Z")
		convey.So(bar.KeyAt(1).IsArray(), convey.ShouldBeTrue)

		err := doc.Root.CheckText()
		convey.So(err, convey.ShouldWrap, ErrNotRepresentable)
		convey.So(err.Error(), convey.ShouldContainSubstring, "Bar")
	})

	convey.Convey("a record after a bare element has no text form", t, func() {
		root := NewKey("")
		list := root.GetOrCreateKey("List")
		list.CreateArrayKey().AddValue(NewByte(1))
		list.GetOrCreateKey("After").AddValue(NewByte(2))
		convey.So(root.CheckText(), convey.ShouldWrap, ErrNotRepresentable)
	})

	convey.Convey("a lone group and top level values have no text form", t, func() {
		root := NewKey("")
		root.CreateArrayKey().GetOrCreateKey("A").AddValue(NewByte(1))
		convey.So(root.CheckText(), convey.ShouldWrap, ErrNotRepresentable)

		top := NewKey("")
		top.AddValue(NewByte(1))
		convey.So(top.CheckText(), convey.ShouldWrap, ErrNotRepresentable)
	})

	convey.Convey("quotes and line breaks cannot be written as they are", t, func() {
		root := NewKey("")
		root.GetOrCreateKey("Msg").AddValue(NewString(`say "hi"`))
		root.GetOrCreateKey("Lines").AddValue(NewString("one\ntwo"))
		odd := root.GetOrCreateKey("Odd")
		odd.AddValue(NewByte(1))
		odd.SetComments(`5" long`)
		convey.So(root.CheckText(), convey.ShouldWrap, ErrNotRepresentable)

		text := root.SaveToString()
		convey.So(text, convey.ShouldContainSubstring, "Msg: say 'hi'\n")
		convey.So(text, convey.ShouldContainSubstring, "Lines: one two\n")
		convey.So(text, convey.ShouldContainSubstring, "Odd: 1 // 5' long\n")

		back, d := parse(text)
		convey.So(d.Items, convey.ShouldBeEmpty)
		convey.So(back.Root.FindKey("Msg").Variants(), convey.ShouldResemble, []Variant{NewString("say 'hi'")})
		convey.So(back.Root.FindKey("Lines").Variants(), convey.ShouldResemble, []Variant{NewString("one two")})
		convey.So(back.Root.CheckText(), convey.ShouldBeNil)
	})

	convey.Convey("comments with paired quotes are kept", t, func() {
		doc, d := parse(`A: 1 // say "hi"`)
		convey.So(d.Items, convey.ShouldBeEmpty)
		convey.So(doc.Root.CheckText(), convey.ShouldBeNil)
		convey.So(doc.Root.SaveToString(), convey.ShouldEqual, "A: 1 // say \"hi\"\n")
	})
}
