package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dzjyyds666/cascade/parse/cascade"
	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const items = `Items:
	--
	Name: Sword
	Damage: 10, 12
	--
	Name: Shield
	Armor: 3
Owner: Alice
`

func writeFile(dir, name, text string) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		panic(err)
	}
	return p
}

// run executes the command tree. Flag variables outlive a run, so they are
// reset first.
func run(args ...string) (string, error) {
	*params = ParseParams{}
	checkInput = ""
	queryParams.Input, queryParams.Expr = "", "true"
	convertParams.Input, convertParams.Output, convertParams.Force = "", "", false
	diffParams.Comments, diffParams.Structural = false, false
	cfg.Format, cfg.Strict = "", false
	verbose = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--color", "never"))
	err := execute()
	return out.String(), err
}

// syncCounter 记录 Sync 的次数
type syncCounter struct {
	bytes.Buffer
	syncs int
}

func (s *syncCounter) Sync() error {
	s.syncs++
	return nil
}

func TestQuery(t *testing.T) {
	convey.Convey("Given a parsed document", t, func() {
		doc := cascade.Parse(items)

		convey.Convey("keys are filtered by the expression", func() {
			keys, err := Query(doc.Root, `Name == "Damage" && len(Values) == 2`)
			convey.So(err, convey.ShouldBeNil)
			convey.So(keys, convey.ShouldHaveLength, 1)
			convey.So(keys[0].Path(), convey.ShouldEqual, "Items/0/Damage")
		})

		convey.Convey("depth and array flags are visible", func() {
			keys, err := Query(doc.Root, `IsArray && Depth == 2`)
			convey.So(err, convey.ShouldBeNil)
			convey.So(keys, convey.ShouldHaveLength, 2)
		})

		convey.Convey("the root itself is never matched", func() {
			keys, _ := Query(doc.Root, "true")
			convey.So(keys[0].Path(), convey.ShouldEqual, "Items")
		})

		convey.Convey("expressions that are not boolean are refused", func() {
			_, err := Query(doc.Root, `Name + "x"`)
			convey.So(err, convey.ShouldNotBeNil)
			_, err = Query(doc.Root, `Unknown == 1`)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestLineDiff(t *testing.T) {
	convey.Convey("changed lines are marked", t, func() {
		var out bytes.Buffer
		p := newPrinter(&out, ColorAuto)
		changed := p.diff(lineDiff("A: 1\nB: 2\n", "A: 1\nB: 3\n"))
		convey.So(changed, convey.ShouldBeTrue)
		convey.So(out.String(), convey.ShouldEqual, "  A: 1\n- B: 2\n+ B: 3\n")
	})

	convey.Convey("equal text is not a change", t, func() {
		var out bytes.Buffer
		convey.So(newPrinter(&out, ColorNever).diff(lineDiff("A: 1\n", "A: 1\n")), convey.ShouldBeFalse)
	})

	convey.Convey("colour can be forced", t, func() {
		var out bytes.Buffer
		newPrinter(&out, ColorAlways).diff(lineDiff("A\n", "B\n"))
		convey.So(out.String(), convey.ShouldContainSubstring, "\x1b[")
	})
}

func TestReadConfig(t *testing.T) {
	convey.Convey("config files are yaml", t, func() {
		dir := t.TempDir()
		p := writeFile(dir, "c.yaml", "root: lib\ncolor: never\nformat: json\nstrict: true\n")
		c, err := ReadConfig(p, true)
		convey.So(err, convey.ShouldBeNil)
		convey.So(*c, convey.ShouldResemble, Config{Root: "lib", Color: "never", Format: "json", Strict: true})

		convey.Convey("a missing default file is fine", func() {
			c, err := ReadConfig(filepath.Join(dir, "none.yaml"), false)
			convey.So(err, convey.ShouldBeNil)
			convey.So(*c, convey.ShouldResemble, Config{})
			_, err = ReadConfig(filepath.Join(dir, "none.yaml"), true)
			convey.So(err, convey.ShouldWrap, os.ErrNotExist)
		})

		convey.Convey("unknown fields and colours are refused", func() {
			_, err := ReadConfig(writeFile(dir, "bad.yaml", "colour: never\n"), true)
			convey.So(err, convey.ShouldNotBeNil)
			_, err = ReadConfig(writeFile(dir, "bad2.yaml", "color: pink\n"), true)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestCommands(t *testing.T) {
	convey.Convey("Given documents on disk", t, func() {
		dir := t.TempDir()
		good := writeFile(dir, "items.cascade", items)
		bad := writeFile(dir, "bad.cascade", "A: 1\nA: 2\n")
		writeFile(dir, "lib.cascade", "Shared:\n\tX: 1\n")
		user := writeFile(dir, "user.cascade", "Copy:\n\t#Insert file:lib key:Shared add_key\n")

		convey.Convey("check reports errors with positions", func() {
			out, err := run("check", bad)
			convey.So(err, convey.ShouldEqual, errCheckFailed)
			convey.So(out, convey.ShouldContainSubstring, "bad.cascade:2:1: error: ElementWithNameAlreadyPresent")

			out, err = run("check", "-i", good)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "0 error(s), 0 warning(s)")
		})

		convey.Convey("parse prints a sub tree", func() {
			out, err := run("parse", "-i", good, "-f", "Items/1")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Name: Shield")
			convey.So(out, convey.ShouldNotContainSubstring, "Sword")
		})

		convey.Convey("#Insert finds files next to the input", func() {
			out, err := run("parse", "-i", user)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Shared:")
		})

		convey.Convey("convert writes by extension", func() {
			bin := filepath.Join(dir, "items.cbin")
			_, err := run("convert", "-i", good, "-o", bin)
			convey.So(err, convey.ShouldBeNil)

			out, err := run("diff", good, bin)
			convey.So(err, convey.ShouldBeNil)
			convey.So(strings.Contains(out, "+ "), convey.ShouldBeFalse)

			_, err = run("convert", "-i", bad, "-o", filepath.Join(dir, "bad.cbin"))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("diff marks what changed", func() {
			other := writeFile(dir, "other.cascade", strings.Replace(items, "Alice", "Bob", 1))
			out, err := run("diff", good, other)
			convey.So(err, convey.ShouldEqual, errDifferent)
			convey.So(out, convey.ShouldContainSubstring, "- Owner: Alice")
			convey.So(out, convey.ShouldContainSubstring, "+ Owner: Bob")
		})

		convey.Convey("query prints matching paths", func() {
			out, err := run("query", "-i", good, "-e", `Name == "Armor"`)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "Items/1/Armor: 3\n")
		})

		convey.Convey("the logger is synced after the command ran", func() {
			sink := &syncCounter{}
			old := zlog
			defer func() { zlog = old }()
			zlog = zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, zap.DebugLevel))

			_, err := run("check", bad)
			convey.So(err, convey.ShouldEqual, errCheckFailed)
			convey.So(sink.syncs, convey.ShouldEqual, 1)
			convey.So(sink.String(), convey.ShouldContainSubstring, "ElementWithNameAlreadyPresent")
		})

		convey.Convey("parse of a divided element prints its records", func() {
			out, err := run("parse", "-i", good, "-f", "Items/0")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "Name: Sword\nDamage: 10, 12\n")
		})

		convey.Convey("convert refuses text that would not read back", func() {
			src := writeFile(dir, "quote.json", `{"Msg": "say \"hi\""}`)
			_, err := run("convert", "-i", src, "-o", filepath.Join(dir, "quote.cascade"))
			convey.So(err, convey.ShouldWrap, cascade.ErrNotRepresentable)
			_, err = os.Stat(filepath.Join(dir, "quote.cascade"))
			convey.So(err, convey.ShouldWrap, os.ErrNotExist)
		})

		convey.Convey("version", func() {
			out, err := run("version")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldStartWith, "Cascade v")
		})
	})
}
