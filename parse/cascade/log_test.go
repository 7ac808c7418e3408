package cascade

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	convey.Convey("diagnostics are written as structured entries", t, func() {
		core, logs := observer.New(zapcore.DebugLevel)
		doc := Parse("A: 1\nA: 2\nEmpty:", WithLogger(NewZapLogger(zap.New(core))))

		convey.So(doc.Errors, convey.ShouldEqual, 1)
		convey.So(doc.Warnings, convey.ShouldEqual, 1)

		errs := logs.FilterMessage("cascade error").All()
		convey.So(errs, convey.ShouldHaveLength, 1)
		fields := errs[0].ContextMap()
		convey.So(fields["code"], convey.ShouldEqual, "ElementWithNameAlreadyPresent")
		convey.So(fields["line"], convey.ShouldEqual, int64(2))
		convey.So(fields["context"], convey.ShouldEqual, "A: 2")

		warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
		convey.So(warns, convey.ShouldHaveLength, 1)
		convey.So(warns[0].ContextMap()["code"], convey.ShouldEqual, "HeadWithoutValues")

		convey.So(logs.FilterLevelExact(zapcore.DebugLevel).Len(), convey.ShouldEqual, 1)
	})

	convey.Convey("a nil zap logger is replaced by a no-op one", t, func() {
		l := NewZapLogger(nil)
		convey.So(func() { l.LogError(CantFindKey, nil) }, convey.ShouldNotPanic)
	})

	convey.Convey("the test logger accepts parse output", t, func() {
		doc := Parse("#Bogus", WithLogger(NewZapLogger(zaptest.NewLogger(t))))
		convey.So(doc.Errors, convey.ShouldEqual, 1)
	})
}

func TestTee(t *testing.T) {
	convey.Convey("tee hands every diagnostic to each logger", t, func() {
		a, b := &Diagnostics{}, &Diagnostics{}
		Parse("A: 1\nA: 2", WithLogger(Tee(a, b)))
		convey.So(a.Items, convey.ShouldResemble, b.Items)
		convey.So(a.Errors(), convey.ShouldEqual, 1)
		convey.So(b.Traces, convey.ShouldHaveLength, 1)

		a.Reset()
		convey.So(a.Items, convey.ShouldBeEmpty)
		convey.So(b.Errors(), convey.ShouldEqual, 1)
	})

	convey.Convey("diagnostics print with their position", t, func() {
		d := &Diagnostics{}
		Parse("A: 1\nA: 2", WithLogger(d))
		convey.So(d.Items[0].String(), convey.ShouldEqual, "2:1 error: ElementWithNameAlreadyPresent: A: 2")
		convey.So(Code(999).String(), convey.ShouldNotBeEmpty)
	})
}
