package cascade

import (
	"errors"
	"math"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func everyKind() *Key {
	root := NewKey("")
	all := root.GetOrCreateKey("All")
	all.AddValues(
		Variant{},
		NewBool(true),
		NewFloat(1.5),
		NewDouble(1e300),
		NewByte(255),
		NewShort(-2),
		NewUShort(65535),
		NewInt(-70000),
		NewUInt(math.MaxUint32),
		NewLong(-1<<40),
		NewULong(math.MaxUint64),
		NewString("héllo"),
		NewString(""),
	)
	el := all.CreateArrayKey()
	el.AddValue(NewByte(1))
	el.GetOrCreateKey("Deep").AddValue(NewString("x"))
	return root
}

func TestBinaryRoundTrip(t *testing.T) {
	convey.Convey("Given a tree holding every value kind", t, func() {
		root := everyKind()

		convey.Convey("the encoded size is exactly MemorySize", func() {
			data, err := root.MarshalBinary()
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(data), convey.ShouldEqual, root.MemorySize())
		})

		convey.Convey("decoding restores an equal tree", func() {
			data, _ := root.MarshalBinary()
			back := NewKey("junk")
			back.AddValue(NewByte(9))
			convey.So(back.UnmarshalBinary(data), convey.ShouldBeNil)
			convey.So(back.Equal(root), convey.ShouldBeTrue)
			convey.So(consistent(back), convey.ShouldBeTrue)
			convey.So(back.FindPath("All/0/Deep").Variants()[0].String(), convey.ShouldEqual, "x")
		})

		convey.Convey("keys can be written at an offset", func() {
			size := root.MemorySize()
			buf := make([]byte, 3+size+2)
			end, err := root.BinarySerialize(buf, 3)
			convey.So(err, convey.ShouldBeNil)
			convey.So(end, convey.ShouldEqual, 3+size)

			back := NewKey("")
			next, err := back.BinaryDeserialize(buf, 3)
			convey.So(err, convey.ShouldBeNil)
			convey.So(next, convey.ShouldEqual, end)
			convey.So(back.Equal(root), convey.ShouldBeTrue)
		})

		convey.Convey("a short buffer is refused", func() {
			buf := make([]byte, root.MemorySize()-1)
			_, err := root.BinarySerialize(buf, 0)
			convey.So(errors.Is(err, ErrBufferTooSmall), convey.ShouldBeTrue)
		})

		convey.Convey("truncated data is refused", func() {
			data, _ := root.MarshalBinary()
			err := NewKey("").UnmarshalBinary(data[:len(data)-1])
			convey.So(errors.Is(err, ErrTruncated), convey.ShouldBeTrue)

			err = NewKey("").UnmarshalBinary(append(data, 0))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("an unknown value tag is refused", func() {
			k := NewKey("")
			k.AddValue(NewByte(1))
			data, _ := k.MarshalBinary()
			// name length 4, name 0, array flag 1, value count 2, then the tag
			data[7] = 99
			err := NewKey("").UnmarshalBinary(data)
			convey.So(errors.Is(err, ErrUnknownKind), convey.ShouldBeTrue)
		})
	})

	convey.Convey("more than 65535 values do not fit the count field", t, func() {
		k := NewKey("Big")
		for i := 0; i <= maxBinaryCount; i++ {
			k.AddValue(NewByte(0))
		}
		_, err := k.MarshalBinary()
		convey.So(errors.Is(err, ErrCountOverflow), convey.ShouldBeTrue)
	})

	convey.Convey("a parsed document survives the binary form", t, func() {
		doc := Parse("Weapon: Sword\n\tDamage: 10, 12\nPoints:\n\t1, 2\n\t3, 4\n")
		data, err := doc.Root.MarshalBinary()
		convey.So(err, convey.ShouldBeNil)
		back := NewKey("")
		convey.So(back.UnmarshalBinary(data), convey.ShouldBeNil)
		convey.So(back.Equal(doc.Root), convey.ShouldBeTrue)
	})
}
