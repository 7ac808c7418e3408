package cascade

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Binary layout of a key, pre-order, big endian:
//
//	name      u32 length + utf8
//	isArray   1 byte
//	values    u16 count, then per value: 1 byte kind + payload
//	children  u16 count, then each child key
//
// Strings carry a u32 length. There is no header.

const maxBinaryCount = math.MaxUint16

var (
	ErrCountOverflow  = errors.New("cascade: more than 65535 elements in one key")
	ErrBufferTooSmall = errors.New("cascade: buffer too small")
	ErrTruncated      = errors.New("cascade: truncated binary data")
	ErrUnknownKind    = errors.New("cascade: unknown value kind")
)

// MemorySize is the exact number of bytes BinarySerialize writes for k.
func (k *Key) MemorySize() int {
	n := 4 + len(k.name) + 1 + 2 + 2
	for _, v := range k.values {
		n += v.v.MemorySize()
	}
	for _, c := range k.keys {
		n += c.MemorySize()
	}
	return n
}

type writer struct {
	buf []byte
	off int
}

func (w *writer) need(n int) error {
	if w.off+n > len(w.buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferTooSmall, n, w.off, len(w.buf)-w.off)
	}
	return nil
}

func (w *writer) u8(b byte) error {
	if err := w.need(1); err != nil {
		return err
	}
	w.buf[w.off] = b
	w.off++
	return nil
}

func (w *writer) u16(u uint16) error {
	if err := w.need(2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(w.buf[w.off:], u)
	w.off += 2
	return nil
}

func (w *writer) u32(u uint32) error {
	if err := w.need(4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(w.buf[w.off:], u)
	w.off += 4
	return nil
}

func (w *writer) u64(u uint64) error {
	if err := w.need(8); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(w.buf[w.off:], u)
	w.off += 8
	return nil
}

func (w *writer) str(s string) error {
	if err := w.u32(uint32(len(s))); err != nil {
		return err
	}
	if err := w.need(len(s)); err != nil {
		return err
	}
	w.off += copy(w.buf[w.off:], s)
	return nil
}

func (w *writer) variant(v Variant) error {
	if err := w.u8(byte(v.kind)); err != nil {
		return err
	}
	switch v.kind.payloadSize() {
	case 1:
		return w.u8(byte(v.num))
	case 2:
		return w.u16(uint16(v.num))
	case 4:
		return w.u32(uint32(v.num))
	case 8:
		return w.u64(v.num)
	}
	if v.kind == KindString {
		return w.str(v.str)
	}
	return nil
}

func (w *writer) key(k *Key) error {
	if len(k.values) > maxBinaryCount || len(k.keys) > maxBinaryCount {
		return fmt.Errorf("%w: key %q has %d values and %d children", ErrCountOverflow, k.Path(), len(k.values), len(k.keys))
	}
	if err := w.str(k.name); err != nil {
		return err
	}
	var arr byte
	if k.isArray {
		arr = 1
	}
	if err := w.u8(arr); err != nil {
		return err
	}
	if err := w.u16(uint16(len(k.values))); err != nil {
		return err
	}
	for _, v := range k.values {
		if err := w.variant(v.v); err != nil {
			return err
		}
	}
	if err := w.u16(uint16(len(k.keys))); err != nil {
		return err
	}
	for _, c := range k.keys {
		if err := w.key(c); err != nil {
			return err
		}
	}
	return nil
}

// BinarySerialize writes k into buf at offset and returns the offset just
// past the written bytes.
func (k *Key) BinarySerialize(buf []byte, offset int) (int, error) {
	w := &writer{buf: buf, off: offset}
	if err := w.key(k); err != nil {
		return offset, err
	}
	return w.off, nil
}

// MarshalBinary encodes k into a buffer of exactly MemorySize bytes.
func (k *Key) MarshalBinary() ([]byte, error) {
	buf := make([]byte, k.MemorySize())
	n, err := k.BinarySerialize(buf, 0)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, fmt.Errorf("cascade: wrote %d bytes, expected %d", n, len(buf))
	}
	return buf, nil
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", ErrTruncated, n, r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *reader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(len(r.buf)-r.off) {
		return "", fmt.Errorf("%w: string of %d bytes at offset %d", ErrTruncated, n, r.off)
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) variant() (Variant, error) {
	tag, err := r.u8()
	if err != nil {
		return Variant{}, err
	}
	kind := Kind(tag)
	if kind > KindString {
		return Variant{}, fmt.Errorf("%w: %d at offset %d", ErrUnknownKind, tag, r.off-1)
	}
	v := Variant{kind: kind}
	switch kind.payloadSize() {
	case 1:
		b, err := r.u8()
		v.num = uint64(b)
		return v, err
	case 2:
		u, err := r.u16()
		v.num = uint64(u)
		if kind == KindShort {
			v.num = uint64(int64(int16(u)))
		}
		return v, err
	case 4:
		u, err := r.u32()
		v.num = uint64(u)
		if kind == KindInt {
			v.num = uint64(int64(int32(u)))
		}
		return v, err
	case 8:
		u, err := r.u64()
		v.num = u
		return v, err
	}
	if kind == KindString {
		v.str, err = r.str()
	}
	return v, err
}

func (r *reader) key(k *Key) error {
	name, err := r.str()
	if err != nil {
		return err
	}
	arr, err := r.u8()
	if err != nil {
		return err
	}
	k.name, k.isArray = name, arr != 0
	nv, err := r.u16()
	if err != nil {
		return err
	}
	for i := 0; i < int(nv); i++ {
		v, err := r.variant()
		if err != nil {
			return err
		}
		k.AddValue(v)
	}
	nk, err := r.u16()
	if err != nil {
		return err
	}
	for i := 0; i < int(nk); i++ {
		c := &Key{}
		if err := r.key(c); err != nil {
			return err
		}
		c.SetParent(k)
	}
	return nil
}

// BinaryDeserialize replaces the content of k with the key encoded in buf at
// offset and returns the offset just past it. The parent of k is kept.
func (k *Key) BinaryDeserialize(buf []byte, offset int) (int, error) {
	k.ClearValues()
	for len(k.keys) > 0 {
		k.keys[len(k.keys)-1].SetParent(nil)
	}
	r := &reader{buf: buf, off: offset}
	if err := r.key(k); err != nil {
		return offset, err
	}
	return r.off, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary into k.
func (k *Key) UnmarshalBinary(data []byte) error {
	n, err := k.BinaryDeserialize(data, 0)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("cascade: %d trailing bytes after key", len(data)-n)
	}
	return nil
}
