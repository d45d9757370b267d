package rpc

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every type carried over the Skyle service.
type Message interface {
	AppendWire(b []byte) []byte
	UnmarshalWire(b []byte) error
}

// encoder appends proto3 fields. Zero scalars are omitted.
type encoder struct {
	b []byte
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, protowire.EncodeBool(v))
}

func (e *encoder) int32(num protowire.Number, v int32) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, uint64(int64(v)))
}

func (e *encoder) uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *encoder) double(num protowire.Number, v float64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.Fixed64Type)
	e.b = protowire.AppendFixed64(e.b, math.Float64bits(v))
}

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

func (e *encoder) message(num protowire.Number, m Message) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, m.AppendWire(nil))
}

func (e *encoder) packedDoubles(num protowire.Number, vs []float64) {
	if len(vs) == 0 {
		return
	}
	packed := make([]byte, 0, 8*len(vs))
	for _, v := range vs {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, packed)
}

// decoder walks the fields of one message. The first error sticks and
// stops the walk.
type decoder struct {
	b   []byte
	err error
}

func (d *decoder) more() bool {
	return d.err == nil && len(d.b) > 0
}

func (d *decoder) fail(n int) {
	if d.err == nil {
		d.err = protowire.ParseError(n)
	}
}

func (d *decoder) tag() (protowire.Number, protowire.Type) {
	num, typ, n := protowire.ConsumeTag(d.b)
	if n < 0 {
		d.fail(n)
		return 0, 0
	}
	d.b = d.b[n:]
	return num, typ
}

func (d *decoder) varint(typ protowire.Type) uint64 {
	if !d.expect(typ, protowire.VarintType) {
		return 0
	}
	v, n := protowire.ConsumeVarint(d.b)
	if n < 0 {
		d.fail(n)
		return 0
	}
	d.b = d.b[n:]
	return v
}

func (d *decoder) bool(typ protowire.Type) bool {
	return protowire.DecodeBool(d.varint(typ))
}

func (d *decoder) int32(typ protowire.Type) int32 {
	return int32(d.varint(typ))
}

func (d *decoder) double(typ protowire.Type) float64 {
	if !d.expect(typ, protowire.Fixed64Type) {
		return 0
	}
	v, n := protowire.ConsumeFixed64(d.b)
	if n < 0 {
		d.fail(n)
		return 0
	}
	d.b = d.b[n:]
	return math.Float64frombits(v)
}

func (d *decoder) bytes(typ protowire.Type) []byte {
	if !d.expect(typ, protowire.BytesType) {
		return nil
	}
	v, n := protowire.ConsumeBytes(d.b)
	if n < 0 {
		d.fail(n)
		return nil
	}
	d.b = d.b[n:]
	return v
}

func (d *decoder) string(typ protowire.Type) string {
	return string(d.bytes(typ))
}

func (d *decoder) message(typ protowire.Type, m Message) {
	b := d.bytes(typ)
	if d.err != nil {
		return
	}
	if err := m.UnmarshalWire(b); err != nil {
		d.err = err
	}
}

// doubles accepts both packed and unpacked encodings of a repeated double.
func (d *decoder) doubles(typ protowire.Type, dst []float64) []float64 {
	if typ == protowire.Fixed64Type {
		return append(dst, d.double(typ))
	}
	packed := d.bytes(typ)
	for len(packed) > 0 && d.err == nil {
		v, n := protowire.ConsumeFixed64(packed)
		if n < 0 {
			d.fail(n)
			break
		}
		dst = append(dst, math.Float64frombits(v))
		packed = packed[n:]
	}
	return dst
}

func (d *decoder) skip(num protowire.Number, typ protowire.Type) {
	if d.err != nil {
		return
	}
	n := protowire.ConsumeFieldValue(num, typ, d.b)
	if n < 0 {
		d.fail(n)
		return
	}
	d.b = d.b[n:]
}

func (d *decoder) expect(got, want protowire.Type) bool {
	if d.err != nil {
		return false
	}
	if got != want {
		d.err = fmt.Errorf("%w: wire type %d, want %d", ErrWireType, got, want)
		return false
	}
	return true
}
