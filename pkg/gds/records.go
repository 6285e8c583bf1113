package gds

import (
	"bytes"
	"encoding/binary"
	"math"
)

// GDSII record and data type codes. Each record is a 2-byte big-endian
// total length, a record type, a data type, then the payload. Records
// must have even length, so ASCII payloads are NUL-padded.
const (
	typeHeader   byte = 0x00
	typeBgnLib   byte = 0x01
	typeLibName  byte = 0x02
	typeUnits    byte = 0x03
	typeEndLib   byte = 0x04
	typeBgnStr   byte = 0x05
	typeStrName  byte = 0x06
	typeEndStr   byte = 0x07
	typeBoundary byte = 0x08
	typeSRef     byte = 0x0a
	typeText     byte = 0x0c
	typeLayer    byte = 0x0d
	typeDatatype byte = 0x0e
	typeXY       byte = 0x10
	typeEndEl    byte = 0x11
	typeSName    byte = 0x12
	typeTextType byte = 0x16
	typeString   byte = 0x19

	dataNone  byte = 0x00
	dataInt16 byte = 0x02
	dataInt32 byte = 0x03
	dataReal8 byte = 0x05
	dataASCII byte = 0x06
)

// recorder accumulates GDSII records into a buffer.
type recorder struct {
	buf bytes.Buffer
}

func (r *recorder) record(rt, dt byte, payload []byte) {
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[:2], uint16(4+len(payload)))
	hdr[2], hdr[3] = rt, dt
	r.buf.Write(hdr[:])
	r.buf.Write(payload)
}

func (r *recorder) none(rt byte) {
	r.record(rt, dataNone, nil)
}

func (r *recorder) int16s(rt byte, vals ...int16) {
	payload := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(payload[2*i:], uint16(v))
	}
	r.record(rt, dataInt16, payload)
}

func (r *recorder) int32s(rt byte, vals ...int32) {
	payload := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(payload[4*i:], uint32(v))
	}
	r.record(rt, dataInt32, payload)
}

// ascii writes a string record, NUL-padded to even length.
func (r *recorder) ascii(rt byte, s string) {
	payload := []byte(s)
	if len(payload)%2 != 0 {
		payload = append(payload, 0)
	}
	r.record(rt, dataASCII, payload)
}

func (r *recorder) real8s(rt byte, vals ...float64) {
	payload := make([]byte, 0, 8*len(vals))
	for _, v := range vals {
		b := real8(v)
		payload = append(payload, b[:]...)
	}
	r.record(rt, dataReal8, payload)
}

// real8 encodes a float as GDSII 8-byte excess-64 real: a sign bit, a
// 7-bit base-16 exponent biased by 64, and a 56-bit mantissa fraction in
// [1/16, 1). Scaling by 16 only shifts the binary exponent, so the
// conversion is exact up to the final rounding into 56 bits.
func real8(f float64) [8]byte {
	var out [8]byte
	if f == 0 {
		return out
	}
	sign := byte(0)
	if f < 0 {
		sign = 0x80
		f = -f
	}
	exp := 0
	for f >= 1 {
		f /= 16
		exp++
	}
	for f < 1.0/16 {
		f *= 16
		exp--
	}
	mant := uint64(math.Round(f * float64(uint64(1)<<56)))
	out[0] = sign | byte(exp+64)
	for i := 7; i >= 1; i-- {
		out[i] = byte(mant)
		mant >>= 8
	}
	return out
}
