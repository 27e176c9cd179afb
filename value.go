// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"math"
	"strconv"
	"strings"
)

// Value is one typed field of an entry. The type tag is fixed at
// construction and never reinterpreted; changing a field means
// replacing the whole Value with one of the same type.
//
// Numeric scalars and numeric array elements are stored as their raw
// 32-bit wire patterns. Floats are materialized through math.Float32bits
// on the way in and out, so equality and round-trips are bit-exact even
// for values that would not survive a float64 detour.
type Value struct {
	typ  Type
	num  uint32
	str  string
	nums []uint32
	strs []string
}

// Int32Value returns a TypeInt32 value.
func Int32Value(v int32) Value {
	return Value{typ: TypeInt32, num: uint32(v)}
}

// Float32Value returns a TypeFloat32 value.
func Float32Value(v float32) Value {
	return Value{typ: TypeFloat32, num: math.Float32bits(v)}
}

// Uint32Value returns a TypeUint32 value.
func Uint32Value(v uint32) Value {
	return Value{typ: TypeUint32, num: v}
}

// StringValue returns a TypeString value. The bytes are stored as-is;
// the format uses raw ASCII with no terminator.
func StringValue(s string) Value {
	return Value{typ: TypeString, str: s}
}

// Int32ArrayValue returns a TypeInt32Array value holding a copy of v.
func Int32ArrayValue(v []int32) Value {
	nums := make([]uint32, len(v))
	for i, e := range v {
		nums[i] = uint32(e)
	}
	return Value{typ: TypeInt32Array, nums: nums}
}

// Float32ArrayValue returns a TypeFloat32Array value holding a copy of v.
func Float32ArrayValue(v []float32) Value {
	nums := make([]uint32, len(v))
	for i, e := range v {
		nums[i] = math.Float32bits(e)
	}
	return Value{typ: TypeFloat32Array, nums: nums}
}

// Uint32ArrayValue returns a TypeUint32Array value holding a copy of v.
func Uint32ArrayValue(v []uint32) Value {
	nums := make([]uint32, len(v))
	copy(nums, v)
	return Value{typ: TypeUint32Array, nums: nums}
}

// StringArrayValue returns a TypeStringArray value holding a copy of v.
func StringArrayValue(v []string) Value {
	strs := make([]string, len(v))
	copy(strs, v)
	return Value{typ: TypeStringArray, strs: strs}
}

// zeroValue returns the empty value for a type: 0, 0.0, "", or an
// empty array. Used by the blank-entry constructor.
func zeroValue(t Type) Value {
	return Value{typ: t}
}

// Type returns the immutable wire type tag.
func (v Value) Type() Type {
	return v.typ
}

// Int32 returns the value of a TypeInt32 field.
func (v Value) Int32() int32 {
	return int32(v.num)
}

// Float32 returns the value of a TypeFloat32 field.
func (v Value) Float32() float32 {
	return math.Float32frombits(v.num)
}

// Uint32 returns the value of a TypeUint32 field.
func (v Value) Uint32() uint32 {
	return v.num
}

// Text returns the value of a TypeString field.
func (v Value) Text() string {
	return v.str
}

// Len returns the element count of an array value, or 0 for scalars.
func (v Value) Len() int {
	if v.typ == TypeStringArray {
		return len(v.strs)
	}
	return len(v.nums)
}

// Int32Array returns a copy of a TypeInt32Array's elements.
func (v Value) Int32Array() []int32 {
	out := make([]int32, len(v.nums))
	for i, e := range v.nums {
		out[i] = int32(e)
	}
	return out
}

// Float32Array returns a copy of a TypeFloat32Array's elements.
func (v Value) Float32Array() []float32 {
	out := make([]float32, len(v.nums))
	for i, e := range v.nums {
		out[i] = math.Float32frombits(e)
	}
	return out
}

// Uint32Array returns a copy of a TypeUint32Array's elements.
func (v Value) Uint32Array() []uint32 {
	out := make([]uint32, len(v.nums))
	copy(out, v.nums)
	return out
}

// StringArray returns a copy of a TypeStringArray's elements.
func (v Value) StringArray() []string {
	out := make([]string, len(v.strs))
	copy(out, v.strs)
	return out
}

// Equal reports exact equality: same type tag and identical wire bytes.
// Floats compare by bit pattern, never by tolerance; arrays and strings
// compare element-wise and byte-wise.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	if v.num != o.num || v.str != o.str {
		return false
	}
	if len(v.nums) != len(o.nums) || len(v.strs) != len(o.strs) {
		return false
	}
	for i := range v.nums {
		if v.nums[i] != o.nums[i] {
			return false
		}
	}
	for i := range v.strs {
		if v.strs[i] != o.strs[i] {
			return false
		}
	}
	return true
}

// String renders the value for human consumption: scalars as literals,
// strings verbatim, arrays as a bracketed element list. It is a display
// convenience only; the wire form comes from Encode.
func (v Value) String() string {
	switch v.typ {
	case TypeInt32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case TypeFloat32:
		return strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32)
	case TypeUint32:
		return strconv.FormatUint(uint64(v.num), 10)
	case TypeString:
		return v.str
	case TypeStringArray:
		return "[" + strings.Join(v.strs, ", ") + "]"
	default:
		parts := make([]string, len(v.nums))
		for i := range v.nums {
			parts[i] = Value{typ: v.typ.Elem(), num: v.nums[i]}.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
}

// Clone returns a deep copy that shares no storage with v.
func (v Value) Clone() Value {
	c := Value{typ: v.typ, num: v.num, str: v.str}
	if v.nums != nil {
		c.nums = make([]uint32, len(v.nums))
		copy(c.nums, v.nums)
	}
	if v.strs != nil {
		c.strs = make([]string, len(v.strs))
		copy(c.strs, v.strs)
	}
	return c
}
