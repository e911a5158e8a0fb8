package ir

import "fmt"

// Value is an IR operand: either a virtual temporary or a compile-time
// constant. Both are immutable once created, matching the teacher's
// bytecode constant-pool convention of treating literals as values
// rather than instructions.
type Value struct {
	Kind  ValueKind
	Temp  int
	Int   int64
	Bool  bool
	Str   string // string constant payload, for ConstString
	Class string // class name of a Const for typed nil-ish literals; unused for Temp
}

type ValueKind int

const (
	ValTemp ValueKind = iota
	ValConstInt
	ValConstBool
	ValConstString
	ValVoid // the void/null value, e.g. an uninitialised attribute of object type
)

func Temp(n int) Value          { return Value{Kind: ValTemp, Temp: n} }
func ConstInt(n int64) Value    { return Value{Kind: ValConstInt, Int: n} }
func ConstBool(b bool) Value    { return Value{Kind: ValConstBool, Bool: b} }
func ConstString(s string) Value { return Value{Kind: ValConstString, Str: s} }
func Void() Value                { return Value{Kind: ValVoid} }

func (v Value) IsConst() bool { return v.Kind != ValTemp }

func (v Value) String() string {
	switch v.Kind {
	case ValTemp:
		return fmt.Sprintf("t%d", v.Temp)
	case ValConstInt:
		return fmt.Sprintf("%d", v.Int)
	case ValConstBool:
		return fmt.Sprintf("%t", v.Bool)
	case ValConstString:
		return fmt.Sprintf("%q", v.Str)
	case ValVoid:
		return "void"
	}
	return "?"
}

// TempPool hands out fresh virtual temporaries within one function.
type TempPool struct{ next int }

func (p *TempPool) New() Value {
	v := Temp(p.next)
	p.next++
	return v
}
