package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/coolc/internal/lexer"
)

// Assign is `id <- e`.
type Assign struct {
	exprBase
	Token lexer.Token
	Name  string
	Value Expr
}

func (a *Assign) exprNode()            {}
func (a *Assign) Pos() lexer.Position  { return a.Token.Pos }
func (a *Assign) String() string       { return a.Name + " <- " + a.Value.String() }

// Dispatch is a method call `e0[@T].f(e1..en)`. Override is empty for a
// plain (dynamic) dispatch and holds the static type T for a static
// dispatch `e0@T.f(...)`.
type Dispatch struct {
	exprBase
	Token    lexer.Token
	Receiver Expr // nil for an implicit self.method(...) call
	Override string
	Method   string
	Args     []Expr
}

func (d *Dispatch) exprNode()           {}
func (d *Dispatch) Pos() lexer.Position { return d.Token.Pos }
func (d *Dispatch) String() string {
	var out bytes.Buffer
	if d.Receiver != nil {
		out.WriteString(d.Receiver.String())
		if d.Override != "" {
			out.WriteString("@")
			out.WriteString(d.Override)
		}
		out.WriteString(".")
	}
	out.WriteString(d.Method)
	out.WriteString("(")
	parts := make([]string, len(d.Args))
	for i, a := range d.Args {
		parts[i] = a.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(")")
	return out.String()
}

// If is `if pred then then_ else else_ fi`.
type If struct {
	exprBase
	Token Token
	Pred  Expr
	Then  Expr
	Else  Expr
}

// Token aliases lexer.Token so If and the other nodes can declare their
// Token field without naming the lexer package in every file.
type Token = lexer.Token

func (i *If) exprNode()           {}
func (i *If) Pos() lexer.Position { return i.Token.Pos }
func (i *If) String() string {
	return "if " + i.Pred.String() + " then " + i.Then.String() + " else " + i.Else.String() + " fi"
}

// While is `while pred loop body pool`; it always evaluates to Object.
type While struct {
	exprBase
	Token Token
	Pred  Expr
	Body  Expr
}

func (w *While) exprNode()           {}
func (w *While) Pos() lexer.Position { return w.Token.Pos }
func (w *While) String() string {
	return "while " + w.Pred.String() + " loop " + w.Body.String() + " pool"
}

// Block is a non-empty brace-delimited sequence of expressions; its
// value is the value of the last one.
type Block struct {
	exprBase
	Token Token
	Exprs []Expr
}

func (b *Block) exprNode()           {}
func (b *Block) Pos() lexer.Position { return b.Token.Pos }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, e := range b.Exprs {
		out.WriteString(e.String())
		out.WriteString("; ")
	}
	out.WriteString("}")
	return out.String()
}

// LetBinding is one `id : T [<- init]` clause of a let expression. The
// parser desugars a multi-binding `let` into nested single-binding Lets
// (spec.md §4.2), so every Let node at this level has exactly one
// binding.
type LetBinding struct {
	Name string
	Type string
	Init Expr // nil when no initializer is given
}

// Let is `let id : T [<- e0] in body`.
type Let struct {
	exprBase
	Token   Token
	Binding LetBinding
	Body    Expr
}

func (l *Let) exprNode()           {}
func (l *Let) Pos() lexer.Position { return l.Token.Pos }
func (l *Let) String() string {
	s := "let " + l.Binding.Name + ": " + l.Binding.Type
	if l.Binding.Init != nil {
		s += " <- " + l.Binding.Init.String()
	}
	return s + " in " + l.Body.String()
}

// CaseBranch is `id : T => body` inside a case expression.
type CaseBranch struct {
	Name string
	Type string
	Body Expr
}

// Case is `case scrutinee of branch1 .. branchN esac`. T_i must be
// pairwise distinct (spec.md §4.3); the parser does not enforce this —
// the semantic analyser does.
type Case struct {
	exprBase
	Token     Token
	Scrutinee Expr
	Branches  []CaseBranch
}

func (c *Case) exprNode()           {}
func (c *Case) Pos() lexer.Position { return c.Token.Pos }
func (c *Case) String() string {
	var out bytes.Buffer
	out.WriteString("case ")
	out.WriteString(c.Scrutinee.String())
	out.WriteString(" of ")
	for _, br := range c.Branches {
		out.WriteString(br.Name)
		out.WriteString(": ")
		out.WriteString(br.Type)
		out.WriteString(" => ")
		out.WriteString(br.Body.String())
		out.WriteString("; ")
	}
	out.WriteString("esac")
	return out.String()
}

// New is `new T`.
type New struct {
	exprBase
	Token Token
	TypeName string
}

func (n *New) exprNode()           {}
func (n *New) Pos() lexer.Position { return n.Token.Pos }
func (n *New) String() string      { return "new " + n.TypeName }

// IsVoid is `isvoid e`.
type IsVoid struct {
	exprBase
	Token Token
	Expr  Expr
}

func (i *IsVoid) exprNode()           {}
func (i *IsVoid) Pos() lexer.Position { return i.Token.Pos }
func (i *IsVoid) String() string      { return "isvoid " + i.Expr.String() }

// BinOpKind enumerates the seven arithmetic/comparison infix operators.
type BinOpKind int

const (
	OpAdd BinOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpLt
	OpLe
	OpEq
)

func (k BinOpKind) String() string {
	switch k {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpEq:
		return "="
	default:
		return "?"
	}
}

// BinOp is one of `+ - * / < <= =`.
type BinOp struct {
	exprBase
	Token Token
	Op    BinOpKind
	Left  Expr
	Right Expr
}

func (b *BinOp) exprNode()           {}
func (b *BinOp) Pos() lexer.Position { return b.Token.Pos }
func (b *BinOp) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// UnOpKind distinguishes `~` (integer complement) from `not` (boolean
// negation); `isvoid` has its own node since it isn't a value-typed unary
// operator in the same family.
type UnOpKind int

const (
	OpComplement UnOpKind = iota
	OpNot
)

// UnOp is `~e` or `not e`.
type UnOp struct {
	exprBase
	Token Token
	Op    UnOpKind
	Expr  Expr
}

func (u *UnOp) exprNode()           {}
func (u *UnOp) Pos() lexer.Position { return u.Token.Pos }
func (u *UnOp) String() string {
	if u.Op == OpComplement {
		return "~" + u.Expr.String()
	}
	return "not " + u.Expr.String()
}

// Paren is a parenthesized grouping `(e)`. It is transparent to typing
// (same static type as its inner expression) but is kept as its own node
// so pkg/printer can round-trip the parentheses.
type Paren struct {
	exprBase
	Token Token
	Inner Expr
}

func (p *Paren) exprNode()           {}
func (p *Paren) Pos() lexer.Position { return p.Token.Pos }
func (p *Paren) String() string      { return "(" + p.Inner.String() + ")" }

// Id is an object-identifier reference, including `self`.
type Id struct {
	exprBase
	Token Token
	Name  string
}

func (i *Id) exprNode()           {}
func (i *Id) Pos() lexer.Position { return i.Token.Pos }
func (i *Id) String() string      { return i.Name }

// IntLit is an integer literal. Value is kept as the literal decimal
// text, and the lexer accepts literals of any magnitude. No later stage
// checks the range: ir.parseIntLit reads the text into an int64 and
// codegen emits that value as a .word without checking that it fits in
// 32 bits.
type IntLit struct {
	exprBase
	Token Token
	Value string
}

func (l *IntLit) exprNode()           {}
func (l *IntLit) Pos() lexer.Position { return l.Token.Pos }
func (l *IntLit) String() string      { return l.Value }

// StringLit is a string literal; Value holds the already-unescaped text.
type StringLit struct {
	exprBase
	Token Token
	Value string
}

func (s *StringLit) exprNode()           {}
func (s *StringLit) Pos() lexer.Position { return s.Token.Pos }
func (s *StringLit) String() string      { return "\"" + escapeForPrint(s.Value) + "\"" }

func escapeForPrint(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n", "\t", "\\t")
	return r.Replace(s)
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	exprBase
	Token Token
	Value bool
}

func (b *BoolLit) exprNode()           {}
func (b *BoolLit) Pos() lexer.Position { return b.Token.Pos }
func (b *BoolLit) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
