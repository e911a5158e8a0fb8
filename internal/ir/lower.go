package ir

import (
	"fmt"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/semantic"
	"github.com/cwbudde/coolc/internal/types"
)

// Lower implements lower(typed_program) -> IRProgram from spec.md §4.4.
// prog must already be fully type-annotated (every Expr.Type() resolved)
// by a prior, error-free semantic.Analyzer.Run.
func Lower(prog *ast.Program, res *semantic.Result) *Program {
	p := NewProgram()
	for _, c := range BuildLayouts(res.Hierarchy, res.Classes) {
		p.addClass(c)
	}
	for _, c := range prog.Classes {
		lowerInit(p, c)
		for _, feat := range c.Features {
			if m, ok := feat.(*ast.Method); ok {
				lowerMethod(p, c.Name, m)
			}
		}
	}
	return p
}

// lowerInit builds _init_<C>: call _init_<parent> first, then evaluate
// each own attribute initializer in declaration order and store it.
// Object's chain bottoms out at the bare _init_Object stub codegen emits
// alongside the other built-in methods.
func lowerInit(p *Program, c *ast.Class) {
	fn := newFunction("_init_"+c.Name, c.Name)
	b := &builder{prog: p, fn: fn, class: c.Name, scope: newScope(nil)}
	b.cur = newBlock("entry")
	fn.Entry = b.cur
	fn.addBlock(b.cur)

	parent := c.Parent
	if parent == "" {
		parent = "Object"
	}
	b.cur.emit(Instr{Op: OpCallInit, StaticCls: parent})

	for _, feat := range c.Features {
		attr, ok := feat.(*ast.Attribute)
		if !ok {
			continue
		}
		var v Value
		switch {
		case attr.Init != nil:
			v = b.lowerExpr(attr.Init)
		default:
			// No initialiser: Int/Bool/String attributes default to
			// 0/false/"", not void, per the COOL reference manual.
			// Anything else keeps the prototype's zero (void) slot.
			dv, ok := primitiveDefault(attr.Type)
			if !ok {
				continue
			}
			v = dv
		}
		b.cur.emit(Instr{Op: OpStoreAttr, Args: []Value{b.loadSelf(), v}, AttrName: attr.Name})
	}
	b.cur.Term = Terminator{Kind: TermReturn, Value: b.loadSelf()}
	fn.NumLocals = b.numLocals
	p.addFunction(fn)
}

func lowerMethod(p *Program, class string, m *ast.Method) {
	fn := newFunction(methodLabel(class, m.Name), class)
	b := &builder{prog: p, fn: fn, class: class, scope: newScope(nil)}
	b.cur = newBlock("entry")
	fn.Entry = b.cur
	fn.addBlock(b.cur)

	for _, f := range m.Formals {
		slot := b.newLocal()
		b.scope.define(f.Name, slot)
	}
	fn.NumFormals = len(m.Formals)

	result := b.lowerExpr(m.Body)
	b.cur.Term = Terminator{Kind: TermReturn, Value: result}
	fn.NumLocals = b.numLocals
	p.addFunction(fn)
}

// builder lowers one method/init body. It is single-use: create one per
// Function, never shared across functions, since temps and locals are
// function-scoped.
type builder struct {
	prog      *Program
	fn        *Function
	class     string
	scope     *scope
	cur       *Block
	temps     TempPool
	numLocals int
	labelSeq  int
}

type scope struct {
	vars  map[string]int
	outer *scope
}

func newScope(outer *scope) *scope { return &scope{vars: make(map[string]int), outer: outer} }

func (s *scope) define(name string, slot int) { s.vars[name] = slot }

func (s *scope) resolve(name string) (int, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if slot, ok := cur.vars[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

func (b *builder) newLocal() int {
	slot := b.numLocals
	b.numLocals++
	return slot
}

func (b *builder) newTemp() Value { return b.temps.New() }

func (b *builder) newLabel(prefix string) string {
	b.labelSeq++
	return fmt.Sprintf("%s_%s_%d", prefix, b.fn.Name, b.labelSeq)
}

func (b *builder) newBlockInFn(prefix string) *Block {
	blk := newBlock(b.newLabel(prefix))
	b.fn.addBlock(blk)
	return blk
}

func (b *builder) loadSelf() Value {
	t := b.newTemp()
	b.cur.emit(Instr{Op: OpLoadSelf, Dst: t})
	return t
}

// lowerExpr is the lowering rule table: one case per ast.Expr variant,
// spec.md §4.4.
func (b *builder) lowerExpr(e ast.Expr) Value {
	switch n := e.(type) {
	case *ast.IntLit:
		return ConstInt(parseIntLit(n.Value))
	case *ast.BoolLit:
		return ConstBool(n.Value)
	case *ast.StringLit:
		return b.lowerStringLit(n.Value)
	case *ast.Id:
		return b.lowerId(n)
	case *ast.Assign:
		return b.lowerAssign(n)
	case *ast.Dispatch:
		return b.lowerDispatch(n)
	case *ast.If:
		return b.lowerIf(n)
	case *ast.While:
		return b.lowerWhile(n)
	case *ast.Block:
		return b.lowerBlock(n)
	case *ast.Let:
		return b.lowerLet(n)
	case *ast.Case:
		return b.lowerCase(n)
	case *ast.New:
		return b.lowerNew(n)
	case *ast.IsVoid:
		v := b.lowerExpr(n.Expr)
		t := b.newTemp()
		b.cur.emit(Instr{Op: OpIsVoid, Dst: t, Args: []Value{v}})
		return b.box(t, "Bool")
	case *ast.BinOp:
		return b.lowerBinOp(n)
	case *ast.UnOp:
		return b.lowerUnOp(n)
	case *ast.Paren:
		return b.lowerExpr(n.Inner)
	default:
		panic(fmt.Sprintf("ir: unhandled expression node %T", e))
	}
}

func (b *builder) lowerStringLit(s string) Value {
	b.prog.InternString(s)
	return ConstString(s)
}

func parseIntLit(lit string) int64 {
	var n int64
	neg := false
	i := 0
	if i < len(lit) && lit[i] == '-' {
		neg = true
		i++
	}
	for ; i < len(lit); i++ {
		n = n*10 + int64(lit[i]-'0')
	}
	if neg {
		n = -n
	}
	return n
}

func (b *builder) lowerId(n *ast.Id) Value {
	if n.Name == "self" {
		return b.loadSelf()
	}
	if slot, ok := b.scope.resolve(n.Name); ok {
		t := b.newTemp()
		b.cur.emit(Instr{Op: OpLoadLocal, Dst: t, Slot: slot})
		return t
	}
	// Not a local: must be an inherited or own attribute of self.
	t := b.newTemp()
	b.cur.emit(Instr{Op: OpLoadAttr, Dst: t, Args: []Value{b.loadSelf()}, AttrName: n.Name})
	return t
}

func (b *builder) lowerAssign(n *ast.Assign) Value {
	v := b.lowerExpr(n.Value)
	if slot, ok := b.scope.resolve(n.Name); ok {
		b.cur.emit(Instr{Op: OpStoreLocal, Args: []Value{v}, Slot: slot})
		return v
	}
	b.cur.emit(Instr{Op: OpStoreAttr, Args: []Value{b.loadSelf(), v}, AttrName: n.Name})
	return v
}

func (b *builder) lowerNew(n *ast.New) Value {
	class := n.TypeName
	if class == types.SelfType {
		class = b.class
	}
	t := b.newTemp()
	b.cur.emit(Instr{Op: OpNewObject, Dst: t, StaticCls: class})
	return t
}

func (b *builder) lowerBinOp(n *ast.BinOp) Value {
	if n.Op == ast.OpEq {
		return b.lowerEq(n)
	}
	lv := b.lowerExpr(n.Left)
	rv := b.lowerExpr(n.Right)
	lRaw := b.unbox(lv)
	rRaw := b.unbox(rv)

	switch n.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		raw := b.newTemp()
		b.cur.emit(Instr{Op: OpBinArith, Dst: raw, Args: []Value{lRaw, rRaw}, Arith: arithKindOf(n.Op)})
		return b.box(raw, "Int")
	case ast.OpLt, ast.OpLe:
		raw := b.newTemp()
		b.cur.emit(Instr{Op: OpCompare, Dst: raw, Args: []Value{lRaw, rRaw}, Cmp: cmpKindOf(n.Op)})
		return b.box(raw, "Bool")
	}
	panic("ir: unreachable binop kind")
}

func arithKindOf(op ast.BinOpKind) ArithKind {
	switch op {
	case ast.OpAdd:
		return ArithAdd
	case ast.OpSub:
		return ArithSub
	case ast.OpMul:
		return ArithMul
	default:
		return ArithDiv
	}
}

func cmpKindOf(op ast.BinOpKind) CmpKind {
	if op == ast.OpLe {
		return CmpLe
	}
	return CmpLt
}

// lowerEq implements spec.md §4.4's `=` rule: value compare with the
// header-and-payload protocol for Int/Bool/String, runtime
// equality_test otherwise.
func (b *builder) lowerEq(n *ast.BinOp) Value {
	lv := b.lowerExpr(n.Left)
	rv := b.lowerExpr(n.Right)
	t := b.newTemp()
	switch n.Left.Type() {
	case "Int", "Bool", "String":
		b.cur.emit(Instr{Op: OpValueEq, Dst: t, Args: []Value{lv, rv}})
	default:
		b.cur.emit(Instr{Op: OpEqualityTest, Dst: t, Args: []Value{lv, rv}})
	}
	return b.box(t, "Bool")
}

func (b *builder) lowerUnOp(n *ast.UnOp) Value {
	v := b.lowerExpr(n.Expr)
	raw := b.unbox(v)
	t := b.newTemp()
	if n.Op == ast.OpComplement {
		b.cur.emit(Instr{Op: OpNeg, Dst: t, Args: []Value{raw}})
		return b.box(t, "Int")
	}
	b.cur.emit(Instr{Op: OpNot, Dst: t, Args: []Value{raw}})
	return b.box(t, "Bool")
}

// unbox extracts the raw payload word of an Int/Bool object into a fresh
// temporary. Constant operands get an OpUnbox too: codegen loads every
// constant as the address of its boxed object, so the raw value only
// exists once it has been read out of that object.
func (b *builder) unbox(v Value) Value {
	t := b.newTemp()
	b.cur.emit(Instr{Op: OpUnbox, Dst: t, Args: []Value{v}})
	return t
}

func (b *builder) box(raw Value, class string) Value {
	t := b.newTemp()
	b.cur.emit(Instr{Op: OpBox, Dst: t, Args: []Value{raw}, BoxClass: class})
	return t
}

func (b *builder) lowerBlock(n *ast.Block) Value {
	var last Value
	for _, e := range n.Exprs {
		last = b.lowerExpr(e)
	}
	return last
}

func (b *builder) lowerLet(n *ast.Let) Value {
	var init Value
	if n.Binding.Init != nil {
		init = b.lowerExpr(n.Binding.Init)
	} else {
		init = defaultValue(n.Binding.Type)
	}
	slot := b.newLocal()
	b.cur.emit(Instr{Op: OpStoreLocal, Args: []Value{init}, Slot: slot})

	b.scope = newScope(b.scope)
	b.scope.define(n.Binding.Name, slot)
	result := b.lowerExpr(n.Body)
	b.scope = b.scope.outer
	return result
}

// defaultValue is the COOL default for an uninitialised attribute or let
// binding: 0 for Int, false for Bool, "" for String, void otherwise.
func defaultValue(declared string) Value {
	if v, ok := primitiveDefault(declared); ok {
		return v
	}
	return Void()
}

// primitiveDefault returns the COOL basic-type default for declared, if
// it names one of Int/Bool/String.
func primitiveDefault(declared string) (Value, bool) {
	switch declared {
	case "Int":
		return ConstInt(0), true
	case "Bool":
		return ConstBool(false), true
	case "String":
		return ConstString(""), true
	default:
		return Value{}, false
	}
}

func (b *builder) lowerIf(n *ast.If) Value {
	condObj := b.lowerExpr(n.Pred)
	cond := b.unbox(condObj)

	thenBlk := b.newBlockInFn("if_then")
	elseBlk := b.newBlockInFn("if_else")
	joinBlk := b.newBlockInFn("if_join")
	resultSlot := b.newLocal()

	b.cur.Term = Terminator{Kind: TermCondJump, Cond: cond, True: thenBlk, False: elseBlk}

	b.cur = thenBlk
	tv := b.lowerExpr(n.Then)
	b.cur.emit(Instr{Op: OpStoreLocal, Args: []Value{tv}, Slot: resultSlot})
	b.cur.Term = Terminator{Kind: TermJump, True: joinBlk}

	b.cur = elseBlk
	ev := b.lowerExpr(n.Else)
	b.cur.emit(Instr{Op: OpStoreLocal, Args: []Value{ev}, Slot: resultSlot})
	b.cur.Term = Terminator{Kind: TermJump, True: joinBlk}

	b.cur = joinBlk
	t := b.newTemp()
	b.cur.emit(Instr{Op: OpLoadLocal, Dst: t, Slot: resultSlot})
	return t
}

func (b *builder) lowerWhile(n *ast.While) Value {
	headBlk := b.newBlockInFn("while_head")
	bodyBlk := b.newBlockInFn("while_body")
	doneBlk := b.newBlockInFn("while_done")

	b.cur.Term = Terminator{Kind: TermJump, True: headBlk}

	b.cur = headBlk
	condObj := b.lowerExpr(n.Pred)
	cond := b.unbox(condObj)
	b.cur.Term = Terminator{Kind: TermCondJump, Cond: cond, True: bodyBlk, False: doneBlk}

	b.cur = bodyBlk
	b.lowerExpr(n.Body)
	b.cur.Term = Terminator{Kind: TermJump, True: headBlk}

	b.cur = doneBlk
	return Void()
}

// lowerCase implements spec.md §4.4/§4.5's case lowering: each branch
// becomes its own block storing into a shared result slot, reached via a
// TermCase terminator that records the declared branch class names.
// Codegen re-orders Arms by decreasing hierarchy depth and walks the
// scrutinee's runtime class at the point it lowers this terminator.
func (b *builder) lowerCase(n *ast.Case) Value {
	scrut := b.lowerExpr(n.Scrutinee)
	resultSlot := b.newLocal()
	joinBlk := b.newBlockInFn("case_join")

	arms := make([]CaseArm, len(n.Branches))
	for i, br := range n.Branches {
		armBlk := b.newBlockInFn("case_arm_" + br.Type)
		arms[i] = CaseArm{ClassName: br.Type, Body: armBlk, JoinSlot: resultSlot}

		save := b.cur
		b.cur = armBlk
		b.scope = newScope(b.scope)
		slot := b.newLocal()
		b.cur.emit(Instr{Op: OpStoreLocal, Args: []Value{scrut}, Slot: slot})
		b.scope.define(br.Name, slot)
		v := b.lowerExpr(br.Body)
		b.cur.emit(Instr{Op: OpStoreLocal, Args: []Value{v}, Slot: resultSlot})
		b.cur.Term = Terminator{Kind: TermJump, True: joinBlk}
		b.scope = b.scope.outer
		b.cur = save
	}

	b.cur.Term = Terminator{Kind: TermCase, Scrut: scrut, Arms: arms}

	b.cur = joinBlk
	t := b.newTemp()
	b.cur.emit(Instr{Op: OpLoadLocal, Dst: t, Slot: resultSlot})
	return t
}

// lowerDispatch implements both dynamic and static dispatch, spec.md
// §4.4: an explicit void check precedes the call.
func (b *builder) lowerDispatch(n *ast.Dispatch) Value {
	var recv Value
	recvClass := b.class
	if n.Receiver != nil {
		recv = b.lowerExpr(n.Receiver)
		if t := n.Receiver.Type(); t != "" && t != types.SelfType {
			recvClass = t
		}
	} else {
		recv = b.loadSelf()
	}
	b.cur.emit(Instr{Op: OpVoidCheck, Args: []Value{recv}})

	args := make([]Value, 0, len(n.Args)+1)
	args = append(args, recv)
	for _, a := range n.Args {
		args = append(args, b.lowerExpr(a))
	}

	t := b.newTemp()
	if n.Override != "" {
		b.cur.emit(Instr{Op: OpStaticCall, Dst: t, Args: args, Method: n.Method, StaticCls: n.Override})
	} else {
		b.cur.emit(Instr{Op: OpCall, Dst: t, Args: args, Method: n.Method, RecvClass: recvClass})
	}
	return t
}
