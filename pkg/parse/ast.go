package parse

import (
	"fmt"

	"github.com/paiml/ruchy-sub012/pkg/diag"
)

// Literals.

type IntLit struct {
	Value  int64
	Suffix string
	// Source text without underscores, like "0xff" or "42".
	Raw string
}

type FloatLit struct {
	Value  float64
	Suffix string
	Raw    string
}

type StringLit struct{ Value string }

type BoolLit struct{ Value bool }

type CharLit struct{ Value rune }

type UnitLit struct{}

type NullLit struct{}

type AtomLit struct{ Name string }

// Names and access.

type Ident struct{ Name string }

// QualifiedName is a path like Color::Red.
type QualifiedName struct{ Path []string }

type FieldAccess struct {
	Object *Expr
	Field  string
}

type IndexAccess struct {
	Object *Expr
	Index  *Expr
}

// Slice is a[start..end] or a[start..=end]; Start and End may be nil.
type Slice struct {
	Object     *Expr
	Start, End *Expr
	Inclusive  bool
}

// Operators.

type Binary struct {
	Op          BinaryOp
	Left, Right *Expr
}

type Unary struct {
	Op      UnaryOp
	Operand *Expr
}

type Assign struct {
	Target, Value *Expr
}

type CompoundAssign struct {
	Op            BinaryOp
	Target, Value *Expr
}

// IncDec is ++x, x++, --x or x--.
type IncDec struct {
	Target    *Expr
	Decrement bool
	Postfix   bool
}

type TypeCast struct {
	Expr *Expr
	Type *TypeExpr
}

// Control flow.

type If struct {
	Cond, Then *Expr
	Else       *Expr
}

type IfLet struct {
	Pattern     Pattern
	Value, Then *Expr
	Else        *Expr
}

type Match struct {
	Scrutinee *Expr
	Arms      []MatchArm
}

type MatchArm struct {
	Pattern Pattern
	Guard   *Expr
	Body    *Expr
	diag.Ranging
}

type While struct {
	Label      string
	Cond, Body *Expr
}

type WhileLet struct {
	Label       string
	Pattern     Pattern
	Value, Body *Expr
}

type Loop struct {
	Label string
	Body  *Expr
}

// For is a for-in loop. Var is set when the loop variable is a plain
// identifier; Pattern is always set.
type For struct {
	Label      string
	Var        string
	Pattern    Pattern
	Iter, Body *Expr
}

type Break struct {
	Label string
	Value *Expr
}

type Continue struct{ Label string }

type Return struct{ Value *Expr }

// Bindings.

// Let binds Name to Value within Body. Inside blocks the rest of the block
// becomes Body; a let that ends its block has a nil Body and binds in the
// enclosing scope. Else, when present, runs if Value is None or Err and must
// diverge.
type Let struct {
	Name    string
	Mutable bool
	Type    *TypeExpr
	Value   *Expr
	Else    *Expr
	Body    *Expr
}

// LetPattern is let with a destructuring pattern.
type LetPattern struct {
	Pattern Pattern
	Mutable bool
	Type    *TypeExpr
	Value   *Expr
	Else    *Expr
	Body    *Expr
}

type Block struct{ Exprs []*Expr }

// Functions and calls.

// SelfKind tells whether and how a parameter is the method receiver.
type SelfKind int

const (
	NotSelf SelfKind = iota
	SelfValue
	SelfRef
	SelfMutRef
)

type Param struct {
	Pattern Pattern
	Type    *TypeExpr
	Default *Expr
	Self    SelfKind
	diag.Ranging
}

// Name returns the name bound by a simple parameter, or "" if the parameter
// is a destructuring pattern.
func (p *Param) Name() string {
	switch pat := p.Pattern.(type) {
	case *IdentPattern:
		return pat.Name
	case *MutPattern:
		if id, ok := pat.Inner.(*IdentPattern); ok {
			return id.Name
		}
	}
	return ""
}

type TypeParam struct {
	Name   string
	Bounds []string
}

type Lambda struct {
	Params []Param
	Body   *Expr
}

type AsyncLambda struct {
	Params []Param
	Body   *Expr
}

type Function struct {
	Name       string
	TypeParams []TypeParam
	Params     []Param
	ReturnType *TypeExpr
	// Nil for trait methods without a default body.
	Body  *Expr
	Async bool
	Pub   bool
}

// IsMethod reports whether the first parameter is a self parameter.
func (f *Function) IsMethod() bool {
	return len(f.Params) > 0 && f.Params[0].Self != NotSelf
}

type Call struct {
	Func *Expr
	Args []*Expr
}

type MethodCall struct {
	Receiver *Expr
	Method   string
	TypeArgs []*TypeExpr
	Args     []*Expr
}

// Macro is name!(...), name![...] or name!{...}. Delim is the opening
// delimiter.
type Macro struct {
	Name  string
	Delim byte
	Args  []*Expr
}

// Declarations.

type StructField struct {
	Name    string
	Type    *TypeExpr
	Default *Expr
	Pub     bool
	Mutable bool
	diag.Ranging
}

type StructDecl struct {
	Name       string
	TypeParams []TypeParam
	Fields     []StructField
	Derives    []string
	Pub        bool
}

type TupleStruct struct {
	Name       string
	TypeParams []TypeParam
	Fields     []*TypeExpr
	Derives    []string
	Pub        bool
}

type Constructor struct {
	// Empty for the plain "new" constructor.
	Name   string
	Params []Param
	Body   *Expr
	diag.Ranging
}

type ClassConst struct {
	Name  string
	Type  *TypeExpr
	Value *Expr
}

type Class struct {
	Name         string
	TypeParams   []TypeParam
	Superclass   string
	Traits       []string
	Fields       []StructField
	Constructors []*Constructor
	// Each method is an Expr whose Kind is *Function.
	Methods   []*Expr
	Constants []ClassConst
	Derives   []string
	Sealed    bool
	Abstract  bool
	Pub       bool
}

type VariantKind int

const (
	UnitVariant VariantKind = iota
	TupleVariant
	StructVariant
)

type EnumVariant struct {
	Name         string
	Kind         VariantKind
	Fields       []*TypeExpr
	StructFields []StructField
	Discriminant *int64
}

type Enum struct {
	Name       string
	TypeParams []TypeParam
	Variants   []EnumVariant
	Derives    []string
	Pub        bool
}

type Trait struct {
	Name       string
	TypeParams []TypeParam
	Methods    []*Expr
	Pub        bool
}

// Impl is "impl Type { ... }" or "impl Trait for Type { ... }".
type Impl struct {
	TypeParams []TypeParam
	Trait      string
	ForType    string
	Methods    []*Expr
}

// Import is "import a::b", "use a::b::{c, d}" or "import a::b as c".
type Import struct {
	Path  []string
	Items []string
	Alias string
}

// Export is "export <declaration>" or "export { a, b }".
type Export struct {
	Decl  *Expr
	Names []string
}

// Actor declares an actor type. Handlers are the arms of its receive block,
// matched against incoming messages in order.
type Actor struct {
	Name     string
	State    []StructField
	Methods  []*Expr
	Handlers []MatchArm
}

type ChildSpec struct {
	ID      string
	Actor   string
	Args    []*Expr
	Restart string
	// "Brutal", "Infinity" or a number of milliseconds.
	Shutdown string
	diag.Ranging
}

type Supervisor struct {
	Name        string
	Strategy    string
	MaxRestarts int64
	MaxSeconds  int64
	Children    []ChildSpec
}

// Composite literals.

type FieldInit struct {
	Name  string
	Value *Expr
}

// StructLiteral is Name { field: value, ..base }. Name may be a path like
// Shape::Circle for struct variants.
type StructLiteral struct {
	Name   string
	Fields []FieldInit
	Base   *Expr
}

type ObjectField struct {
	Key   string
	Value *Expr
	// ...expr spreads another object.
	Spread bool
}

type ObjectLiteral struct{ Fields []ObjectField }

type Tuple struct{ Elems []*Expr }

type List struct{ Elems []*Expr }

type Set struct{ Elems []*Expr }

// ArrayInit is [value; size].
type ArrayInit struct {
	Value, Size *Expr
}

type Range struct {
	Start, End *Expr
	Inclusive  bool
}

// CompClause is the "for pattern in iter if cond" tail of a comprehension.
type CompClause struct {
	Pattern Pattern
	Iter    *Expr
	Cond    *Expr
}

type ListComprehension struct {
	Element *Expr
	CompClause
}

type SetComprehension struct {
	Element *Expr
	CompClause
}

type DictComprehension struct {
	Key, Value *Expr
	CompClause
}

// InterpPart is a part of an interpolated string: literal text when Expr is
// nil, otherwise an expression with an optional format spec.
type InterpPart struct {
	Text   string
	Expr   *Expr
	Format string
}

type StringInterpolation struct{ Parts []InterpPart }

// Concurrency.

type Spawn struct{ Actor *Expr }

type SendKind int

const (
	// Fire enqueues the message and returns immediately.
	Fire SendKind = iota
	// CallMsg waits for the reply.
	CallMsg
)

type Send struct {
	Target  *Expr
	Message *Expr
	Kind    SendKind
	// Milliseconds; nil means no timeout.
	Timeout *Expr
}

type Await struct{ Expr *Expr }

type AsyncBlock struct{ Body *Expr }

type Receive struct{ Arms []MatchArm }

// Option and Result.

type Ok struct{ Value *Expr }

type Err struct{ Value *Expr }

type Some struct{ Value *Expr }

type None struct{}

// Try is the postfix ? operator.
type Try struct{ Expr *Expr }

type Throw struct{ Expr *Expr }

type CatchClause struct {
	// Nil catches everything without binding.
	Pattern Pattern
	// Only errors of this kind or type are caught when not empty.
	TypeFilter string
	Body       *Expr
}

type TryCatch struct {
	Body    *Expr
	Catches []CatchClause
	Finally *Expr
}

// DataFrames.

type DataFrameColumn struct {
	Name   string
	Values []*Expr
}

type DataFrame struct{ Columns []DataFrameColumn }

// DataFrameOp is a query operation applied to a dataframe literal, like
// df![...].select("a").
type DataFrameOp struct {
	Source *Expr
	Op     string
	Args   []*Expr
}

func (*IntLit) node()              {}
func (*FloatLit) node()            {}
func (*StringLit) node()           {}
func (*BoolLit) node()             {}
func (*CharLit) node()             {}
func (*UnitLit) node()             {}
func (*NullLit) node()             {}
func (*AtomLit) node()             {}
func (*Ident) node()               {}
func (*QualifiedName) node()       {}
func (*FieldAccess) node()         {}
func (*IndexAccess) node()         {}
func (*Slice) node()               {}
func (*Binary) node()              {}
func (*Unary) node()               {}
func (*Assign) node()              {}
func (*CompoundAssign) node()      {}
func (*IncDec) node()              {}
func (*TypeCast) node()            {}
func (*If) node()                  {}
func (*IfLet) node()               {}
func (*Match) node()               {}
func (*While) node()               {}
func (*WhileLet) node()            {}
func (*Loop) node()                {}
func (*For) node()                 {}
func (*Break) node()               {}
func (*Continue) node()            {}
func (*Return) node()              {}
func (*Let) node()                 {}
func (*LetPattern) node()          {}
func (*Block) node()               {}
func (*Lambda) node()              {}
func (*AsyncLambda) node()         {}
func (*Function) node()            {}
func (*Call) node()                {}
func (*MethodCall) node()          {}
func (*Macro) node()               {}
func (*StructDecl) node()          {}
func (*TupleStruct) node()         {}
func (*Class) node()               {}
func (*Enum) node()                {}
func (*Trait) node()               {}
func (*Impl) node()                {}
func (*Import) node()              {}
func (*Export) node()              {}
func (*Actor) node()               {}
func (*Supervisor) node()          {}
func (*StructLiteral) node()       {}
func (*ObjectLiteral) node()       {}
func (*Tuple) node()               {}
func (*List) node()                {}
func (*Set) node()                 {}
func (*ArrayInit) node()           {}
func (*Range) node()               {}
func (*ListComprehension) node()   {}
func (*SetComprehension) node()    {}
func (*DictComprehension) node()   {}
func (*StringInterpolation) node() {}
func (*Spawn) node()               {}
func (*Send) node()                {}
func (*Await) node()               {}
func (*AsyncBlock) node()          {}
func (*Receive) node()             {}
func (*Ok) node()                  {}
func (*Err) node()                 {}
func (*Some) node()                {}
func (*None) node()                {}
func (*Try) node()                 {}
func (*Throw) node()               {}
func (*TryCatch) node()            {}
func (*DataFrame) node()           {}
func (*DataFrameOp) node()         {}

// BinaryOp is a binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpNullCoalesce
	OpPipe
)

var binaryOpSymbols = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpPow: "**",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "&&", OpOr: "||", OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^",
	OpShl: "<<", OpShr: ">>", OpNullCoalesce: "??", OpPipe: "|>",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// IsComparison reports whether op is one of == != < <= > >=.
func (op BinaryOp) IsComparison() bool { return op >= OpEq && op <= OpGe }

// IsArithmetic reports whether op is one of + - * / % **.
func (op BinaryOp) IsArithmetic() bool { return op <= OpPow }

// IsBitwise reports whether op is one of & | ^ << >>.
func (op BinaryOp) IsBitwise() bool { return op >= OpBitAnd && op <= OpShr }

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
	OpRef
	OpRefMut
	OpDeref
)

var unaryOpSymbols = [...]string{
	OpNeg: "-", OpNot: "!", OpBitNot: "~", OpRef: "&", OpRefMut: "&mut ", OpDeref: "*",
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpSymbols) {
		return unaryOpSymbols[op]
	}
	return fmt.Sprintf("UnaryOp(%d)", int(op))
}
