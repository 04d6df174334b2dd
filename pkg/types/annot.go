package types

import (
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// typeDef describes a user-defined struct, tuple struct, class, enum or
// actor.
type typeDef struct {
	name    string
	params  []string
	fields  map[string]*parse.TypeExpr
	order   []string
	super   string
	enum    bool
	variant map[string]*parse.EnumVariant
	// Methods from impl blocks, class bodies and actor bodies; static
	// functions are included, with a flag.
	methods map[string]*Scheme
	static  map[string]bool
}

type typeTable struct {
	defs map[string]*typeDef
	// Variant name to enum name, for bare variant names like Red.
	variants map[string]string
}

func newTypeTable() *typeTable {
	return &typeTable{defs: map[string]*typeDef{}, variants: map[string]string{}}
}

func (tt *typeTable) define(name string, params []parse.TypeParam) *typeDef {
	d, ok := tt.defs[name]
	if !ok {
		d = &typeDef{name: name, fields: map[string]*parse.TypeExpr{},
			methods: map[string]*Scheme{}, static: map[string]bool{}}
		tt.defs[name] = d
	}
	d.params = nil
	for _, p := range params {
		d.params = append(d.params, p.Name)
	}
	return d
}

// field finds a field, following superclasses.
func (tt *typeTable) field(d *typeDef, name string) (*typeDef, *parse.TypeExpr, bool) {
	for seen := 0; d != nil && seen < 64; seen++ {
		if f, ok := d.fields[name]; ok {
			return d, f, true
		}
		d = tt.defs[d.super]
	}
	return nil, nil, false
}

// allFields returns the fields of d and its superclasses.
func (tt *typeTable) allFields(d *typeDef) map[string]*parse.TypeExpr {
	fields := map[string]*parse.TypeExpr{}
	for seen := 0; d != nil && seen < 64; seen++ {
		for k, v := range d.fields {
			if _, shadowed := fields[k]; !shadowed {
				fields[k] = v
			}
		}
		d = tt.defs[d.super]
	}
	return fields
}

// method finds a method, following superclasses.
func (tt *typeTable) method(name, method string) (*Scheme, bool) {
	d := tt.defs[name]
	for seen := 0; d != nil && seen < 64; seen++ {
		if m, ok := d.methods[method]; ok {
			return m, true
		}
		d = tt.defs[d.super]
	}
	return nil, false
}

// instance returns the type of a value of d, with fresh variables for its
// type parameters, and the mapping from parameter names to those variables.
func (c *Context) instance(d *typeDef) (Type, map[string]Type) {
	if len(d.params) == 0 {
		return Named{Name: d.name}, nil
	}
	m := make(map[string]Type, len(d.params))
	args := make([]Type, len(d.params))
	for i, p := range d.params {
		args[i] = c.fresh()
		m[p] = args[i]
	}
	return Named{d.name, args}, m
}

// instanceOf is like instance, but reuses the arguments of t when it is
// already an instance of d.
func (c *Context) instanceOf(d *typeDef, t Type) (Type, map[string]Type) {
	if n, ok := c.subst.Resolve(t).(Named); ok && n.Name == d.name && len(n.Args) == len(d.params) && len(n.Args) > 0 {
		m := make(map[string]Type, len(d.params))
		for i, p := range d.params {
			m[p] = n.Args[i]
		}
		return n, m
	}
	return c.instance(d)
}

// typeFromAnnot converts a type annotation. Names in params map to the
// given types; other type parameters in scope are looked up in the
// Context. A nil annotation gives a fresh variable.
func (c *Context) typeFromAnnot(te *parse.TypeExpr, params map[string]Type) Type {
	if te == nil {
		return c.fresh()
	}
	conv := func(te *parse.TypeExpr) Type { return c.typeFromAnnot(te, params) }
	arg := func(i int) Type {
		if i < len(te.Args) {
			return conv(te.Args[i])
		}
		return c.fresh()
	}
	switch te.Kind {
	case parse.TupleType:
		if len(te.Args) == 0 {
			return Unit
		}
		elems := make([]Type, len(te.Args))
		for i, a := range te.Args {
			elems[i] = conv(a)
		}
		return Tuple{elems}
	case parse.FunctionType:
		ps := make([]Type, len(te.Args))
		for i, a := range te.Args {
			ps[i] = conv(a)
		}
		ret := Type(Unit)
		if te.Ret != nil {
			ret = conv(te.Ret)
		}
		return Function{ps, ret}
	case parse.ListType, parse.ArrayType:
		return List{arg(0)}
	case parse.OptionalType:
		return Optional{arg(0)}
	case parse.ReferenceType:
		return Reference{arg(0), te.Mutable}
	case parse.InferType:
		return c.fresh()
	}

	if t, ok := params[te.Name]; ok {
		return t
	}
	if t, ok := c.typeParam(te.Name); ok {
		return t
	}
	switch te.Name {
	case "i8", "i16", "i32", "i64", "i128", "isize", "u8", "u16", "u32", "u64", "u128", "usize", "int", "Int", "integer":
		return Int
	case "f32", "f64", "float", "Float":
		return Float
	case "String", "str", "string", "&str":
		return String
	case "bool", "Bool":
		return Bool
	case "char", "Char":
		return Char
	case "()", "unit":
		return Unit
	case "Vec", "List", "VecDeque", "Array", "LinkedList":
		return List{arg(0)}
	case "Option", "Optional":
		return Optional{arg(0)}
	case "Result":
		return Result{arg(0), arg(1)}
	case "Box", "Rc", "Arc", "RefCell", "Cell", "Mutex":
		return arg(0)
	case "HashMap", "BTreeMap", "Object", "Map", "Dict":
		return Named{Name: "Object"}
	case "HashSet", "BTreeSet", "Set":
		return Named{"Set", []Type{arg(0)}}
	case "DataFrame":
		return Named{Name: "DataFrame"}
	case "Self":
		if len(c.self) > 0 {
			return c.self[len(c.self)-1]
		}
	case "Any", "any":
		return c.fresh()
	}
	args := make([]Type, len(te.Args))
	for i, a := range te.Args {
		args[i] = conv(a)
	}
	if d, ok := c.types.defs[te.Name]; ok && len(args) == 0 && len(d.params) > 0 {
		t, _ := c.instance(d)
		return t
	}
	return Named{te.Name, args}
}

func (c *Context) typeParam(name string) (Type, bool) {
	for i := len(c.tparams) - 1; i >= 0; i-- {
		if t, ok := c.tparams[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// pushTypeParams brings the type parameters of a declaration into scope as
// fresh variables.
func (c *Context) pushTypeParams(tps []parse.TypeParam) {
	m := make(map[string]Type, len(tps))
	for _, tp := range tps {
		m[tp.Name] = c.fresh()
	}
	c.tparams = append(c.tparams, m)
}

func (c *Context) popTypeParams() { c.tparams = c.tparams[:len(c.tparams)-1] }
