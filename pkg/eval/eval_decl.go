package eval

import (
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

func (fm *Frame) evalFunction(n *parse.Function) (any, error) {
	c := &Closure{Name: n.Name, Params: n.Params, Body: n.Body, Env: fm.env, Async: n.Async, src: fm.src}
	fm.env.Define(n.Name, c, false)
	return c, nil
}

// methodClosure makes a closure for a method declared on owner. The closure's
// scope binds Self to the owner's definition.
func (fm *Frame) methodClosure(f *parse.Function, owner string, env *Env) *Closure {
	c := &Closure{Name: f.Name, Params: f.Params, Body: f.Body, Env: env, Async: f.Async, Owner: owner, src: fm.src}
	if f.IsMethod() {
		c.Self = f.Params[0].Self
	}
	return c
}

func (fm *Frame) selfEnv(def any) *Env {
	env := NewEnv(fm.env)
	env.Define("Self", def, false)
	return env
}

func (fm *Frame) evalStructDecl(n *parse.StructDecl) (any, error) {
	names := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		names[i] = f.Name
	}
	fm.env.Define(n.Name, &StructDef{n.Name, n.Fields, names, -1, n.Derives, fm.env}, false)
	return nil, nil
}

func (fm *Frame) evalTupleStruct(n *parse.TupleStruct) (any, error) {
	fields := make([]parse.StructField, len(n.Fields))
	names := make([]string, len(n.Fields))
	for i, t := range n.Fields {
		names[i] = strconv.Itoa(i)
		fields[i] = parse.StructField{Name: names[i], Type: t}
	}
	fm.env.Define(n.Name, &StructDef{n.Name, fields, names, len(n.Fields), n.Derives, fm.env}, false)
	return nil, nil
}

func (fm *Frame) evalEnum(n *parse.Enum) (any, error) {
	fm.env.Define(n.Name, &EnumDef{n.Name, n.Variants}, false)
	return nil, nil
}

func (fm *Frame) evalTrait(n *parse.Trait) (any, error) {
	def := &TraitDef{Name: n.Name, env: fm.env, src: fm.src}
	for _, m := range n.Methods {
		if f, ok := m.Kind.(*parse.Function); ok {
			def.Methods = append(def.Methods, f)
		}
	}
	fm.ip.traits[n.Name] = def
	fm.env.Define(n.Name, def, false)
	return nil, nil
}

// implTypeName maps the name of a type in an impl header to the type name of
// its values.
func implTypeName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "i8", "i16", "i32", "i64", "i128", "isize", "u8", "u16", "u32", "u64", "u128", "usize", "int":
		return "integer"
	case "f32", "f64", "float":
		return "float"
	case "String", "str", "&str":
		return "string"
	case "Vec", "Array":
		return "array"
	case "HashMap", "BTreeMap", "Object":
		return "object"
	case "HashSet", "BTreeSet":
		return "set"
	}
	return name
}

// addTraitDefaults gives a type the default methods of a trait that it does
// not define itself.
func (fm *Frame) addTraitDefaults(typeName, trait string, has func(string) bool) {
	def, ok := fm.ip.traits[trait]
	if !ok {
		return
	}
	for _, f := range def.Methods {
		if f.Body == nil || has(f.Name) {
			continue
		}
		c := &Closure{Name: f.Name, Params: f.Params, Body: f.Body, Env: def.env, Async: f.Async, Owner: typeName, src: def.src}
		if f.IsMethod() {
			c.Self = f.Params[0].Self
		}
		fm.ip.addMethod(typeName, c)
	}
}

func (fm *Frame) evalImpl(e *parse.Expr, n *parse.Impl) (any, error) {
	typeName := implTypeName(n.ForType)
	var self any = typeName
	if def, ok := fm.lookup(n.ForType); ok {
		self = def
	}
	env := fm.selfEnv(self)
	for _, m := range n.Methods {
		f, ok := m.Kind.(*parse.Function)
		if !ok {
			continue
		}
		fm.ip.addMethod(typeName, fm.methodClosure(f, typeName, env))
	}
	if n.Trait != "" {
		fm.addTraitDefaults(typeName, n.Trait, func(name string) bool {
			_, ok := fm.ip.methods[typeName][name]
			return ok
		})
	}
	return nil, nil
}

func (fm *Frame) evalClass(e *parse.Expr, n *parse.Class) (any, error) {
	def := &ClassDef{
		Name:         n.Name,
		Traits:       n.Traits,
		Constructors: make(map[string]*parse.Constructor),
		Methods:      make(map[string]*Closure),
		Constants:    make(map[string]any),
		src:          fm.src,
	}
	if n.Superclass != "" {
		super, ok := fm.lookup(n.Superclass)
		if !ok {
			return nil, fm.errorf(e, UndefinedVariable, "undefined superclass %s", n.Superclass)
		}
		superDef, ok := super.(*ClassDef)
		if !ok {
			return nil, fm.errorf(e, TypeError, "%s is not a class", n.Superclass)
		}
		def.Super = superDef
		def.Fields = append(def.Fields, superDef.Fields...)
	}
	def.Fields = append(def.Fields, n.Fields...)
	for _, f := range def.Fields {
		def.Names = append(def.Names, f.Name)
	}
	env := fm.selfEnv(def)
	if def.Super != nil {
		env.Define("Super", def.Super, false)
	}
	def.env = env
	for _, c := range n.Constructors {
		name := c.Name
		if name == "" {
			name = "new"
		}
		def.Constructors[name] = c
	}
	for _, m := range n.Methods {
		if f, ok := m.Kind.(*parse.Function); ok {
			def.Methods[f.Name] = fm.methodClosure(f, n.Name, env)
		}
	}
	for _, c := range n.Constants {
		v, err := fm.eval(c.Value)
		if err != nil {
			return nil, err
		}
		def.Constants[c.Name] = v
	}
	for _, t := range n.Traits {
		fm.addTraitDefaults(n.Name, t, func(name string) bool {
			_, ok := def.method(name)
			return ok
		})
	}
	fm.env.Define(n.Name, def, false)
	return nil, nil
}

// zeroValue is the initial value of a field declared without a default.
func zeroValue(t *parse.TypeExpr) any {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case parse.NamedType:
		switch implTypeName(t.Name) {
		case "integer":
			return int64(0)
		case "float":
			return 0.0
		case "string":
			return ""
		case "bool":
			return false
		case "array":
			return vals.EmptyList
		case "object":
			return vals.Object{}
		case "Option":
			return vals.None
		}
	case parse.ListType:
		return vals.EmptyList
	case parse.OptionalType:
		return vals.None
	}
	return nil
}

// fieldDefaults evaluates the defaults of fields in the scope the type was
// declared in.
func (fm *Frame) fieldDefaults(e *parse.Expr, fields []parse.StructField, env *Env, src parse.Source, skip func(string) bool) (map[string]any, error) {
	values := make(map[string]any, len(fields))
	declFrame := fm.fork(env, src, nil)
	for _, f := range fields {
		if skip != nil && skip(f.Name) {
			continue
		}
		if f.Default == nil {
			values[f.Name] = zeroValue(f.Type)
			continue
		}
		v, err := declFrame.eval(f.Default)
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}
	return values, nil
}

var selfParam = parse.Param{Pattern: &parse.IdentPattern{Name: "self"}, Self: parse.SelfMutRef}

// construct creates an instance of a class with the named constructor.
func (fm *Frame) construct(e *parse.Expr, def *ClassDef, name string, args []any) (any, error) {
	fields, err := fm.fieldDefaults(e, def.Fields, def.env, def.src, nil)
	if err != nil {
		return nil, err
	}
	inst := vals.NewInstance(def.Name, def.Names, def, fields)
	var ctor *parse.Constructor
	var owner *ClassDef
	for c := def; c != nil && ctor == nil; c = c.Super {
		ctor, owner = c.Constructors[name], c
	}
	if ctor == nil {
		if name != "new" {
			return nil, fm.errorf(e, UnknownMethod, "class %s has no constructor %s", def.Name, name)
		}
		if len(args) > len(def.Names) {
			return nil, fm.errorf(e, TypeError, "%s::new takes at most %d arguments, got %d", def.Name, len(def.Names), len(args))
		}
		for i, a := range args {
			inst.Set(def.Names[i], a)
		}
		return inst, nil
	}
	c := &Closure{
		Name:   def.Name + "::" + name,
		Params: append([]parse.Param{selfParam}, ctor.Params...),
		Body:   ctor.Body,
		Env:    owner.env,
		Self:   parse.SelfMutRef,
		Owner:  def.Name,
		src:    owner.src,
	}
	v, _, err := fm.callClosure(e, c, inst, true, args)
	if err != nil {
		return nil, err
	}
	if other, ok := v.(*vals.Instance); ok {
		return other, nil
	}
	return inst, nil
}

// constructStruct creates a struct from positional arguments: the fields of
// a tuple struct, or the fields of a struct in declaration order.
func (fm *Frame) constructStruct(e *parse.Expr, def *StructDef, args []any) (any, error) {
	if def.TupleArity >= 0 && len(args) != def.TupleArity {
		return nil, fm.errorf(e, TypeError, "%s takes %d arguments, got %d", def.Name, def.TupleArity, len(args))
	}
	if len(args) > len(def.Names) {
		return nil, fm.errorf(e, TypeError, "%s has %d fields, got %d arguments", def.Name, len(def.Names), len(args))
	}
	fields, err := fm.fieldDefaults(e, def.Fields[len(args):], def.env, fm.src, nil)
	if err != nil {
		return nil, err
	}
	for i, a := range args {
		fields[def.Names[i]] = a
	}
	return vals.NewStruct(def.Name, def.Names, fields), nil
}

func (fm *Frame) evalStructLiteral(e *parse.Expr, n *parse.StructLiteral) (any, error) {
	given := make(map[string]any, len(n.Fields))
	for _, f := range n.Fields {
		v, err := fm.eval(f.Value)
		if err != nil {
			return nil, err
		}
		given[f.Name] = v
	}
	if i := strings.LastIndex(n.Name, "::"); i >= 0 {
		return fm.structVariant(e, n.Name[:i], n.Name[i+2:], given)
	}
	def, ok := fm.lookup(n.Name)
	if !ok {
		return nil, fm.errorf(e, UndefinedVariable, "undefined struct %s", n.Name)
	}
	switch def := def.(type) {
	case *StructDef:
		if err := checkFields(fm, e, def.Name, def.Names, given); err != nil {
			return nil, err
		}
		if n.Base != nil {
			base, err := fm.eval(n.Base)
			if err != nil {
				return nil, err
			}
			bs, ok := base.(vals.Struct)
			if !ok || bs.Name != def.Name {
				return nil, fm.errorf(n.Base, TypeError, "struct update base must be a %s, got %s", def.Name, vals.TypeName(base))
			}
			for _, name := range def.Names {
				if _, ok := given[name]; !ok {
					given[name], _ = bs.Get(name)
				}
			}
		}
		for _, f := range def.Fields {
			if _, ok := given[f.Name]; !ok && f.Default == nil {
				return nil, fm.errorf(e, TypeError, "missing field %s in %s", f.Name, def.Name)
			}
		}
		defaults, err := fm.fieldDefaults(e, def.Fields, def.env, fm.src, func(name string) bool {
			_, ok := given[name]
			return ok
		})
		if err != nil {
			return nil, err
		}
		for k, v := range defaults {
			given[k] = v
		}
		return vals.NewStruct(def.Name, def.Names, given), nil
	case *ClassDef:
		if err := checkFields(fm, e, def.Name, def.Names, given); err != nil {
			return nil, err
		}
		fields, err := fm.fieldDefaults(e, def.Fields, def.env, def.src, func(name string) bool {
			_, ok := given[name]
			return ok
		})
		if err != nil {
			return nil, err
		}
		for k, v := range given {
			fields[k] = v
		}
		return vals.NewInstance(def.Name, def.Names, def, fields), nil
	}
	return nil, fm.errorf(e, TypeError, "%s is not a struct", n.Name)
}

func checkFields(fm *Frame, e *parse.Expr, typeName string, names []string, given map[string]any) error {
	for name := range given {
		found := false
		for _, n := range names {
			if n == name {
				found = true
				break
			}
		}
		if !found {
			return fm.errorf(e, UnknownField, "%s has no field %s", typeName, name)
		}
	}
	return nil
}

func (fm *Frame) structVariant(e *parse.Expr, enum, variant string, given map[string]any) (any, error) {
	def, ok := fm.lookup(enum)
	if !ok {
		return nil, fm.errorf(e, UndefinedVariable, "undefined enum %s", enum)
	}
	ed, ok := def.(*EnumDef)
	if !ok {
		return nil, fm.errorf(e, TypeError, "%s is not an enum", enum)
	}
	_, v := ed.variant(variant)
	if v == nil || v.Kind != parse.StructVariant {
		return nil, fm.errorf(e, UnknownField, "enum %s has no struct variant %s", enum, variant)
	}
	names := make([]string, len(v.StructFields))
	data := make([]any, len(v.StructFields))
	for i, f := range v.StructFields {
		names[i] = f.Name
		val, ok := given[f.Name]
		if !ok {
			return nil, fm.errorf(e, TypeError, "missing field %s in %s::%s", f.Name, enum, variant)
		}
		data[i] = val
	}
	if err := checkFields(fm, e, enum+"::"+variant, names, given); err != nil {
		return nil, err
	}
	return vals.EnumVariant{Enum: enum, Variant: variant, Data: data, FieldNames: names}, nil
}

// evalImport accepts imports of the standard library, whose items are always
// in scope.
func (fm *Frame) evalImport(e *parse.Expr, n *parse.Import) (any, error) {
	if len(n.Path) > 0 && (n.Path[0] == "std" || n.Path[0] == "core") {
		if n.Alias != "" {
			if v, ok := fm.ip.builtins[strings.Join(n.Path[1:], "::")]; ok {
				fm.env.Define(n.Alias, v, false)
			}
		}
		return nil, nil
	}
	logger.Printf("ignoring import of %s", strings.Join(n.Path, "::"))
	return nil, nil
}
