package vals

// EnumVariant is a value of an enum type. Data is nil for unit variants. For
// struct variants FieldNames names the elements of Data. Message values built
// from an undeclared constructor like Ping(1) have an empty Enum.
type EnumVariant struct {
	Enum       string
	Variant    string
	Data       []any
	FieldNames []string
}

func (v EnumVariant) Kind() string { return "enum" }

// Field returns the named field of a struct variant.
func (v EnumVariant) Field(name string) (any, bool) {
	for i, n := range v.FieldNames {
		if n == name {
			return v.Data[i], true
		}
	}
	return nil, false
}

// Slot returns the i-th field of a struct variant.
func (v EnumVariant) Slot(i int) (any, bool) {
	if v.FieldNames == nil || i < 0 || i >= len(v.Data) {
		return nil, false
	}
	return v.Data[i], true
}

// Option values are variants of the enum "Option".

// None is the Option value None.
var None = EnumVariant{Enum: "Option", Variant: "None"}

// MakeSome returns the Option value Some(v).
func MakeSome(v any) EnumVariant {
	return EnumVariant{Enum: "Option", Variant: "Some", Data: []any{v}}
}

// OptionOf reports whether v is an Option value, and if so whether it is Some
// and its payload.
func OptionOf(v any) (isSome bool, payload any, ok bool) {
	ev, isEnum := v.(EnumVariant)
	if !isEnum || ev.Enum != "Option" {
		return false, nil, false
	}
	switch {
	case ev.Variant == "Some" && len(ev.Data) == 1:
		return true, ev.Data[0], true
	case ev.Variant == "None":
		return false, nil, true
	}
	return false, nil, false
}
