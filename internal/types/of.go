package types

import "glide/internal/object"

var (
	intType   = build(Int, nil)
	floatType = build(Float, nil)
	binType   = build(Bin, nil)
	strType   = build(Str, nil)
	objType   = build(Obj, nil)
	voidType  = build(Void, nil)
)

// Of returns the type of a runtime value. A list's element types are merged
// into a single union option; an empty list carries no element options.
func Of(o object.Object) *Type {
	switch v := o.(type) {
	case nil:
		return voidType
	case *object.Integer:
		return intType
	case *object.Float:
		return floatType
	case *object.Binary:
		return binType
	case *object.String:
		return strType
	case *object.Dict:
		return objType
	case *object.List:
		if len(v.Elements) == 0 {
			return build(List, nil)
		}
		elems := make([]*Type, 0, len(v.Elements))
		for _, el := range v.Elements {
			elems = append(elems, Of(el))
		}
		return ListOf(Union(elems...))
	}
	return voidType
}
