package agnostic

import "github.com/photonlab/refrakt/internal/field"

// Value is a resolved parameter value: either a complex scalar or a spatial
// field. The zero Value is the scalar 0.
type Value struct {
	field  *field.Field
	scalar complex128
}

// Scalar wraps a complex scalar.
func Scalar(c complex128) Value { return Value{scalar: c} }

// FieldValue wraps a spatial field.
func FieldValue(f *field.Field) Value { return Value{field: f} }

// IsField reports whether the value is a spatial field.
func (v Value) IsField() bool { return v.field != nil }

// Field returns the wrapped field, or nil for a scalar value.
func (v Value) Field() *field.Field { return v.field }

// Scalar returns the wrapped scalar. Only meaningful when IsField is false.
func (v Value) Scalar() complex128 { return v.scalar }

// AsField materializes the value over g: a field value is returned as is, a
// scalar is broadcast to a uniform field.
func (v Value) AsField(g *field.Grid) *field.Field {
	if v.field != nil {
		return v.field
	}
	return field.Uniform(g, v.scalar)
}
