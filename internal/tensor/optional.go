package tensor

// Optional holds either a value or nothing.
//
// It replaces nil-pointer conventions for optional tensor arguments: an absent
// Optional means "no value supplied", never a zero-filled tensor.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// OrElse returns the held value, or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

// OptionalTensor is shorthand for an optional raw tensor argument.
type OptionalTensor = Optional[*RawTensor]

// MaybeTensor wraps r, treating nil as absent.
func MaybeTensor(r *RawTensor) OptionalTensor {
	if r == nil {
		return None[*RawTensor]()
	}
	return Some(r)
}
