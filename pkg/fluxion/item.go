package fluxion

// Item is a sum of Value(T) or Error(Error) — the unit carried by every
// stream in this library. Operators that accept Items of T must preserve
// the envelope: an error observed on input is forwarded to output unless
// the operator explicitly consumes it (OnError is the only one that does).
//
// The zero value of Item is not meaningful; construct one with Val or Err.
type Item[T any] struct {
	value T
	err   FluxionError
	isErr bool
}

// Val wraps v as a successful Item.
func Val[T any](v T) Item[T] {
	return Item[T]{value: v}
}

// Err wraps e as a failed Item.
func Err[T any](e FluxionError) Item[T] {
	return Item[T]{err: e, isErr: true}
}

// IsValue reports whether this item carries a value.
func (i Item[T]) IsValue() bool { return !i.isErr }

// IsError reports whether this item carries an error.
func (i Item[T]) IsError() bool { return i.isErr }

// Value returns the wrapped value and true, or the zero value and false
// if this item is an error.
func (i Item[T]) Value() (T, bool) {
	if i.isErr {
		var zero T
		return zero, false
	}
	return i.value, true
}

// Error returns the wrapped error and true, or the zero FluxionError and
// false if this item is a value.
func (i Item[T]) Error() (FluxionError, bool) {
	if !i.isErr {
		return FluxionError{}, false
	}
	return i.err, true
}

// Ok converts the item to a fallible (value, error) result pair, the
// idiomatic Go shape for crossing back out of the envelope.
func (i Item[T]) Ok() (T, error) {
	if i.isErr {
		var zero T
		return zero, i.err
	}
	return i.value, nil
}

// Map applies f to the wrapped value, leaving an error item unchanged.
func (i Item[T]) Map(f func(T) T) Item[T] {
	if i.isErr {
		return i
	}
	return Val(f(i.value))
}

// FromResult converts a fallible result into an Item.
func FromResult[T any](v T, err error) Item[T] {
	if err != nil {
		if fe, ok := err.(FluxionError); ok {
			return Err[T](fe)
		}
		return Err[T](StreamError(err.Error()))
	}
	return Val(v)
}

// Map converts Item[T] to Item[U] by applying f to a value; an error
// item is propagated unchanged.
func Map[T, U any](i Item[T], f func(T) U) Item[U] {
	if i.isErr {
		return Err[U](i.err)
	}
	return Val(f(i.value))
}

// AndThen converts Item[T] to Item[U] by applying a fallible projection;
// an error item is propagated unchanged without invoking f.
func AndThen[T, U any](i Item[T], f func(T) Item[U]) Item[U] {
	if i.isErr {
		return Err[U](i.err)
	}
	return f(i.value)
}

// ValuesEqual reports whether two items are both values and those values
// are equal. Two error items are never considered equal — this matches
// the source library's derived equality and is used only by test helpers.
func ValuesEqual[T comparable](a, b Item[T]) bool {
	av, aok := a.Value()
	bv, bok := b.Value()
	return aok && bok && av == bv
}
