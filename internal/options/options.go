// Package options implements the generic functional options used by the
// codec, reader and writer constructors.
package options

// Option configures a target of type T, typically a pointer to a config struct.
type Option[T any] interface {
	apply(T) error
}

// funcOption adapts a function to the Option interface.
type funcOption[T any] struct {
	fn func(T) error
}

func (o *funcOption[T]) apply(target T) error {
	return o.fn(target)
}

// New creates an option from a function that may reject its input.
func New[T any](fn func(T) error) Option[T] {
	return &funcOption[T]{fn: fn}
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return &funcOption[T]{fn: func(target T) error {
		fn(target)
		return nil
	}}
}

// Apply applies opts to target in order and stops at the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// Validator is implemented by targets that check their combined settings once
// every option has been applied.
type Validator interface {
	Validate() error
}

// Build applies opts to target and then validates it.
func Build[T Validator](target T, opts ...Option[T]) (T, error) {
	if err := Apply(target, opts...); err != nil {
		return target, err
	}
	if err := target.Validate(); err != nil {
		return target, err
	}

	return target, nil
}
