package iterator

// Iterator is a pull cursor: Next advances and reports whether an
// element is available, Current returns it, and Err surfaces whatever
// stopped a failed iteration.
type Iterator[T any] interface {
	Next() bool
	Current() T
	Err() error
}
