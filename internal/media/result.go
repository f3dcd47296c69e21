// Package media holds the best-effort image work done at ingestion: capture
// date extraction and thumbnail rendering.
package media

// Result is the outcome of a best-effort step. A step that could not produce
// a value reports why in Reason instead of failing its caller.
type Result[T any] struct {
	Value  T
	Reason error
}

func Available[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Unavailable[T any](reason error) Result[T] {
	return Result[T]{Reason: reason}
}

// Ok reports whether the step produced a value.
func (r Result[T]) Ok() bool {
	return r.Reason == nil
}
