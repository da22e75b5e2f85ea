package result

// Result holds exactly one of a success value or a *Failure.
// The zero value is not meaningful; build one with Ok or Fail.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok wraps a success value
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail wraps a failure. A nil failure panics since it would make the
// result indistinguishable from a zero success.
func Fail[T any](f *Failure) Result[T] {
	if f == nil {
		panic("result: Fail called with nil failure")
	}
	return Result[T]{failure: f}
}

// Match consumes a result by handling both variants
func Match[T, R any](r Result[T], onSuccess func(T) R, onFailure func(*Failure) R) R {
	if r.failure != nil {
		return onFailure(r.failure)
	}
	return onSuccess(r.value)
}
