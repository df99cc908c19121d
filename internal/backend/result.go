package backend

// Result carries exactly one of a value or an error. Both may be absent: an
// empty success means the read was skipped or produced nothing.
type Result[T any] struct {
	Data *T
	Err  *Error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{Data: &value}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Err: AsError(err)}
}

func Empty[T any]() Result[T] {
	return Result[T]{}
}

// Wrap turns a (value, error) pair into a Result.
func Wrap[T any](value T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(value)
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}
