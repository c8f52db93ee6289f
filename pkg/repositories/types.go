package repositories

type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

type ErrUserExists struct {
}

func (e *ErrUserExists) Error() string {
	return "user already exists"
}

func IsUserExists(err error) bool {
	_, ok := err.(*ErrUserExists)
	return ok
}
