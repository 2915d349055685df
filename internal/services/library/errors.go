package library

// LibraryError is a custom error type for personal-library errors
type LibraryError string

// Error implements the error interface
func (e LibraryError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRatingOutOfRange LibraryError = "rating must be between 1 and 10"
	ErrBookNotFound     LibraryError = "that book is not in the library"
	ErrNilConfig        LibraryError = "config cannot be nil"
	ErrNilLibraryRepo   LibraryError = "library repository cannot be nil"
	ErrNilClock         LibraryError = "clock cannot be nil"
)
