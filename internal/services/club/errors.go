package club

// ClubError is a custom error type for reading-session errors
type ClubError string

// Error implements the error interface
func (e ClubError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNoActiveSession  ClubError = "no active reading session for this guild"
	ErrSessionExists    ClubError = "a reading session already exists for this guild"
	ErrPhaseClosed      ClubError = "this action is not available in the current session phase"
	ErrNotAMember       ClubError = "user has not joined the reading session"
	ErrNoActiveVote     ClubError = "no early-end vote is in progress"
	ErrVoteInProgress   ClubError = "an early-end vote is already in progress"
	ErrInvalidDuration  ClubError = "duration must be a positive whole number of weeks or months"
	ErrInvalidStartTime ClubError = "start date and time must use the YYYY-MM-DD HH:MM format"
	ErrUnknownCandidate ClubError = "that title is not a candidate in the poll"
	ErrNilConfig        ClubError = "config cannot be nil"
	ErrNilSessionRepo   ClubError = "session repository cannot be nil"
	ErrNilRegistry      ClubError = "registry cannot be nil"
	ErrNilClock         ClubError = "clock cannot be nil"
	ErrNilUUIDGenerator ClubError = "UUID generator cannot be nil"
)
