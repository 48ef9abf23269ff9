package domain

import "errors"

var (
	// ErrQuizNotFound indicates the requested quiz is not in the catalog.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoAnswerSelected is returned when the user advances past a question
	// without recording an answer.
	ErrNoAnswerSelected = errors.New("no answer selected")
	// ErrAuthRequired is returned when submit is called without an
	// authenticated identity. The attempt stays active and may be resubmitted.
	ErrAuthRequired = errors.New("authentication required to submit results")
	// ErrAttemptSubmitted is returned when an operation is applied to an
	// attempt that already reached its terminal state.
	ErrAttemptSubmitted = errors.New("attempt already submitted")
	// ErrLevelLocked indicates the chosen difficulty level is not yet
	// selectable for this user.
	ErrLevelLocked = errors.New("difficulty level locked")
	// ErrQuestionNotFound indicates an answered question ID is not part of
	// the attempt.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a chosen option index is out of range.
	ErrOptionNotFound = errors.New("option not found")
	// ErrResultNotFound indicates no stored result matches the given ID.
	ErrResultNotFound = errors.New("result not found")
	// ErrNoPendingResult indicates neither a result ID nor a freshly
	// submitted result is available; callers treat this as an expired flow,
	// not a failure.
	ErrNoPendingResult = errors.New("no pending result")
)
