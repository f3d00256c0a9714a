package domain

import "errors"

var (
	// ErrScheduleUnavailable is returned when schedule or question data cannot be loaded.
	ErrScheduleUnavailable = errors.New("schedule unavailable")
	// ErrIncompleteSchedule indicates a day between 1 and 14 is missing or duplicated.
	ErrIncompleteSchedule = errors.New("schedule must define each of days 1-14 exactly once")
	// ErrUnknownQuestion indicates a schedule references a question missing from the bank.
	ErrUnknownQuestion = errors.New("question not found in question bank")
	// ErrProgressNotFound is returned when no session has been persisted.
	ErrProgressNotFound = errors.New("progress not found")
	// ErrNameRequired is returned when a journey is started without a name.
	ErrNameRequired = errors.New("name is required to start the journey")
	// ErrAlreadyStarted is returned when the profile is set twice.
	ErrAlreadyStarted = errors.New("journey already started")
	// ErrEmptyAnswer is returned when an answer is blank.
	ErrEmptyAnswer = errors.New("please answer the question before continuing")
	// ErrNoPreviousQuestion is returned when navigating back from the first question.
	ErrNoPreviousQuestion = errors.New("no previous question")
	// ErrInvalidTransition is returned when an action is not allowed in the current phase.
	ErrInvalidTransition = errors.New("action not allowed in current phase")
	// ErrNothingToResume is returned when resume is requested without a persisted journey.
	ErrNothingToResume = errors.New("no journey to resume")
	// ErrResetNotConfirmed is returned when reset is requested without confirmation.
	ErrResetNotConfirmed = errors.New("reset requires confirmation")
)
