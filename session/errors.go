package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionActive is returned when starting a conversation while one is in progress
	ErrSessionActive = errors.New("a conversation is already in progress; end the current conversation before starting a new one")

	// ErrNoActiveSession is returned by operations that need a conversation in progress
	ErrNoActiveSession = errors.New("no active conversation")

	// ErrWordNotFound is returned when adjusting a word that was never added
	ErrWordNotFound = errors.New("not found in vocabulary")

	// ErrNoHistory is returned when no conversation has been archived yet
	ErrNoHistory = errors.New("no completed conversations found")

	// ErrMissingScenario is returned when a conversation is started without a scenario
	ErrMissingScenario = errors.New("scenarioID is required")

	// ErrMissingContent is returned for hints and challenges without content
	ErrMissingContent = errors.New("content is required")

	// ErrMissingWord is returned for blank vocabulary words
	ErrMissingWord = errors.New("word is required")

	// ErrNoCorrectionItems is returned for an empty correction box
	ErrNoCorrectionItems = errors.New("items array is required and must not be empty")

	// ErrIncompleteCorrection is returned when a correction item lacks a field
	ErrIncompleteCorrection = errors.New("each correction item must have 'original' and 'correction' fields")
)

func noActive(action string) error {
	return fmt.Errorf("%w to %s", ErrNoActiveSession, action)
}

func wordNotFound(word string) error {
	return fmt.Errorf("word %q %w", word, ErrWordNotFound)
}

// IsStateConflict reports whether err is caused by the session lifecycle
// rather than by bad input.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrSessionActive) ||
		errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrWordNotFound) ||
		errors.Is(err, ErrNoHistory)
}
