package game

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every *Error unwraps to exactly one of these, so callers
// match with errors.Is.
var (
	ErrConfiguration      = errors.New("configuration error")
	ErrUnknownName        = errors.New("unknown name")
	ErrAlreadyRevealed    = errors.New("already revealed")
	ErrBudgetNotMet       = errors.New("minimum guesses not met")
	ErrNoTargetsRemaining = errors.New("no targets remaining")
	ErrTurnOpen           = errors.New("turn already open")
	ErrNoOpenTurn         = errors.New("no open turn")
	ErrWrongPhase         = errors.New("wrong phase")
	ErrGameOver           = errors.New("game over")
	ErrInvalidInput       = errors.New("invalid input")
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	CodeConfiguration      ErrorCode = "CONFIGURATION"
	CodeUnknownName        ErrorCode = "UNKNOWN_NAME"
	CodeAlreadyRevealed    ErrorCode = "ALREADY_REVEALED"
	CodeBudgetNotMet       ErrorCode = "BUDGET_NOT_MET"
	CodeNoTargetsRemaining ErrorCode = "NO_TARGETS_REMAINING"
	CodeTurnOpen           ErrorCode = "TURN_OPEN"
	CodeNoOpenTurn         ErrorCode = "NO_OPEN_TURN"
	CodeWrongPhase         ErrorCode = "WRONG_PHASE"
	CodeGameOver           ErrorCode = "GAME_OVER"
	CodeInvalidInput       ErrorCode = "INVALID_INPUT"
)

var sentinels = map[ErrorCode]error{
	CodeConfiguration:      ErrConfiguration,
	CodeUnknownName:        ErrUnknownName,
	CodeAlreadyRevealed:    ErrAlreadyRevealed,
	CodeBudgetNotMet:       ErrBudgetNotMet,
	CodeNoTargetsRemaining: ErrNoTargetsRemaining,
	CodeTurnOpen:           ErrTurnOpen,
	CodeNoOpenTurn:         ErrNoOpenTurn,
	CodeWrongPhase:         ErrWrongPhase,
	CodeGameOver:           ErrGameOver,
	CodeInvalidInput:       ErrInvalidInput,
}

// Error is an engine error with structured fields for diagnostics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Name is the board name involved, if any.
	Name string

	// Team is the team involved, if any.
	Team Team
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	}
	if e.Team != "" {
		return fmt.Sprintf("%s: %s (team=%s)", e.Code, e.Message, e.Team)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the sentinel for e.Code.
func (e *Error) Unwrap() error {
	return sentinels[e.Code]
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func nameError(code ErrorCode, name, format string, args ...any) *Error {
	e := newError(code, format, args...)
	e.Name = name
	return e
}

func teamError(code ErrorCode, team Team, format string, args ...any) *Error {
	e := newError(code, format, args...)
	e.Team = team
	return e
}

// IsRejection reports whether err is a chooser mistake the engine recovers
// from by asking again: an unknown or revealed name, or a stop before the
// minimum number of guesses.
func IsRejection(err error) bool {
	return errors.Is(err, ErrUnknownName) ||
		errors.Is(err, ErrAlreadyRevealed) ||
		errors.Is(err, ErrBudgetNotMet)
}

// IsBudgetNotMet reports whether err is a premature stop.
func IsBudgetNotMet(err error) bool {
	return errors.Is(err, ErrBudgetNotMet)
}

// IsNoTargets reports whether err is a penalty with nothing to reveal.
func IsNoTargets(err error) bool {
	return errors.Is(err, ErrNoTargetsRemaining)
}

// CollaboratorError wraps a failure of an external proposer, validator or
// chooser (transport error, timeout, cancelled context). The engine never
// retries these itself; the phase is left unchanged so the caller can.
type CollaboratorError struct {
	Role string // "proposer", "validator" or "chooser"
	Team Team
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s for %s failed: %v", e.Role, e.Team, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Retryable is always true: collaborator failures do not change game state.
func (e *CollaboratorError) Retryable() bool {
	return true
}

// IsRetryable reports whether err is a collaborator failure.
// Uses errors.As to handle wrapped errors.
func IsRetryable(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}
