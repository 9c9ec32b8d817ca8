package domain

import "fmt"

// RejectReason names the rule a rejected command failed, so clients can
// surface the specific violation.
type RejectReason string

const (
	ReasonBidRange      RejectReason = "bid_out_of_range"
	ReasonBidHook       RejectReason = "bid_hook_violation"
	ReasonMustFollow    RejectReason = "must_follow_suit"
	ReasonCardNotHeld   RejectReason = "card_not_in_hand"
	ReasonOutOfTurn     RejectReason = "out_of_turn"
	ReasonWrongPhase    RejectReason = "wrong_phase"
	ReasonUnknownPlayer RejectReason = "unknown_player"
	ReasonBidAlreadySet RejectReason = "bid_already_placed"
)

// RuleError is a recoverable validation failure. State is never mutated
// when one is returned.
type RuleError struct {
	Reason RejectReason
	Detail string
}

func (e *RuleError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func ruleErr(reason RejectReason, format string, args ...interface{}) error {
	return &RuleError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason from an error, or empty if the
// error is not a rule rejection.
func ReasonOf(err error) RejectReason {
	if re, ok := err.(*RuleError); ok {
		return re.Reason
	}
	return ""
}

// InvariantError is fatal to a game instance: the state can no longer be
// trusted and the game must be marked failed rather than continue.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}

func invariantErr(format string, args ...interface{}) error {
	return &InvariantError{Detail: fmt.Sprintf(format, args...)}
}

// IsInvariant reports whether err is fatal to the game instance.
func IsInvariant(err error) bool {
	_, ok := err.(*InvariantError)
	return ok
}
