package combat

import (
	"errors"
	"fmt"
)

// Rejections. A rejected action emits nothing and leaves the session as it
// was; callers match these with errors.Is.
var (
	ErrGameOver        = errors.New("game is over")
	ErrWrongPhase      = errors.New("not allowed in this phase")
	ErrUnknownUnit     = errors.New("unknown unit")
	ErrUnitDestroyed   = errors.New("unit destroyed")
	ErrUnitShutdown    = errors.New("unit is shut down")
	ErrPilotDown       = errors.New("pilot unconscious")
	ErrUnknownWeapon   = errors.New("unknown weapon")
	ErrWeaponDestroyed = errors.New("weapon destroyed")
	ErrOutOfAmmo       = errors.New("out of ammunition")
	ErrAlreadyFired    = errors.New("weapon already fired this turn")
	ErrAlreadyMoved    = errors.New("unit already moved this turn")
	ErrInvalidTarget   = errors.New("invalid target")
	ErrOutOfRange      = errors.New("target out of range")
	ErrOutOfArc        = errors.New("target outside firing arc")
	ErrIneligible      = errors.New("attack not allowed")
	ErrInvalidMove     = errors.New("invalid movement")
)

// RejectionError reports why an action was refused.
type RejectionError struct {
	Action string
	UnitID string
	Err    error
	Detail string
}

func (e *RejectionError) Error() string {
	msg := fmt.Sprintf("%s by %s rejected: %v", e.Action, e.UnitID, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *RejectionError) Unwrap() error { return e.Err }

func reject(action, unitID string, err error, format string, args ...any) error {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &RejectionError{Action: action, UnitID: unitID, Err: err, Detail: detail}
}

// IsRejection reports whether err is a refused action rather than a
// failure of the log or the unit data.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
