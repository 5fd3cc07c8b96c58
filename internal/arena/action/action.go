package action

import (
	apperrors "github.com/louisbranch/stanks.space/internal/platform/errors"
)

var (
	// ErrActionNotAllowed indicates the player has no in-progress turn:
	// a confirmed player must wait for the next round to begin.
	ErrActionNotAllowed = apperrors.New(apperrors.CodeActionNotAllowed, "Cannot take action until the next round begins")
	// ErrInsufficientPoints indicates the spender lacks the action
	// points an action requires.
	ErrInsufficientPoints = apperrors.New(apperrors.CodeInsufficientPoints, "Insufficient action points for this action")
)
