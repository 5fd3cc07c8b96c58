package action

import (
	"fmt"

	"github.com/louisbranch/stanks.space/internal/arena/game"
	apperrors "github.com/louisbranch/stanks.space/internal/platform/errors"
)

var (
	// ErrSenderNotFound indicates the sharing player is not registered.
	ErrSenderNotFound = apperrors.New(apperrors.CodeNotFound, "Sender not found!")
	// ErrReceiverNotFound indicates the receiving player is not registered.
	ErrReceiverNotFound = apperrors.New(apperrors.CodeNotFound, "Receiver not found!")
	// ErrInvalidShareAmount indicates a share amount below the minimum.
	ErrInvalidShareAmount = apperrors.New(apperrors.CodeInvalidAmount, "The provided share amount is not valid")
	// ErrShareOutOfRange indicates the receiver is outside the sender's reach.
	ErrShareOutOfRange = apperrors.New(apperrors.CodeOutOfRange, "The provided share amount is not within the range")
)

// Share transfers action points from one player to another within the
// sender's reach.
func Share(g *game.Game, fromID, toID string, amount int) error {
	sender, err := g.GetPlayer(fromID)
	if err != nil {
		return ErrSenderNotFound
	}
	receiver, err := g.GetPlayer(toID)
	if err != nil {
		return ErrReceiverNotFound
	}

	if sender.NextRound {
		return ErrActionNotAllowed
	}
	if amount < game.ShareAmountMin {
		return ErrInvalidShareAmount
	}
	if sender.Points <= game.PointsMin || sender.Points < amount {
		return ErrInsufficientPoints
	}
	if sender.Position.Distance(receiver.Position) > sender.Range {
		return ErrShareOutOfRange
	}

	senderAfter := sender.Points - amount
	receiverAfter := receiver.Points + amount

	g.AddLog(fmt.Sprintf("%s shares %d to %s", sender.Name, amount, receiver.Name))

	if err := g.SetPlayerPoints(fromID, senderAfter); err != nil {
		return err
	}
	return g.SetPlayerPoints(toID, receiverAfter)
}
