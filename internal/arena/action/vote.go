package action

import (
	"fmt"

	"github.com/louisbranch/stanks.space/internal/arena/game"
	"github.com/louisbranch/stanks.space/internal/arena/vote"
	apperrors "github.com/louisbranch/stanks.space/internal/platform/errors"
)

// ErrSignatureInvalid indicates the vote signature failed verification.
var ErrSignatureInvalid = apperrors.New(apperrors.CodeSignatureInvalid, "Signature validation failed")

// Vote grants a player one action point for a verified audience vote.
// A nil verifier defaults to the accept-all stub.
func Vote(g *game.Game, playerID, signature string, verifier vote.Verifier) error {
	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if verifier == nil {
		verifier = vote.AcceptAll{}
	}
	if signature == "" || !verifier.Verify(signature) {
		return ErrSignatureInvalid
	}

	g.AddLog(fmt.Sprintf("%s got vote", player.Name))

	return g.SetPlayerPoints(playerID, player.Points+1)
}
