// Package action implements the player action pipeline: spawn, move,
// fire, invest, share and vote.
//
// Every action resolves its participants through the game accessors,
// validates business rules in a fixed order (existence, turn
// confirmation state, amount validity, resource sufficiency, then
// range and positional constraints), and writes exclusively through
// the game mutators. Validation is front-loaded so a failed action
// leaves no partial mutation behind.
package action
