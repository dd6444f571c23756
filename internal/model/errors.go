package model

import "errors"

var (
	ErrOutOfRange      = errors.New("coordinate out of range")
	ErrGameNotFound    = errors.New("game not found")
	ErrGameExists      = errors.New("game already exists")
	ErrGameFull        = errors.New("game is full")
	ErrGameNotActive   = errors.New("game is not active")
	ErrPlayerNotInGame = errors.New("player not in game")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrIllegalMove     = errors.New("illegal move")
	ErrAmbiguousMove   = errors.New("ambiguous move, captured squares required")
	ErrAlreadyQueued   = errors.New("player already in queue")
	ErrUnauthorized    = errors.New("not authorized to join this game")
)
