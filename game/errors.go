package game

import "errors"

var (
	ErrRoomNotFound     = errors.New("Room not found")
	ErrPlayerNotFound   = errors.New("Player not found")
	ErrTargetNotFound   = errors.New("Target player not found")
	ErrBanned           = errors.New("You are banned from this room.")
	ErrRoomFull         = errors.New("Room is full")
	ErrSelfVote         = errors.New("You can't vote yourself")
	ErrNotEnoughPlayers = errors.New("Not enough players to vote kick")
	ErrNoGlobalRoom     = errors.New("All global rooms are full or inactive. Please try again soon!")
)
