package service

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrNotRoomHost      = errors.New("not the room host")
	ErrEmptyPlaylist    = errors.New("playlist has no usable tracks")
	ErrInvalidTrack     = errors.New("track needs a title, an artist and a release year")
	ErrUnknownKind      = errors.New("unknown suggestion kind")
)
