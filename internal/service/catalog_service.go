package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"trackline/internal/model"
	"trackline/internal/repository"
	"trackline/internal/search"
)

// Suggestion kinds accepted by the suggest endpoint.
const (
	SuggestTracks  = "track"
	SuggestArtists = "artist"
)

// CatalogService owns playlists and the autocomplete indexes built from
// them. Indexes are built once per playlist and cached; playlists are
// treated as immutable after an update invalidates the cache entry.
type CatalogService struct {
	playlistRepo repository.PlaylistRepo

	mu      sync.RWMutex
	indexes map[string]*playlistIndexes
}

type playlistIndexes struct {
	tracks  *search.Index
	artists *search.Index
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(playlistRepo repository.PlaylistRepo) *CatalogService {
	return &CatalogService{
		playlistRepo: playlistRepo,
		indexes:      make(map[string]*playlistIndexes),
	}
}

// CreatePlaylist validates and stores a track catalog. Track and artist
// ids are assigned server-side; tracks by the same artist (compared
// case-insensitively) share one artist id.
func (s *CatalogService) CreatePlaylist(ctx context.Context, hostID, name string, tracks []model.Track) (*model.Playlist, error) {
	if name == "" || len(tracks) == 0 {
		return nil, ErrEmptyPlaylist
	}

	artistIDs := make(map[string]string)
	for i := range tracks {
		t := &tracks[i]
		if t.Title == "" || t.Artist == "" || t.Year == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTrack, t.Title)
		}
		t.ID = newTrackID()

		artistKey := strings.ToLower(strings.TrimSpace(t.Artist))
		if id, ok := artistIDs[artistKey]; ok {
			t.ArtistID = id
		} else {
			t.ArtistID = newArtistID()
			artistIDs[artistKey] = t.ArtistID
		}
	}

	playlist := &model.Playlist{
		HostID: hostID,
		Name:   name,
		Tracks: tracks,
	}

	id, err := s.playlistRepo.Create(ctx, playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	playlist.ID = id
	return playlist, nil
}

// GetPlaylist fetches one playlist.
func (s *CatalogService) GetPlaylist(ctx context.Context, id string) (*model.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	if playlist == nil {
		return nil, ErrPlaylistNotFound
	}
	return playlist, nil
}

// ListPlaylists returns all playlists owned by a host.
func (s *CatalogService) ListPlaylists(ctx context.Context, hostID string) ([]*model.Playlist, error) {
	return s.playlistRepo.GetByHostID(ctx, hostID)
}

// UpdatePlaylist replaces a playlist's name and tracks. Untouched ids
// are kept so rooms created earlier stay valid; new tracks get fresh
// ids. The cached indexes for the playlist are dropped.
func (s *CatalogService) UpdatePlaylist(ctx context.Context, hostID, id, name string, tracks []model.Track) (*model.Playlist, error) {
	existing, err := s.GetPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.HostID != hostID {
		return nil, ErrPlaylistNotFound
	}
	if name == "" || len(tracks) == 0 {
		return nil, ErrEmptyPlaylist
	}

	artistIDs := make(map[string]string)
	for _, t := range existing.Tracks {
		artistIDs[strings.ToLower(strings.TrimSpace(t.Artist))] = t.ArtistID
	}
	for i := range tracks {
		t := &tracks[i]
		if t.Title == "" || t.Artist == "" || t.Year == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTrack, t.Title)
		}
		if t.ID == "" {
			t.ID = newTrackID()
		}
		artistKey := strings.ToLower(strings.TrimSpace(t.Artist))
		if aid, ok := artistIDs[artistKey]; ok {
			t.ArtistID = aid
		} else {
			t.ArtistID = newArtistID()
			artistIDs[artistKey] = t.ArtistID
		}
	}

	existing.Name = name
	existing.Tracks = tracks
	if err := s.playlistRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	s.mu.Lock()
	delete(s.indexes, id)
	s.mu.Unlock()
	return existing, nil
}

// DeletePlaylist removes a playlist owned by the host.
func (s *CatalogService) DeletePlaylist(ctx context.Context, hostID, id string) error {
	existing, err := s.GetPlaylist(ctx, id)
	if err != nil {
		return err
	}
	if existing.HostID != hostID {
		return ErrPlaylistNotFound
	}
	if err := s.playlistRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	s.mu.Lock()
	delete(s.indexes, id)
	s.mu.Unlock()
	return nil
}

// Suggest runs an autocomplete query against one of the playlist's
// indexes. Players resolve their typed guess to canonical ids here
// before submitting; nothing in room state changes.
func (s *CatalogService) Suggest(ctx context.Context, playlistID, kind, query string, limit int) ([]search.Result, error) {
	idx, err := s.indexesFor(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case SuggestTracks:
		return idx.tracks.Search(query, limit), nil
	case SuggestArtists:
		return idx.artists.Search(query, limit), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (s *CatalogService) indexesFor(ctx context.Context, playlistID string) (*playlistIndexes, error) {
	s.mu.RLock()
	idx, ok := s.indexes[playlistID]
	s.mu.RUnlock()
	if ok {
		return idx, nil
	}

	playlist, err := s.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	trackEntries := make([]search.Entry, 0, len(playlist.Tracks))
	artistEntries := make([]search.Entry, 0, len(playlist.Tracks))
	for _, t := range playlist.Tracks {
		trackEntries = append(trackEntries, search.Entry{ID: t.ID, Display: t.Title})
		artistEntries = append(artistEntries, search.Entry{ID: t.ArtistID, Display: t.Artist})
	}

	idx = &playlistIndexes{
		tracks:  search.Build(trackEntries),
		artists: search.Build(artistEntries),
	}

	s.mu.Lock()
	s.indexes[playlistID] = idx
	s.mu.Unlock()
	return idx, nil
}
