package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"trackline/internal/model"
)

type fakePlaylistRepo struct {
	playlists map[string]*model.Playlist
	nextID    int
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{playlists: make(map[string]*model.Playlist)}
}

func (r *fakePlaylistRepo) Create(_ context.Context, playlist *model.Playlist) (string, error) {
	r.nextID++
	id := fmt.Sprintf("pl_%d", r.nextID)
	cp := *playlist
	cp.ID = id
	r.playlists[id] = &cp
	return id, nil
}

func (r *fakePlaylistRepo) GetByID(_ context.Context, id string) (*model.Playlist, error) {
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, nil
	}
	cp := *playlist
	return &cp, nil
}

func (r *fakePlaylistRepo) GetByHostID(_ context.Context, hostID string) ([]*model.Playlist, error) {
	var out []*model.Playlist
	for _, p := range r.playlists {
		if p.HostID == hostID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePlaylistRepo) Update(_ context.Context, playlist *model.Playlist) error {
	cp := *playlist
	r.playlists[playlist.ID] = &cp
	return nil
}

func (r *fakePlaylistRepo) Delete(_ context.Context, id string) error {
	delete(r.playlists, id)
	return nil
}

func catalogTracks() []model.Track {
	return []model.Track{
		{Title: "Billie Jean", Artist: "Michael Jackson", Year: 1983},
		{Title: "Thriller", Artist: "Michael Jackson", Year: 1982},
		{Title: "Rolling in the Deep", Artist: "Adele", Year: 2010},
	}
}

func TestCreatePlaylistAssignsIDs(t *testing.T) {
	svc := NewCatalogService(newFakePlaylistRepo())

	playlist, err := svc.CreatePlaylist(context.Background(), "host_1", "Mix", catalogTracks())
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}
	if playlist.ID == "" {
		t.Fatal("playlist got no id")
	}

	seen := make(map[string]bool)
	for _, track := range playlist.Tracks {
		if track.ID == "" || track.ArtistID == "" {
			t.Fatalf("track %q missing ids: %+v", track.Title, track)
		}
		if seen[track.ID] {
			t.Fatalf("duplicate track id %s", track.ID)
		}
		seen[track.ID] = true
	}

	// Same artist, same artist id; different artist, different id.
	if playlist.Tracks[0].ArtistID != playlist.Tracks[1].ArtistID {
		t.Fatalf("Michael Jackson got two artist ids: %s vs %s",
			playlist.Tracks[0].ArtistID, playlist.Tracks[1].ArtistID)
	}
	if playlist.Tracks[0].ArtistID == playlist.Tracks[2].ArtistID {
		t.Fatal("distinct artists share an artist id")
	}
}

func TestCreatePlaylistValidation(t *testing.T) {
	svc := NewCatalogService(newFakePlaylistRepo())
	ctx := context.Background()

	if _, err := svc.CreatePlaylist(ctx, "host_1", "", catalogTracks()); !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("nameless playlist: got %v, want ErrEmptyPlaylist", err)
	}
	if _, err := svc.CreatePlaylist(ctx, "host_1", "Mix", nil); !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("trackless playlist: got %v, want ErrEmptyPlaylist", err)
	}

	bad := []model.Track{{Title: "No Year", Artist: "Someone"}}
	if _, err := svc.CreatePlaylist(ctx, "host_1", "Mix", bad); !errors.Is(err, ErrInvalidTrack) {
		t.Fatalf("yearless track: got %v, want ErrInvalidTrack", err)
	}
}

func TestUpdatePlaylistKeepsIDsAndOwnership(t *testing.T) {
	svc := NewCatalogService(newFakePlaylistRepo())
	ctx := context.Background()

	playlist, _ := svc.CreatePlaylist(ctx, "host_1", "Mix", catalogTracks())
	kept := playlist.Tracks[0]

	updated, err := svc.UpdatePlaylist(ctx, "host_1", playlist.ID, "Mix v2", []model.Track{
		kept,
		{Title: "Wonderwall", Artist: "Oasis", Year: 1995},
	})
	if err != nil {
		t.Fatalf("UpdatePlaylist: %v", err)
	}
	if updated.Tracks[0].ID != kept.ID {
		t.Fatalf("kept track changed id: %s -> %s", kept.ID, updated.Tracks[0].ID)
	}
	if updated.Tracks[1].ID == "" {
		t.Fatal("new track got no id")
	}

	if _, err := svc.UpdatePlaylist(ctx, "host_2", playlist.ID, "Stolen", catalogTracks()); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("foreign update: got %v, want ErrPlaylistNotFound", err)
	}
}

func TestDeletePlaylistChecksOwnership(t *testing.T) {
	svc := NewCatalogService(newFakePlaylistRepo())
	ctx := context.Background()

	playlist, _ := svc.CreatePlaylist(ctx, "host_1", "Mix", catalogTracks())

	if err := svc.DeletePlaylist(ctx, "host_2", playlist.ID); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("foreign delete: got %v, want ErrPlaylistNotFound", err)
	}
	if err := svc.DeletePlaylist(ctx, "host_1", playlist.ID); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}
	if _, err := svc.GetPlaylist(ctx, playlist.ID); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("deleted playlist still readable: %v", err)
	}
}

func TestSuggestByKind(t *testing.T) {
	svc := NewCatalogService(newFakePlaylistRepo())
	ctx := context.Background()

	playlist, _ := svc.CreatePlaylist(ctx, "host_1", "Mix", catalogTracks())

	tracks, err := svc.Suggest(ctx, playlist.ID, SuggestTracks, "billie", 0)
	if err != nil {
		t.Fatalf("Suggest tracks: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Display != "Billie Jean" {
		t.Fatalf("unexpected track suggestions: %+v", tracks)
	}
	if tracks[0].ID != playlist.Tracks[0].ID {
		t.Fatalf("suggestion id %s does not match catalog id %s", tracks[0].ID, playlist.Tracks[0].ID)
	}

	artists, err := svc.Suggest(ctx, playlist.ID, SuggestArtists, "mich", 0)
	if err != nil {
		t.Fatalf("Suggest artists: %v", err)
	}
	// Two tracks by the same artist still yield one suggestion.
	if len(artists) != 1 || artists[0].ID != playlist.Tracks[0].ArtistID {
		t.Fatalf("unexpected artist suggestions: %+v", artists)
	}

	if _, err := svc.Suggest(ctx, playlist.ID, "album", "x", 0); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("unknown kind: got %v, want ErrUnknownKind", err)
	}
}

func TestUpdatePlaylistInvalidatesSuggestIndex(t *testing.T) {
	svc := NewCatalogService(newFakePlaylistRepo())
	ctx := context.Background()

	playlist, _ := svc.CreatePlaylist(ctx, "host_1", "Mix", catalogTracks())
	if _, err := svc.Suggest(ctx, playlist.ID, SuggestTracks, "billie", 0); err != nil {
		t.Fatalf("warm-up suggest: %v", err)
	}

	if _, err := svc.UpdatePlaylist(ctx, "host_1", playlist.ID, "Mix", []model.Track{
		{Title: "Wonderwall", Artist: "Oasis", Year: 1995},
	}); err != nil {
		t.Fatalf("UpdatePlaylist: %v", err)
	}

	stale, err := svc.Suggest(ctx, playlist.ID, SuggestTracks, "billie", 0)
	if err != nil {
		t.Fatalf("suggest after update: %v", err)
	}
	if len(stale) != 0 {
		t.Fatalf("removed track still suggested: %+v", stale)
	}

	fresh, _ := svc.Suggest(ctx, playlist.ID, SuggestTracks, "wonder", 0)
	if len(fresh) != 1 {
		t.Fatalf("new track not suggested: %+v", fresh)
	}
}
