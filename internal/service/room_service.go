package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"trackline/internal/cache"
	"trackline/internal/game"
	"trackline/internal/model"
	"trackline/internal/repository"
)

// RoomCodeChars excludes ambiguous characters.
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomCodeLength = 6

// RoomService owns the canonical RoomState of every live room. All
// mutations on one room are serialized behind its mutex; distinct rooms
// proceed in parallel. Phase advancement is polling-driven: it runs
// before every mutating request and once per tick, so rooms progress
// even when no client talks to them.
type RoomService struct {
	catalogSvc  *CatalogService
	roomRepo    repository.RoomRepo
	resultRepo  repository.ResultRepo
	roomCache   cache.RoomCache
	presence    cache.PresenceCache
	leaderboard cache.LeaderboardCache
	sessions    cache.SessionCache
	authSvc     *AuthService
	broadcaster Broadcaster
	durations   game.Durations
	now         func() time.Time

	mu    sync.RWMutex
	rooms map[string]*liveRoom
}

type liveRoom struct {
	mu         sync.Mutex
	code       string
	hostID     string
	playlistID string
	state      *model.RoomState
	archived   bool
}

// NewRoomService creates a new room service.
func NewRoomService(
	catalogSvc *CatalogService,
	roomRepo repository.RoomRepo,
	resultRepo repository.ResultRepo,
	roomCache cache.RoomCache,
	presence cache.PresenceCache,
	leaderboard cache.LeaderboardCache,
	sessions cache.SessionCache,
	authSvc *AuthService,
) *RoomService {
	return &RoomService{
		catalogSvc:  catalogSvc,
		roomRepo:    roomRepo,
		resultRepo:  resultRepo,
		roomCache:   roomCache,
		presence:    presence,
		leaderboard: leaderboard,
		sessions:    sessions,
		authSvc:     authSvc,
		broadcaster: noopBroadcaster{},
		durations:   game.DefaultDurations(),
		now:         time.Now,
		rooms:       make(map[string]*liveRoom),
	}
}

// SetBroadcaster attaches the websocket hub.
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetDurations overrides the default phase durations.
func (s *RoomService) SetDurations(d game.Durations) {
	s.durations = d
}

// CreateRoom builds a lobby from a playlist. Rounds follow playlist
// order; roundCount of zero (or more than available) means all tracks.
func (s *RoomService) CreateRoom(ctx context.Context, hostID, playlistID string, roundCount int) (*model.Room, error) {
	playlist, err := s.catalogSvc.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if len(playlist.Tracks) == 0 {
		return nil, ErrEmptyPlaylist
	}
	if roundCount <= 0 || roundCount > len(playlist.Tracks) {
		roundCount = len(playlist.Tracks)
	}

	rounds := make([]model.Round, 0, roundCount)
	for _, t := range playlist.Tracks[:roundCount] {
		rounds = append(rounds, model.Round{
			ID:         newRoundID(),
			TrackID:    t.ID,
			ArtistID:   t.ArtistID,
			Title:      t.Title,
			Artist:     t.Artist,
			Year:       t.Year,
			SpotifyURI: t.SpotifyURI,
			StartMs:    t.StartMs,
		})
	}

	code, err := s.uniqueRoomCode()
	if err != nil {
		return nil, err
	}

	now := s.now()
	state := game.NewRoomState(code, now)
	if err := game.AssignRounds(state, rounds); err != nil {
		return nil, err
	}

	room := &model.Room{
		Code:       code,
		PlaylistID: playlistID,
		HostID:     hostID,
		Lifecycle:  model.LifecycleLobby,
		RoundCount: len(rounds),
		CreatedAt:  now,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room record: %w", err)
	}

	meta := &model.RoomMeta{
		PlaylistID: playlistID,
		HostID:     hostID,
		Lifecycle:  model.LifecycleLobby,
		CreatedAt:  now,
	}
	if err := s.roomCache.SetMeta(ctx, code, meta); err != nil {
		return nil, fmt.Errorf("failed to cache room meta: %w", err)
	}

	s.mu.Lock()
	s.rooms[code] = &liveRoom{
		code:       code,
		hostID:     hostID,
		playlistID: playlistID,
		state:      state,
	}
	s.mu.Unlock()

	log.Printf("room %s created from playlist %s (%d rounds)", code, playlistID, len(rounds))
	return room, nil
}

// Join adds a player to a room, or rebinds an existing session when the
// request carries a previously issued player id. Running rooms only
// accept ids from the frozen allowed set.
func (s *RoomService) Join(ctx context.Context, code, playerID, name, color string) (*model.JoinResponse, error) {
	lr, err := s.room(code)
	if err != nil {
		return nil, err
	}
	if playerID == "" {
		playerID = newPlayerID()
	}

	now := s.now()
	lr.mu.Lock()
	s.catchUp(ctx, lr)
	joinErr := game.Join(lr.state, model.Participant{ID: playerID, Name: name, Color: color}, now)
	lr.mu.Unlock()
	if joinErr != nil {
		return nil, joinErr
	}

	token, err := s.authSvc.IssuePlayerToken(code, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue player token: %w", err)
	}

	sess := &model.PlayerSession{
		PlayerID: playerID,
		RoomCode: code,
		Name:     name,
		Color:    color,
		IssuedAt: now,
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	if err := s.presence.Touch(ctx, code, playerID, now); err != nil {
		log.Printf("room %s: presence touch failed: %v", code, err)
	}

	s.broadcaster.BroadcastToHost(code, "player_joined", map[string]string{
		"playerId": playerID,
		"name":     name,
		"color":    color,
	})

	return &model.JoinResponse{PlayerID: playerID, Token: token, RoomCode: code}, nil
}

// StartGame freezes the lobby and opens the first listen window.
func (s *RoomService) StartGame(ctx context.Context, code, hostID string) error {
	lr, err := s.room(code)
	if err != nil {
		return err
	}
	if lr.hostID != hostID {
		return ErrNotRoomHost
	}

	lr.mu.Lock()
	s.catchUp(ctx, lr)
	startErr := game.Start(lr.state, s.durations, s.now())
	var hostSnap, playerSnap *model.Snapshot
	if startErr == nil {
		hostSnap = s.buildSnapshot(lr, true)
		playerSnap = s.buildSnapshot(lr, false)
	}
	lr.mu.Unlock()
	if startErr != nil {
		return startErr
	}

	s.markStarted(ctx, lr)
	s.broadcaster.BroadcastToHost(code, "room_started", hostSnap)
	s.broadcaster.BroadcastToAllPlayers(code, "room_started", playerSnap)
	return nil
}

// SubmitGuess records a player's resolved track/artist answer.
func (s *RoomService) SubmitGuess(ctx context.Context, code, playerID, trackID, artistID string) error {
	lr, err := s.room(code)
	if err != nil {
		return err
	}

	lr.mu.Lock()
	s.catchUp(ctx, lr)
	submitErr := game.SubmitGuess(lr.state, playerID, trackID, artistID, s.now())
	lr.mu.Unlock()
	if submitErr != nil {
		return submitErr
	}

	s.broadcaster.BroadcastToHost(code, "guess_submitted", map[string]string{"playerId": playerID})
	return nil
}

// SubmitTimeline records where a player placed the current round.
func (s *RoomService) SubmitTimeline(ctx context.Context, code, playerID string, insertIndex float64) error {
	lr, err := s.room(code)
	if err != nil {
		return err
	}

	lr.mu.Lock()
	s.catchUp(ctx, lr)
	submitErr := game.SubmitTimeline(lr.state, playerID, insertIndex, s.now())
	lr.mu.Unlock()
	if submitErr != nil {
		return submitErr
	}

	s.broadcaster.BroadcastToHost(code, "timeline_submitted", map[string]string{"playerId": playerID})
	return nil
}

// Heartbeat refreshes a player's presence, in state and in Redis.
func (s *RoomService) Heartbeat(ctx context.Context, code, playerID string) error {
	lr, err := s.room(code)
	if err != nil {
		return err
	}

	now := s.now()
	lr.mu.Lock()
	s.catchUp(ctx, lr)
	hbErr := game.Heartbeat(lr.state, playerID, now)
	lr.mu.Unlock()
	if hbErr != nil {
		return hbErr
	}

	return s.presence.Touch(ctx, code, playerID, now)
}

// RemovePlayer kicks a participant. Host action only.
func (s *RoomService) RemovePlayer(ctx context.Context, code, hostID, playerID string) error {
	lr, err := s.room(code)
	if err != nil {
		return err
	}
	if lr.hostID != hostID {
		return ErrNotRoomHost
	}

	lr.mu.Lock()
	s.catchUp(ctx, lr)
	removeErr := game.RemoveParticipant(lr.state, playerID)
	lr.mu.Unlock()
	if removeErr != nil {
		return removeErr
	}

	if err := s.presence.Remove(ctx, code, playerID); err != nil {
		log.Printf("room %s: presence remove failed: %v", code, err)
	}
	if err := s.sessions.Delete(ctx, playerID); err != nil {
		log.Printf("room %s: session delete failed: %v", code, err)
	}

	// The kicked player gets told directly; everyone else just sees a
	// departure.
	s.broadcaster.BroadcastToPlayer(code, playerID, "kicked", map[string]string{"playerId": playerID})
	s.broadcaster.BroadcastToAllPlayers(code, "player_left", map[string]string{"playerId": playerID})
	s.broadcaster.BroadcastToHost(code, "player_left", map[string]string{"playerId": playerID})
	return nil
}

// Snapshot produces the client view of a room, advancing the phase
// machine first so pollers never see a stale phase.
func (s *RoomService) Snapshot(ctx context.Context, code string, forHost bool) (*model.Snapshot, error) {
	lr, err := s.room(code)
	if err != nil {
		return nil, err
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	s.catchUp(ctx, lr)
	return s.buildSnapshot(lr, forHost), nil
}

// LeaderboardRow is a scored, named leaderboard line.
type LeaderboardRow struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// TopScores reads the Redis leaderboard and resolves names from state.
func (s *RoomService) TopScores(ctx context.Context, code string, limit int) ([]LeaderboardRow, error) {
	lr, err := s.room(code)
	if err != nil {
		return nil, err
	}

	entries, err := s.leaderboard.Top(ctx, code, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	rows := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = LeaderboardRow{PlayerID: e.PlayerID, Score: e.Score, Rank: e.Rank}
		if p, ok := lr.state.Participants[e.PlayerID]; ok {
			rows[i].Name = p.Name
		}
	}
	return rows, nil
}

// GameResult returns the archived outcome of a finished game. Unlike
// the live lookups this also works after a restart, straight from Mongo.
func (s *RoomService) GameResult(ctx context.Context, code string) (*model.GameResult, error) {
	result, err := s.resultRepo.GetByRoomCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to read game result: %w", err)
	}
	if result == nil {
		return nil, ErrRoomNotFound
	}
	return result, nil
}

// PlaylistIDForRoom resolves the playlist behind a room, for the
// suggest endpoint.
func (s *RoomService) PlaylistIDForRoom(code string) (string, error) {
	lr, err := s.room(code)
	if err != nil {
		return "", err
	}
	return lr.playlistID, nil
}

// HostID returns the host owning a room.
func (s *RoomService) HostID(code string) (string, error) {
	lr, err := s.room(code)
	if err != nil {
		return "", err
	}
	return lr.hostID, nil
}

// Run drives phase advancement for all rooms until the context ends.
// One tick per second is plenty against multi-second phase durations.
func (s *RoomService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			live := make([]*liveRoom, 0, len(s.rooms))
			for _, lr := range s.rooms {
				live = append(live, lr)
			}
			s.mu.RUnlock()

			for _, lr := range live {
				lr.mu.Lock()
				s.catchUp(ctx, lr)
				lr.mu.Unlock()
			}
		}
	}
}

// room looks up a live room by code.
func (s *RoomService) room(code string) (*liveRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lr, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return lr, nil
}

// catchUp walks the phase machine while deadlines have passed and runs
// the side effects of every transition. Callers hold lr.mu.
func (s *RoomService) catchUp(ctx context.Context, lr *liveRoom) {
	now := s.now()
	for game.Advance(lr.state, s.durations, now) {
		s.afterTransition(ctx, lr)
	}
}

// afterTransition runs the collaborator side effects for the phase just
// entered. The state machine itself never touches Redis or Mongo, so a
// failing collaborator can only cost an update, never corrupt state.
func (s *RoomService) afterTransition(ctx context.Context, lr *liveRoom) {
	state := lr.state
	code := lr.code

	switch state.Phase {
	case model.PhaseReveal:
		for playerID, score := range state.Scores {
			if err := s.leaderboard.SetScore(ctx, code, playerID, score); err != nil {
				log.Printf("room %s: leaderboard update failed: %v", code, err)
			}
		}
		s.broadcaster.BroadcastToHost(code, "round_revealed", s.buildSnapshot(lr, true))
		s.broadcaster.BroadcastToAllPlayers(code, "round_revealed", s.buildSnapshot(lr, false))

	case model.PhaseListen, model.PhaseIntermission:
		s.broadcaster.BroadcastToHost(code, "phase_changed", s.buildSnapshot(lr, true))
		s.broadcaster.BroadcastToAllPlayers(code, "phase_changed", s.buildSnapshot(lr, false))

	case model.PhaseFinal:
		s.archiveFinished(ctx, lr)
		s.broadcaster.BroadcastToHost(code, "game_finished", s.buildSnapshot(lr, true))
		s.broadcaster.BroadcastToAllPlayers(code, "game_finished", s.buildSnapshot(lr, false))
		// The final snapshots are queued before the teardown, so clients
		// still receive them; anything later comes from polling.
		s.broadcaster.DisconnectRoom(code)
	}
}

// markStarted persists the lobby→running edge. Callers must not hold
// lr.mu; record updates do not need the state lock.
func (s *RoomService) markStarted(ctx context.Context, lr *liveRoom) {
	now := s.now()
	room, err := s.roomRepo.GetByCode(ctx, lr.code)
	if err != nil || room == nil {
		log.Printf("room %s: record lookup failed: %v", lr.code, err)
		return
	}
	room.Lifecycle = model.LifecycleRunning
	room.StartedAt = &now
	if err := s.roomRepo.Update(ctx, room); err != nil {
		log.Printf("room %s: record update failed: %v", lr.code, err)
	}
	if err := s.roomCache.SetLifecycle(ctx, lr.code, model.LifecycleRunning); err != nil {
		log.Printf("room %s: meta update failed: %v", lr.code, err)
	}
}

// archiveFinished persists the final result exactly once. Callers hold
// lr.mu.
func (s *RoomService) archiveFinished(ctx context.Context, lr *liveRoom) {
	if lr.archived {
		return
	}
	lr.archived = true

	state := lr.state
	now := s.now()

	names := make(map[string]string, len(state.Participants))
	for id, p := range state.Participants {
		names[id] = p.Name
	}

	result := &model.GameResult{
		RoomCode:   lr.code,
		PlaylistID: lr.playlistID,
		Scores:     copyScores(state.Scores),
		Breakdowns: state.RoundBreakdowns,
		Players:    names,
		FinishedAt: now,
	}
	if err := s.resultRepo.Save(ctx, result); err != nil {
		log.Printf("room %s: result archive failed: %v", lr.code, err)
	}

	room, err := s.roomRepo.GetByCode(ctx, lr.code)
	if err == nil && room != nil {
		room.Lifecycle = model.LifecycleFinished
		room.FinishedAt = &now
		if err := s.roomRepo.Update(ctx, room); err != nil {
			log.Printf("room %s: record update failed: %v", lr.code, err)
		}
	}
	if err := s.roomCache.SetLifecycle(ctx, lr.code, model.LifecycleFinished); err != nil {
		log.Printf("room %s: meta update failed: %v", lr.code, err)
	}

	log.Printf("room %s finished, %d players archived", lr.code, len(names))
}

// buildSnapshot projects the state into the client view. Callers hold
// lr.mu; all maps and slices are copied or immutable so the snapshot
// may be marshaled after the lock is released.
func (s *RoomService) buildSnapshot(lr *liveRoom, forHost bool) *model.Snapshot {
	state := lr.state
	now := s.now()

	participants := make([]model.Participant, 0, len(state.Participants))
	for _, p := range state.Participants {
		participants = append(participants, *p)
	}
	sort.Slice(participants, func(i, j int) bool {
		if !participants[i].JoinedAt.Equal(participants[j].JoinedAt) {
			return participants[i].JoinedAt.Before(participants[j].JoinedAt)
		}
		return participants[i].ID < participants[j].ID
	})

	breakdowns := make(map[string]*model.RoundBreakdown, len(state.RoundBreakdowns))
	for id, bd := range state.RoundBreakdowns {
		breakdowns[id] = bd // immutable once written
	}

	timeline := game.BuildTimelineEntries(state.TimelineRoundIDs, state.Rounds)
	labels := make([]string, len(timeline)+1)
	for i := range labels {
		labels[i] = game.SlotLabel(timeline, i)
	}

	snap := &model.Snapshot{
		RoomID:           state.RoomID,
		Lifecycle:        state.Lifecycle,
		Phase:            state.Phase,
		PhaseEndsAt:      state.PhaseEndsAt,
		ServerTime:       now,
		RoundTotal:       len(state.Rounds),
		Participants:     participants,
		AllowedPlayerIDs: append([]string(nil), state.AllowedPlayerIDs...),
		Scores:           copyScores(state.Scores),
		RoundBreakdowns:  breakdowns,
		Timeline:         timeline,
		SlotLabels:       labels,
	}

	if round := state.CurrentRound(); round != nil {
		view := &model.RoundView{ID: round.ID, Index: state.CurrentRoundIndex}
		if _, revealed := state.RoundBreakdowns[round.ID]; revealed {
			view.Title = round.Title
			view.Artist = round.Artist
			view.Year = round.Year
		}
		if forHost {
			view.SpotifyURI = round.SpotifyURI
			view.StartMs = round.StartMs
		}
		snap.CurrentRound = view
	}

	return snap
}

func copyScores(scores map[string]int) map[string]int {
	out := make(map[string]int, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

// uniqueRoomCode generates an unused room code.
func (s *RoomService) uniqueRoomCode() (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, roomCodeLength)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
		}

		s.mu.RLock()
		_, taken := s.rooms[string(code)]
		s.mu.RUnlock()
		if !taken {
			return string(code), nil
		}
	}
	return "", fmt.Errorf("failed to generate unique room code")
}
