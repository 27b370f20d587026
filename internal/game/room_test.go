package game

import (
	"errors"
	"math"
	"testing"
	"time"

	"trackline/internal/model"
)

var testRounds = []model.Round{
	{ID: "r1", TrackID: "t1", ArtistID: "a1", Title: "Billie Jean", Artist: "Michael Jackson", Year: 1983},
	{ID: "r2", TrackID: "t2", ArtistID: "a2", Title: "Rolling in the Deep", Artist: "Adele", Year: 2010},
}

func newRunningRoom(t *testing.T, t0 time.Time) *model.RoomState {
	t.Helper()

	s := NewRoomState("ROOM42", t0.Add(-time.Minute))
	if err := AssignRounds(s, testRounds); err != nil {
		t.Fatalf("AssignRounds: %v", err)
	}
	if err := Join(s, model.Participant{ID: "p1", Name: "Ada", Color: "#ff0000"}, t0.Add(-30*time.Second)); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := Start(s, DefaultDurations(), t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestStartSetsListenDeadline(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	s := newRunningRoom(t, t0)

	if s.Phase != model.PhaseListen {
		t.Fatalf("phase = %s, want LISTEN", s.Phase)
	}
	if s.Lifecycle != model.LifecycleRunning {
		t.Fatalf("lifecycle = %s, want running", s.Lifecycle)
	}
	if want := t0.Add(45 * time.Second); !s.PhaseEndsAt.Equal(want) {
		t.Fatalf("phaseEndsAt = %v, want %v", s.PhaseEndsAt, want)
	}
	if s.CurrentRoundIndex != 0 {
		t.Fatalf("currentRoundIndex = %d, want 0", s.CurrentRoundIndex)
	}
	if !s.IsAllowed("p1") {
		t.Fatal("p1 missing from allowed set")
	}
}

func TestStartRequirements(t *testing.T) {
	t0 := time.Now()

	s := NewRoomState("R", t0)
	if err := Start(s, DefaultDurations(), t0); !errors.Is(err, ErrNoRounds) {
		t.Fatalf("Start without rounds = %v, want ErrNoRounds", err)
	}

	AssignRounds(s, testRounds)
	if err := Start(s, DefaultDurations(), t0); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("Start without participants = %v, want ErrNoParticipants", err)
	}

	Join(s, model.Participant{ID: "p1", Name: "Ada"}, t0)
	if err := Start(s, DefaultDurations(), t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := Start(s, DefaultDurations(), t0); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start = %v, want ErrAlreadyRunning", err)
	}
}

func TestJoinBlockedOnceRunning(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	err := Join(s, model.Participant{ID: "late", Name: "Late"}, t0.Add(time.Second))
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("latecomer join = %v, want ErrNotAllowed", err)
	}

	// Allowed players may rejoin after a reload.
	if err := Join(s, model.Participant{ID: "p1", Name: "Ada"}, t0.Add(time.Second)); err != nil {
		t.Fatalf("rejoin by allowed player: %v", err)
	}
	if len(s.Participants) != 1 {
		t.Fatalf("participants = %d, want 1", len(s.Participants))
	}
}

func TestAdvanceNoopBeforeDeadline(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	if Advance(s, DefaultDurations(), t0.Add(44*time.Second)) {
		t.Fatal("Advance before deadline should be a no-op")
	}
	if s.Phase != model.PhaseListen {
		t.Fatalf("phase = %s, want LISTEN", s.Phase)
	}
}

func TestAdvanceIdempotentAtSameInstant(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)
	deadline := t0.Add(45 * time.Second)

	if !Advance(s, DefaultDurations(), deadline) {
		t.Fatal("Advance at deadline should transition")
	}
	if s.Phase != model.PhaseReveal {
		t.Fatalf("phase = %s, want REVEAL", s.Phase)
	}
	if Advance(s, DefaultDurations(), deadline) {
		t.Fatal("second Advance with same now should be a no-op")
	}
}

func TestAdvanceWalksOnePhasePerCall(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	// Far past every deadline: each call still only takes one step.
	late := t0.Add(time.Hour)
	Advance(s, DefaultDurations(), late)
	if s.Phase != model.PhaseReveal {
		t.Fatalf("after 1 call phase = %s, want REVEAL", s.Phase)
	}
	Advance(s, DefaultDurations(), late.Add(time.Hour))
	if s.Phase != model.PhaseIntermission {
		t.Fatalf("after 2 calls phase = %s, want INTERMISSION", s.Phase)
	}
	Advance(s, DefaultDurations(), late.Add(2*time.Hour))
	if s.Phase != model.PhaseListen || s.CurrentRoundIndex != 1 {
		t.Fatalf("after 3 calls phase = %s round = %d, want LISTEN round 1", s.Phase, s.CurrentRoundIndex)
	}
}

func TestFullGameReachesFinal(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)
	d := DefaultDurations()

	now := t0
	for i := 0; i < 20 && s.Phase != model.PhaseFinal; i++ {
		now = s.PhaseEndsAt
		Advance(s, d, now)
	}

	if s.Phase != model.PhaseFinal {
		t.Fatalf("phase = %s, want FINAL", s.Phase)
	}
	if s.Lifecycle != model.LifecycleFinished {
		t.Fatalf("lifecycle = %s, want finished", s.Lifecycle)
	}
	if s.CurrentRoundIndex != len(s.Rounds) {
		t.Fatalf("currentRoundIndex = %d, want %d", s.CurrentRoundIndex, len(s.Rounds))
	}
	if len(s.RoundBreakdowns) != len(s.Rounds) {
		t.Fatalf("breakdowns = %d, want %d", len(s.RoundBreakdowns), len(s.Rounds))
	}
	if len(s.TimelineRoundIDs) != len(s.Rounds) {
		t.Fatalf("timelineRoundIds = %d, want %d", len(s.TimelineRoundIDs), len(s.Rounds))
	}
}

func TestFullScoringScenario(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	// Correct guess 5s in, correct placement (1983 goes between the
	// 1980 and 2000 anchors, slot 1) near the end of the window.
	if err := SubmitGuess(s, "p1", "t1", "a1", t0.Add(5*time.Second)); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if err := SubmitTimeline(s, "p1", 1, t0.Add(44*time.Second)); err != nil {
		t.Fatalf("SubmitTimeline: %v", err)
	}

	Advance(s, DefaultDurations(), t0.Add(45*time.Second))

	bd, ok := s.RoundBreakdowns["r1"]
	if !ok {
		t.Fatal("missing breakdown for r1")
	}
	got := bd.Players["p1"]
	want := model.Points{Track: 25, Artist: 25, Timeline: 25, Speed: 23, Total: 98}
	if got.Points != want {
		t.Fatalf("points = %+v, want %+v", got.Points, want)
	}
	if !got.GuessCorrect.Track || !got.GuessCorrect.Artist || !got.TimelineCorrect {
		t.Fatalf("flags = %+v timeline=%v, want all true", got.GuessCorrect, got.TimelineCorrect)
	}
	if s.Scores["p1"] != 98 {
		t.Fatalf("scores[p1] = %d, want 98", s.Scores["p1"])
	}
}

func TestWrongTimelineKeepsSpeedBonus(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	SubmitGuess(s, "p1", "t1", "a1", t0.Add(5*time.Second))
	// Slot 0 means "before 1980", wrong for a 1983 release.
	SubmitTimeline(s, "p1", 0, t0.Add(44*time.Second))

	Advance(s, DefaultDurations(), t0.Add(45*time.Second))

	got := s.RoundBreakdowns["r1"].Players["p1"]
	if got.TimelineCorrect {
		t.Fatal("placement at slot 0 should be wrong for 1983")
	}
	want := model.Points{Track: 25, Artist: 25, Timeline: 0, Speed: 23, Total: 73}
	if got.Points != want {
		t.Fatalf("points = %+v, want %+v", got.Points, want)
	}
}

func TestSpeedBonusRequiresBothGuessHalves(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	SubmitGuess(s, "p1", "t1", "wrong-artist", t0.Add(5*time.Second))
	SubmitTimeline(s, "p1", 1, t0.Add(10*time.Second))

	Advance(s, DefaultDurations(), t0.Add(45*time.Second))

	got := s.RoundBreakdowns["r1"].Players["p1"]
	want := model.Points{Track: 25, Artist: 0, Timeline: 25, Speed: 0, Total: 50}
	if got.Points != want {
		t.Fatalf("points = %+v, want %+v", got.Points, want)
	}
}

func TestNoSubmissionScoresZero(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	Advance(s, DefaultDurations(), t0.Add(45*time.Second))

	got, ok := s.RoundBreakdowns["r1"].Players["p1"]
	if !ok {
		t.Fatal("allowed player must appear in the breakdown even without submissions")
	}
	if got.Points.Total != 0 {
		t.Fatalf("total = %d, want 0", got.Points.Total)
	}
	if s.Scores["p1"] != 0 {
		t.Fatalf("scores[p1] = %d, want 0", s.Scores["p1"])
	}
}

func TestSubmissionGates(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	if err := SubmitGuess(s, "ghost", "t1", "a1", t0.Add(time.Second)); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("guess by outsider = %v, want ErrNotAllowed", err)
	}
	if err := SubmitGuess(s, "p1", "", "", t0.Add(time.Second)); !errors.Is(err, ErrEmptyGuess) {
		t.Fatalf("empty guess = %v, want ErrEmptyGuess", err)
	}
	if err := SubmitGuess(s, "p1", "t1", "a1", t0.Add(46*time.Second)); !errors.Is(err, ErrPhaseClosed) {
		t.Fatalf("guess after deadline = %v, want ErrPhaseClosed", err)
	}

	Advance(s, DefaultDurations(), t0.Add(45*time.Second))
	if err := SubmitGuess(s, "p1", "t1", "a1", t0.Add(46*time.Second)); !errors.Is(err, ErrPhaseClosed) {
		t.Fatalf("guess during REVEAL = %v, want ErrPhaseClosed", err)
	}
}

func TestLastSubmissionWins(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	SubmitGuess(s, "p1", "t2", "a2", t0.Add(3*time.Second))
	SubmitGuess(s, "p1", "t1", "a1", t0.Add(9*time.Second))

	key := model.SubmissionKey("p1", "r1")
	g := s.GuessSubmissions[key]
	if g.TrackID != "t1" || g.ArtistID != "a1" {
		t.Fatalf("stored guess = %s/%s, want t1/a1", g.TrackID, g.ArtistID)
	}

	Advance(s, DefaultDurations(), t0.Add(45*time.Second))
	got := s.RoundBreakdowns["r1"].Players["p1"]
	// Decay counts from the final submission at 9s: 25 - 9/2 = 21.
	if got.Points.Speed != 21 {
		t.Fatalf("speed = %d, want 21", got.Points.Speed)
	}
}

func TestTimelineSubmissionRejectsNonFinite(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)

	nan := math.NaN()
	if err := SubmitTimeline(s, "p1", nan, t0.Add(time.Second)); !errors.Is(err, ErrInvalidInsertIndex) {
		t.Fatalf("NaN insert index = %v, want ErrInvalidInsertIndex", err)
	}
	if err := SubmitTimeline(s, "p1", math.Inf(1), t0.Add(time.Second)); !errors.Is(err, ErrInvalidInsertIndex) {
		t.Fatalf("Inf insert index = %v, want ErrInvalidInsertIndex", err)
	}
	if len(s.TimelineSubmissions) != 0 {
		t.Fatal("rejected submissions must not be stored")
	}

	// Out-of-range but finite indexes clamp instead of erroring.
	if err := SubmitTimeline(s, "p1", 99, t0.Add(time.Second)); err != nil {
		t.Fatalf("SubmitTimeline: %v", err)
	}
	if got := s.TimelineSubmissions[model.SubmissionKey("p1", "r1")].InsertIndex; got != 2 {
		t.Fatalf("clamped index = %d, want 2", got)
	}
}

func TestHeartbeatAndRemove(t *testing.T) {
	t0 := time.Now()
	s := NewRoomState("R", t0)
	Join(s, model.Participant{ID: "p1", Name: "Ada"}, t0)

	later := t0.Add(10 * time.Second)
	if err := Heartbeat(s, "p1", later); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if !s.Participants["p1"].LastSeenAt.Equal(later) {
		t.Fatal("lastSeenAt not refreshed")
	}
	if err := Heartbeat(s, "nope", later); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("Heartbeat unknown = %v, want ErrPlayerNotFound", err)
	}

	if err := RemoveParticipant(s, "p1"); err != nil {
		t.Fatalf("RemoveParticipant: %v", err)
	}
	if err := RemoveParticipant(s, "p1"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("double remove = %v, want ErrPlayerNotFound", err)
	}
}

func TestScoresMatchBreakdownTotals(t *testing.T) {
	t0 := time.Now()
	s := newRunningRoom(t, t0)
	d := DefaultDurations()

	SubmitGuess(s, "p1", "t1", "a1", t0.Add(2*time.Second))
	now := s.PhaseEndsAt
	for s.Phase != model.PhaseFinal {
		Advance(s, d, now)
		if s.Phase == model.PhaseListen {
			SubmitGuess(s, "p1", "t2", "a2", now.Add(time.Second))
			SubmitTimeline(s, "p1", 3, now.Add(2*time.Second))
		}
		now = s.PhaseEndsAt
	}

	sum := 0
	for _, bd := range s.RoundBreakdowns {
		sum += bd.Players["p1"].Points.Total
	}
	if s.Scores["p1"] != sum {
		t.Fatalf("scores[p1] = %d, want sum of breakdown totals %d", s.Scores["p1"], sum)
	}
}
