package game

import (
	"time"

	"trackline/internal/model"
)

// ScorePlayer computes one player's canonical point breakdown for a
// finished round. Either submission may be nil; a missing guess zeroes
// the guess categories and the speed bonus, a missing placement zeroes
// the timeline category. The board must be the timeline as it stood
// when the player placed, i.e. before the round itself is folded in.
func ScorePlayer(round *model.Round, guess *model.GuessSubmission, placement *model.TimelineSubmission, board []model.TimelineEntry, listenStart time.Time) model.PlayerBreakdown {
	var bd model.PlayerBreakdown

	if guess != nil {
		bd.GuessCorrect.Track = guess.TrackID == round.TrackID
		bd.GuessCorrect.Artist = guess.ArtistID == round.ArtistID
	}
	if bd.GuessCorrect.Track {
		bd.Points.Track = CategoryPoints
	}
	if bd.GuessCorrect.Artist {
		bd.Points.Artist = CategoryPoints
	}

	if placement != nil {
		bd.TimelineCorrect = IsInsertCorrect(board, round.Year, placement.InsertIndex)
	}
	if bd.TimelineCorrect {
		bd.Points.Timeline = CategoryPoints
	}

	// Speed rewards locking in the guess, not the placement, and only
	// when both halves of the guess are right.
	if bd.GuessCorrect.Track && bd.GuessCorrect.Artist {
		elapsed := guess.SubmittedAt.Sub(listenStart)
		if elapsed < 0 {
			elapsed = 0
		}
		steps := int(elapsed/time.Second) / int(SpeedDecayStep/time.Second)
		if bonus := SpeedBonusMax - steps; bonus > 0 {
			bd.Points.Speed = bonus
		}
	}

	bd.Points.Total = bd.Points.Track + bd.Points.Artist + bd.Points.Timeline + bd.Points.Speed
	return bd
}
