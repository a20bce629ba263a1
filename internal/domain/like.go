package domain

import "time"

// SubjectType is the kind of entity a reaction is attached to.
type SubjectType string

const (
	SubjectVideo   SubjectType = "video"
	SubjectComment SubjectType = "comment"
	SubjectTweet   SubjectType = "tweet"
)

func (s SubjectType) IsValid() bool {
	switch s {
	case SubjectVideo, SubjectComment, SubjectTweet:
		return true
	}
	return false
}

// Reaction is the state of a user's reaction on a subject. ReactionNone means
// no row is stored.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

func (r Reaction) IsValid() bool {
	return r == ReactionLike || r == ReactionDislike
}

// Opposite returns the reaction that excludes r.
func (r Reaction) Opposite() Reaction {
	switch r {
	case ReactionLike:
		return ReactionDislike
	case ReactionDislike:
		return ReactionLike
	}
	return ReactionNone
}

// Like is a reaction row. There is at most one row per (actor, subject);
// its Reaction field holds either like or dislike.
type Like struct {
	ID          string      `json:"id" gorm:"type:char(24);primaryKey"`
	ActorID     string      `json:"actorId" gorm:"type:char(24);not null;uniqueIndex:idx_actor_subject"`
	SubjectType SubjectType `json:"subjectType" gorm:"type:varchar(16);not null;uniqueIndex:idx_actor_subject;index:idx_subject"`
	SubjectID   string      `json:"subjectId" gorm:"type:char(24);not null;uniqueIndex:idx_actor_subject;index:idx_subject"`
	Reaction    Reaction    `json:"reaction" gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ToggleOutcome is what a toggle reports back to the caller.
type ToggleOutcome string

const (
	OutcomeAdded   ToggleOutcome = "added"
	OutcomeRemoved ToggleOutcome = "removed"
)

// ReactionTransition describes one step of the reaction state machine.
type ReactionTransition struct {
	From            Reaction
	To              Reaction
	Outcome         ToggleOutcome
	OppositeCleared bool
}

// ApplyReaction toggles action against the current state.
//
//	none     x like    -> like     added
//	none     x dislike -> dislike  added
//	like     x like    -> none     removed
//	like     x dislike -> dislike  added, opposite cleared
//	dislike  x dislike -> none     removed
//	dislike  x like    -> like     added, opposite cleared
func ApplyReaction(current, action Reaction) ReactionTransition {
	t := ReactionTransition{From: current}
	switch current {
	case action:
		t.To = ReactionNone
		t.Outcome = OutcomeRemoved
	case action.Opposite():
		t.To = action
		t.Outcome = OutcomeAdded
		t.OppositeCleared = true
	default:
		t.To = action
		t.Outcome = OutcomeAdded
	}
	return t
}
