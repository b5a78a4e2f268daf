package trainer

import (
	"strings"

	"github.com/KichuProject/Srs-Proj/internal/collection"
	"github.com/KichuProject/Srs-Proj/internal/model"
)

// Action is one of Add, Update, Delete or Set.
type Action interface {
	trainerAction()
}

// Add appends a trainer. The trainer must already carry its new id.
type Add struct{ Trainer model.Trainer }

// Update replaces the trainer with the same id.
type Update struct{ Trainer model.Trainer }

// Delete removes a trainer by id. Sessions and attendance referencing it are left alone.
type Delete struct{ ID string }

// Set replaces the whole collection.
type Set struct{ Trainers []model.Trainer }

func (Add) trainerAction()    {}
func (Update) trainerAction() {}
func (Delete) trainerAction() {}
func (Set) trainerAction()    {}

// Reduce applies action to state and returns the new collection.
func Reduce(state []model.Trainer, action Action) []model.Trainer {
	switch a := action.(type) {
	case Add:
		return collection.Add(state, a.Trainer)
	case Update:
		return collection.Update(state, a.Trainer)
	case Delete:
		return collection.Delete(state, a.ID)
	case Set:
		return collection.Set(a.Trainers)
	default:
		return state
	}
}

// Search returns trainers whose name contains term, ignoring case.
func Search(trainers []model.Trainer, term string) []model.Trainer {
	term = strings.ToLower(term)
	out := make([]model.Trainer, 0, len(trainers))
	for _, t := range trainers {
		if strings.Contains(strings.ToLower(t.Name), term) {
			out = append(out, t)
		}
	}
	return out
}

// SessionCount is the number of sessions assigned to trainerID.
func SessionCount(sessions []model.Session, trainerID string) int {
	n := 0
	for _, s := range sessions {
		if s.TrainerID == trainerID {
			n++
		}
	}
	return n
}
