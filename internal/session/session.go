package session

import (
	"sync"
	"time"

	"headache-tracker/internal/episode"
)

// Step marks which input the dialog is currently waiting for.
type Step int

const (
	StepDayChoice Step = iota
	StepStartTimeChoice
	StepStartTimeText
	StepMedicationChoice
	StepMedicationName
	StepMedicationTime
	StepMedicationContinueChoice
	StepRating
	StepStopTimeChoice
	StepStopTimeText
	StepCommentChoice
	StepCommentText
)

// Draft is the in-progress episode being assembled through the dialog.
// It is transient and never persisted.
type Draft struct {
	Step        Step
	Date        time.Time
	Start       *episode.TimeOfDay
	Stop        *episode.TimeOfDay
	Rating      int
	Comments    string
	Medications []episode.Medication
}

type slot struct {
	mu    sync.Mutex
	draft *Draft
}

// Store keeps at most one draft per user. Operations on the same user
// serialize; operations on different users do not block each other.
type Store struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

func NewStore() *Store {
	return &Store{slots: make(map[int64]*slot)}
}

func (s *Store) slotFor(userID int64) *slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[userID]
	if !ok {
		sl = &slot{}
		s.slots[userID] = sl
	}
	return sl
}

// Create starts a fresh draft for the user, silently replacing any
// in-progress one.
func (s *Store) Create(userID int64) {
	sl := s.slotFor(userID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.draft = &Draft{Step: StepDayChoice}
}

// Get returns a copy of the user's draft, or false when none exists.
func (s *Store) Get(userID int64) (Draft, bool) {
	sl := s.slotFor(userID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.draft == nil {
		return Draft{}, false
	}
	return *sl.draft, true
}

// Mutate runs fn against the user's draft under the per-user lock.
// It reports false without calling fn when the user has no draft.
func (s *Store) Mutate(userID int64, fn func(*Draft)) bool {
	sl := s.slotFor(userID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.draft == nil {
		return false
	}
	fn(sl.draft)
	return true
}

// Delete discards the user's draft, if any.
func (s *Store) Delete(userID int64) {
	sl := s.slotFor(userID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.draft = nil
}
