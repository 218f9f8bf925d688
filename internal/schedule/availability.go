package schedule

import (
	"sort"
	"sync"
)

// AvailabilityStore holds, per nurse, the map of open slots per date and the
// set of blocked dates. All returned Nurse values are copies; mutations go
// through the store's methods only.
type AvailabilityStore struct {
	mu     sync.RWMutex
	nurses map[string]*Nurse
}

func NewAvailabilityStore() *AvailabilityStore {
	return &AvailabilityStore{
		nurses: make(map[string]*Nurse),
	}
}

// Upsert registers or replaces a nurse profile. Availability entries are
// normalized: unknown slot labels dropped, duplicates removed, canonical
// order applied.
func (s *AvailabilityStore) Upsert(n Nurse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := copyNurse(&n)
	for date, slots := range c.Availability {
		c.Availability[date] = SortSlots(slots)
	}
	s.nurses[n.ID] = c
}

// Nurse returns a copy of the nurse record.
func (s *AvailabilityStore) Nurse(id string) (Nurse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nurses[id]
	if !ok {
		return Nurse{}, ErrNurseNotFound
	}
	return *copyNurse(n), nil
}

// Nurses returns copies of all nurse records sorted by name.
func (s *AvailabilityStore) Nurses() []Nurse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Nurse, 0, len(s.nurses))
	for _, n := range s.nurses {
		out = append(out, *copyNurse(n))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EffectiveSlots returns the slots actually bookable for a nurse on a date:
// empty when the date is blocked, otherwise the published slots in canonical
// clinic-hour order.
func (s *AvailabilityStore) EffectiveSlots(nurseID, date string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nurses[nurseID]
	if !ok {
		return nil, ErrNurseNotFound
	}
	if n.blocked(date) {
		return []string{}, nil
	}
	return SortSlots(n.Availability[date]), nil
}

// SetSlots replaces the slot set for a date. Every label must come from the
// clinic slot enumeration or the whole mutation is rejected.
func (s *AvailabilityStore) SetSlots(nurseID, date string, slots []string) error {
	for _, l := range slots {
		if !ValidSlot(l) {
			return ErrInvalidSlotLabel
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nurses[nurseID]
	if !ok {
		return ErrNurseNotFound
	}
	if n.Availability == nil {
		n.Availability = make(map[string][]string)
	}
	n.Availability[date] = SortSlots(slots)
	return nil
}

// ToggleSlot adds the label to the date if absent and removes it if present.
// Returns true when the slot ended up added.
func (s *AvailabilityStore) ToggleSlot(nurseID, date, label string) (bool, error) {
	if !ValidSlot(label) {
		return false, ErrInvalidSlotLabel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nurses[nurseID]
	if !ok {
		return false, ErrNurseNotFound
	}
	if n.Availability == nil {
		n.Availability = make(map[string][]string)
	}

	slots := n.Availability[date]
	for i, l := range slots {
		if l == label {
			n.Availability[date] = append(slots[:i:i], slots[i+1:]...)
			return false, nil
		}
	}
	n.Availability[date] = SortSlots(append(slots, label))
	return true, nil
}

// BlockDate marks a date as fully blocked. A soft block: new bookings are
// rejected, existing upcoming appointments on that date stay untouched.
func (s *AvailabilityStore) BlockDate(nurseID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nurses[nurseID]
	if !ok {
		return ErrNurseNotFound
	}
	if n.blocked(date) {
		return nil
	}
	n.BlockedDates = append(n.BlockedDates, date)
	sort.Strings(n.BlockedDates)
	return nil
}

func (s *AvailabilityStore) UnblockDate(nurseID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nurses[nurseID]
	if !ok {
		return ErrNurseNotFound
	}
	for i, d := range n.BlockedDates {
		if d == date {
			n.BlockedDates = append(n.BlockedDates[:i:i], n.BlockedDates[i+1:]...)
			return nil
		}
	}
	return nil
}

// SetStatus updates a nurse's presence status.
func (s *AvailabilityStore) SetStatus(nurseID string, status NurseStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nurses[nurseID]
	if !ok {
		return ErrNurseNotFound
	}
	n.Status = status
	return nil
}

// Deactivate retires a nurse profile. Nurses are never deleted.
func (s *AvailabilityStore) Deactivate(nurseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nurses[nurseID]
	if !ok {
		return ErrNurseNotFound
	}
	n.Active = false
	return nil
}

// Load replaces the store contents from a persisted snapshot.
func (s *AvailabilityStore) Load(nurses []Nurse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nurses = make(map[string]*Nurse, len(nurses))
	for i := range nurses {
		c := copyNurse(&nurses[i])
		for date, slots := range c.Availability {
			c.Availability[date] = SortSlots(slots)
		}
		s.nurses[c.ID] = c
	}
}

func (n *Nurse) blocked(date string) bool {
	for _, d := range n.BlockedDates {
		if d == date {
			return true
		}
	}
	return false
}

func copyNurse(n *Nurse) *Nurse {
	c := *n
	c.Certifications = append([]string(nil), n.Certifications...)
	c.Languages = append([]string(nil), n.Languages...)
	c.BlockedDates = append([]string(nil), n.BlockedDates...)
	c.Availability = make(map[string][]string, len(n.Availability))
	for date, slots := range n.Availability {
		c.Availability[date] = append([]string(nil), slots...)
	}
	return &c
}
