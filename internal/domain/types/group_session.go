package types

// GroupSession is the ordered set of epochs known for one (group, sender)
// pair, most recently used first.
type GroupSession struct {
	States []SenderKeyState `json:"states"`
}

// NewGroupSession returns a deep copy of from, or an empty session when from
// is nil.
func NewGroupSession(from *GroupSession) GroupSession {
	if from == nil {
		return GroupSession{}
	}
	return from.Clone()
}

// Clone deep-copies every state, preserving order.
func (s GroupSession) Clone() GroupSession {
	if len(s.States) == 0 {
		return GroupSession{}
	}
	out := GroupSession{States: make([]SenderKeyState, len(s.States))}
	for i, st := range s.States {
		out.States[i] = st.Clone()
	}
	return out
}

// Len returns the number of retained epochs.
func (s GroupSession) Len() int { return len(s.States) }

// MostRecentState returns the head state, if any.
func (s GroupSession) MostRecentState() (SenderKeyState, bool) {
	if len(s.States) == 0 {
		return SenderKeyState{}, false
	}
	return s.States[0], true
}

// AddState inserts state at the head. When the session then holds more than
// maxStates epochs the least recently used (tail) ones are dropped. A
// non-positive maxStates disables the cap.
func (s *GroupSession) AddState(state SenderKeyState, maxStates int) {
	states := make([]SenderKeyState, 0, len(s.States)+1)
	states = append(states, state)
	states = append(states, s.States...)
	if maxStates > 0 && len(states) > maxStates {
		states = states[:maxStates]
	}
	s.States = states
}

// RemoveState removes the state at position i. Out of range positions are
// ignored.
func (s *GroupSession) RemoveState(i int) {
	if i < 0 || i >= len(s.States) {
		return
	}
	states := make([]SenderKeyState, 0, len(s.States)-1)
	states = append(states, s.States[:i]...)
	states = append(states, s.States[i+1:]...)
	s.States = states
}
