package schedule

// pairKey identifies an unordered pair of players.
type pairKey struct {
	a, b string
}

func newPairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// BuildState accumulates what one constructor invocation has scheduled so far.
type BuildState struct {
	Games         map[string]int
	Partners      map[pairKey]int
	Opponents     map[pairKey]int
	LastPartner   map[string]string
	LastOpponents map[string]map[string]bool
	LastRound     map[string]int
}

func newBuildState() *BuildState {
	return &BuildState{
		Games:         make(map[string]int),
		Partners:      make(map[pairKey]int),
		Opponents:     make(map[pairKey]int),
		LastPartner:   make(map[string]string),
		LastOpponents: make(map[string]map[string]bool),
		LastRound:     make(map[string]int),
	}
}

func (s *BuildState) partnerCount(a, b string) int {
	return s.Partners[newPairKey(a, b)]
}

func (s *BuildState) opponentCount(a, b string) int {
	return s.Opponents[newPairKey(a, b)]
}

// record applies a placed game to every counter.
func (s *BuildState) record(g Game) {
	for _, p := range g.Players() {
		s.Games[p]++
		s.LastRound[p] = g.Round
	}

	for _, t := range []Team{g.Team1, g.Team2} {
		if t.Size() == 2 {
			s.Partners[newPairKey(t.First, t.Second)]++
			s.LastPartner[t.First] = t.Second
			s.LastPartner[t.Second] = t.First
		} else {
			delete(s.LastPartner, t.First)
		}
	}

	t1, t2 := g.Team1.Players(), g.Team2.Players()
	for _, a := range t1 {
		for _, b := range t2 {
			s.Opponents[newPairKey(a, b)]++
		}
	}
	for _, a := range t1 {
		s.LastOpponents[a] = toSet(t2)
	}
	for _, b := range t2 {
		s.LastOpponents[b] = toSet(t1)
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
