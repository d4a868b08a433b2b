package schedule

import (
	"sort"

	"github.com/jokerbb83/tennis-matching-app-sub000/internal/roster"
)

const rebalancePasses = 4

// Rebalance evens out appearances inside the larger gender of a mixed-doubles
// schedule, the group whose members get fewer games on average. Players only
// ever replace someone of their own gender, so one-man-one-woman teams stay
// intact. With rule.SameGroup each player group is balanced on its own games
// and no one is moved into another group's game. Returns the number of swaps
// made.
func Rebalance(games []Game, players []roster.Player, rule SwapRule) int {
	if !rule.SameGroup {
		all := make([]int, len(games))
		for i := range games {
			all[i] = i
		}
		return rebalancePool(games, all, players, rule)
	}

	swaps := 0
	for _, pool := range byGroup(players) {
		inPool := make(map[string]bool, len(pool))
		for _, p := range pool {
			inPool[p.Name] = true
		}
		var idx []int
		for i, g := range games {
			if groupMembers(g, inPool) == len(g.Players()) {
				idx = append(idx, i)
			}
		}
		swaps += rebalancePool(games, idx, pool, rule)
	}
	return swaps
}

// byGroup splits players by group, groups in order of first appearance.
func byGroup(players []roster.Player) [][]roster.Player {
	index := make(map[roster.Group]int)
	var pools [][]roster.Player
	for _, p := range players {
		i, ok := index[p.Group]
		if !ok {
			i = len(pools)
			index[p.Group] = i
			pools = append(pools, nil)
		}
		pools[i] = append(pools[i], p)
	}
	return pools
}

// rebalancePool balances players over the games at idx.
func rebalancePool(games []Game, idx []int, players []roster.Player, rule SwapRule) int {
	var men, women []roster.Player
	for _, p := range players {
		if p.Gender == roster.Female {
			women = append(women, p)
		} else {
			men = append(men, p)
		}
	}
	if len(idx) == 0 || len(men) == 0 || len(women) == 0 || len(men) == len(women) {
		return 0
	}

	group := men
	if len(women) > len(men) {
		group = women
	}
	byName := make(map[string]roster.Player, len(group))
	inGroup := make(map[string]bool, len(group))
	for _, p := range group {
		byName[p.Name] = p
		inGroup[p.Name] = true
	}

	counts := make(map[string]int, len(group))
	for _, i := range idx {
		for _, p := range games[i].Players() {
			if inGroup[p] {
				counts[p]++
			}
		}
	}
	targets := rebalanceTargets(group, counts, 2*len(idx))

	swaps := 0
	for pass := 0; pass < rebalancePasses; pass++ {
		var over, under []string
		for _, p := range group {
			switch c, t := counts[p.Name], targets[p.Name]; {
			case c > t:
				over = append(over, p.Name)
			case c < t:
				under = append(under, p.Name)
			}
		}
		if len(over) == 0 || len(under) == 0 {
			break
		}
		sort.SliceStable(over, func(i, j int) bool {
			return counts[over[i]]-targets[over[i]] > counts[over[j]]-targets[over[j]]
		})
		sort.SliceStable(under, func(i, j int) bool {
			return targets[under[i]]-counts[under[i]] > targets[under[j]]-counts[under[j]]
		})

		// Each over-served player gives up at most one game per pass.
		improved := false
		for _, o := range over {
			if swapOut(games, idx, o, under, counts, targets, byName, rule) {
				swaps++
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return swaps
}

// swapOut applies the first valid substitution of an under-served player for
// o and updates counts.
func swapOut(games []Game, idx []int, o string, under []string, counts, targets map[string]int, byName map[string]roster.Player, rule SwapRule) bool {
	inGroup := func(name string) bool {
		_, ok := byName[name]
		return ok
	}
	for _, gi := range idx {
		g := games[gi]
		if !g.Has(o) || groupCount(g, inGroup) != 2 {
			continue
		}
		for _, u := range under {
			if counts[u] >= targets[u] || g.Has(u) || busyInRound(games, g.Round, gi, u) {
				continue
			}
			if !rule.compatible(byName[o], byName[u]) {
				continue
			}
			games[gi].substitute(o, u)
			counts[o]--
			counts[u]++
			return true
		}
	}
	return false
}

// rebalanceTargets splits budget over the group: everyone gets the floor and
// budget mod size players get one more, least-played first.
func rebalanceTargets(group []roster.Player, counts map[string]int, budget int) map[string]int {
	base, extra := budget/len(group), budget%len(group)
	order := make([]string, len(group))
	for i, p := range group {
		order[i] = p.Name
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] < counts[order[j]]
	})

	targets := make(map[string]int, len(group))
	for i, name := range order {
		targets[name] = base
		if i < extra {
			targets[name]++
		}
	}
	return targets
}

func groupMembers(g Game, inGroup map[string]bool) int {
	return groupCount(g, func(name string) bool { return inGroup[name] })
}

func groupCount(g Game, in func(string) bool) int {
	n := 0
	for _, p := range g.Players() {
		if in(p) {
			n++
		}
	}
	return n
}
