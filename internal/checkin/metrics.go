package checkin

import "sort"

// ContextCount pairs a food context with how many check-ins carry it.
type ContextCount struct {
	Context FoodContext
	Count   int
}

// Metrics are habit counts over a filtered set of check-ins.
type Metrics struct {
	Trained        int
	Hydrated       int
	SleptWell      int
	DietFull       int
	DietChallenged int
	ShieldsUsed    int
	TotalCheckins  int

	// Contexts holds each tag seen, in first-encountered order.
	Contexts []ContextCount
}

// Aggregate counts habits across checkins. A check-in tagged with several
// contexts increments each of them once.
func Aggregate(checkins []CheckIn) Metrics {
	m := Metrics{TotalCheckins: len(checkins)}
	index := map[FoodContext]int{}

	for _, c := range checkins {
		if c.Trained {
			m.Trained++
		}
		if c.DrankWater {
			m.Hydrated++
		}
		if c.SleptWell {
			m.SleptWell++
		}
		if c.Food.Challenged() {
			m.DietChallenged++
		} else {
			m.DietFull++
		}
		if c.ShieldActivated {
			m.ShieldsUsed++
		}

		counted := map[FoodContext]bool{}
		for _, ctx := range c.Contexts {
			if counted[ctx] {
				continue
			}
			counted[ctx] = true
			i, ok := index[ctx]
			if !ok {
				i = len(m.Contexts)
				index[ctx] = i
				m.Contexts = append(m.Contexts, ContextCount{Context: ctx})
			}
			m.Contexts[i].Count++
		}
	}
	return m
}

// ContextFrequency returns the context counts as a map.
func (m Metrics) ContextFrequency() map[FoodContext]int {
	freq := make(map[FoodContext]int, len(m.Contexts))
	for _, cc := range m.Contexts {
		freq[cc.Context] = cc.Count
	}
	return freq
}

// TopContexts returns up to n tags with a nonzero count, highest first.
// Ties keep first-encountered order.
func (m Metrics) TopContexts(n int) []ContextCount {
	top := make([]ContextCount, 0, len(m.Contexts))
	for _, cc := range m.Contexts {
		if cc.Count > 0 {
			top = append(top, cc)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if n >= 0 && len(top) > n {
		top = top[:n]
	}
	return top
}
