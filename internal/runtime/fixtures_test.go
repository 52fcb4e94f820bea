package runtime_test

import (
	"slices"

	"github.com/aretw0/orgtree/pkg/domain"
)

// Sample organization used across the runtime tests.
//
//	Mark (1)
//	┣ Sarah (2)
//	┃ ┗ Cassandra (3)
//	┃   ┣ Mary (4)
//	┃   ┗ Bob (5)
//	┃     ┗ Tina (6)
//	┃       ┗ Will (7)
//	┣ Tyler (8)
//	┃ ┣ Harry (9)
//	┃ ┃ ┗ Thomas (10)
//	┃ ┣ George (11)
//	┃ ┗ Gary (12)
//	┣ Bruce (13)
//	┗ Georgina (14)
//	  ┗ Sophie (15)
const (
	mark = iota + 1
	sarah
	cass
	mary
	bob
	tina
	will
	tyler
	harry
	thomas
	george
	gary
	bruce
	georgina
	sophie
)

func sampleChart() domain.Chart {
	return domain.Chart{ID: mark, Subordinates: []domain.Chart{
		{ID: sarah, Subordinates: []domain.Chart{
			{ID: cass, Subordinates: []domain.Chart{
				{ID: mary},
				{ID: bob, Subordinates: []domain.Chart{
					{ID: tina, Subordinates: []domain.Chart{{ID: will}}},
				}},
			}},
		}},
		{ID: tyler, Subordinates: []domain.Chart{
			{ID: harry, Subordinates: []domain.Chart{{ID: thomas}}},
			{ID: george},
			{ID: gary},
		}},
		{ID: bruce},
		{ID: georgina, Subordinates: []domain.Chart{{ID: sophie}}},
	}}
}

// normalize sorts subordinates by ID at every level so charts can be compared as sets.
func normalize(c domain.Chart) domain.Chart {
	out := domain.Chart{ID: c.ID}
	for _, sub := range c.Subordinates {
		out.Subordinates = append(out.Subordinates, normalize(sub))
	}
	slices.SortFunc(out.Subordinates, func(a, b domain.Chart) int { return a.ID - b.ID })
	return out
}
