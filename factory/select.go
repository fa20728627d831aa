package factory

import "github.com/nicu/typemockr/entity"

// precedence ranks same-named declarations; the highest rank is emitted.
var precedence = map[entity.Kind]int{
	entity.KindInstance:    7,
	entity.KindEnum:        6,
	entity.KindAlias:       5,
	entity.KindUnion:       4,
	entity.KindArray:       3,
	entity.KindPrimitive:   3,
	entity.KindConstant:    2,
	entity.KindPlaceholder: 1,
}

// Rank returns the emission precedence of a kind. Unknown kinds rank 0.
func Rank(k entity.Kind) int { return precedence[k] }

// Select picks one entity per name: the highest-ranked kind, ties going to
// the first declared. The result keeps the order in which names first appear.
// The input slice is not modified.
func Select(entities []*entity.Entity) []*entity.Entity {
	winners := make(map[string]int, len(entities))
	var order []string
	for i, e := range entities {
		if e == nil {
			continue
		}
		cur, ok := winners[e.Name]
		if !ok {
			winners[e.Name] = i
			order = append(order, e.Name)
			continue
		}
		if Rank(e.Kind) > Rank(entities[cur].Kind) {
			winners[e.Name] = i
		}
	}

	out := make([]*entity.Entity, 0, len(order))
	for _, name := range order {
		out = append(out, entities[winners[name]])
	}
	return out
}
