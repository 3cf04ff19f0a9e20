package pokeapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

// drawAttemptsPerElement bounds retries when random IDs miss
const drawAttemptsPerElement = 5

// between returns a uniform integer in [lo, hi]
func (c *client) between(lo, hi int) (int, error) {
	if hi < lo {
		return 0, errors.InvalidArgumentf("empty range [%d, %d]", lo, hi)
	}
	roll, err := c.roller.Roll(hi - lo + 1)
	if err != nil {
		return 0, errors.Wrap(err, "dice roll failed")
	}
	return lo + roll - 1, nil
}

// shuffle is a Fisher-Yates shuffle driven by the roller
func (c *client) shuffle(ids []int) error {
	for i := len(ids) - 1; i > 0; i-- {
		j, err := c.between(0, i)
		if err != nil {
			return err
		}
		ids[i], ids[j] = ids[j], ids[i]
	}
	return nil
}

func inGenerations(gens []entities.Generation, id int) bool {
	for _, g := range gens {
		if g.Contains(id) {
			return true
		}
	}
	return false
}

func (c *client) ProtagonistCandidates(ctx context.Context, generations []int) ([]entities.Element, error) {
	gens := entities.GenerationsByID(generations)
	if len(gens) == 0 {
		return nil, errors.InvalidArgumentf("no known generations in %v", generations)
	}

	candidates := make([]entities.Element, 0, ProtagonistCandidateCount)
	usedTypes := make(map[int]bool, TotalTypes)

	for len(candidates) < ProtagonistCandidateCount && len(usedTypes) < TotalTypes {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeCanceled, "candidate draw interrupted")
		}

		typeID, err := c.between(1, TotalTypes)
		if err != nil {
			return nil, err
		}
		if usedTypes[typeID] {
			continue
		}
		usedTypes[typeID] = true

		candidate, found, err := c.pureTypeCandidate(ctx, typeID, gens)
		if err != nil {
			slog.WarnContext(ctx, "skipping type for candidates",
				"type_id", typeID,
				"error", err)
			continue
		}
		if found {
			candidates = append(candidates, candidate)
		}
	}

	return candidates, nil
}

// pureTypeCandidate walks the type's pokemon in random order and returns
// the first one that has exactly one type
func (c *client) pureTypeCandidate(ctx context.Context, typeID int, gens []entities.Generation) (entities.Element, bool, error) {
	var typ typeResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/type/%d", typeID), &typ); err != nil {
		return entities.Element{}, false, err
	}

	ids := make([]int, 0, len(typ.Pokemon))
	for _, entry := range typ.Pokemon {
		id, ok := entry.Pokemon.idFromURL()
		if ok && inGenerations(gens, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return entities.Element{}, false, nil
	}

	if err := c.shuffle(ids); err != nil {
		return entities.Element{}, false, err
	}

	for _, id := range ids {
		var pokemon pokemonResponse
		if err := c.getJSON(ctx, fmt.Sprintf("/pokemon/%d", id), &pokemon); err != nil {
			slog.DebugContext(ctx, "candidate fetch failed", "pokemon_id", id, "error", err)
			continue
		}
		if len(pokemon.Types) == 1 {
			return pokemon.toElement(), true, nil
		}
	}

	return entities.Element{}, false, nil
}

func (c *client) RandomElements(ctx context.Context, count int, generations []int) ([]entities.Element, error) {
	if count <= 0 {
		return []entities.Element{}, nil
	}

	gens := entities.GenerationsByID(generations)
	elements := make([]entities.Element, 0, count)

	var lastErr error
	for attempt := 0; len(elements) < count && attempt < count*drawAttemptsPerElement; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeCanceled, "element draw interrupted")
		}

		element, err := c.randomElement(ctx, gens)
		if err != nil {
			lastErr = err
			slog.DebugContext(ctx, "random element draw failed, retrying",
				"attempt", attempt,
				"error", err)
			continue
		}
		elements = append(elements, element)
	}

	if len(elements) < count {
		if lastErr == nil {
			return nil, errors.Unavailablef("drew %d of %d story elements", len(elements), count)
		}
		return nil, errors.WrapWithCode(lastErr, errors.CodeUnavailable,
			fmt.Sprintf("drew %d of %d story elements", len(elements), count))
	}

	return elements, nil
}

func (c *client) randomElement(ctx context.Context, gens []entities.Generation) (entities.Element, error) {
	flip, err := c.between(0, 1)
	if err != nil {
		return entities.Element{}, err
	}

	if flip == 1 && len(gens) > 0 {
		idx, err := c.between(0, len(gens)-1)
		if err != nil {
			return entities.Element{}, err
		}
		id, err := c.between(gens[idx].Start, gens[idx].End)
		if err != nil {
			return entities.Element{}, err
		}

		var pokemon pokemonResponse
		if err := c.getJSON(ctx, fmt.Sprintf("/pokemon/%d", id), &pokemon); err != nil {
			return entities.Element{}, err
		}
		return pokemon.toElement(), nil
	}

	id, err := c.between(1, TotalLocations)
	if err != nil {
		return entities.Element{}, err
	}

	var location locationResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/location/%d", id), &location); err != nil {
		return entities.Element{}, err
	}
	if location.ID == 0 {
		location.ID = id
	}
	return location.toElement(), nil
}
