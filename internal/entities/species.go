package entities

// ListItem is a named reference returned by list endpoints
type ListItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Pokemon is the catalog detail record for one species
type Pokemon struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Types       []string `json:"types"`
	Height      int      `json:"height"`
	Weight      int      `json:"weight"`
	SpriteURL   string   `json:"sprite_url"`
	CryURL      string   `json:"cry_url"`
	Description string   `json:"description"`
}

// Generation is a national-dex range
type Generation struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// Contains reports whether the national-dex number falls in this generation
func (g Generation) Contains(dexID int) bool {
	return dexID >= g.Start && dexID <= g.End
}

var generations = []Generation{
	{ID: 1, Name: "generation-i", DisplayName: "Gen I (Kanto)", Start: 1, End: 151},
	{ID: 2, Name: "generation-ii", DisplayName: "Gen II (Johto)", Start: 152, End: 251},
	{ID: 3, Name: "generation-iii", DisplayName: "Gen III (Hoenn)", Start: 252, End: 386},
	{ID: 4, Name: "generation-iv", DisplayName: "Gen IV (Sinnoh)", Start: 387, End: 493},
	{ID: 5, Name: "generation-v", DisplayName: "Gen V (Unova)", Start: 494, End: 649},
	{ID: 6, Name: "generation-vi", DisplayName: "Gen VI (Kalos)", Start: 650, End: 721},
	{ID: 7, Name: "generation-vii", DisplayName: "Gen VII (Alola)", Start: 722, End: 809},
	{ID: 8, Name: "generation-viii", DisplayName: "Gen VIII (Galar)", Start: 810, End: 905},
	{ID: 9, Name: "generation-ix", DisplayName: "Gen IX (Paldea)", Start: 906, End: 1025},
}

// Generations returns a copy of the generation table
func Generations() []Generation {
	out := make([]Generation, len(generations))
	copy(out, generations)
	return out
}

// GenerationsByID resolves the selected generations. An empty selection
// means every generation; unknown IDs are ignored.
func GenerationsByID(ids []int) []Generation {
	if len(ids) == 0 {
		return Generations()
	}
	var out []Generation
	for _, g := range generations {
		for _, id := range ids {
			if g.ID == id {
				out = append(out, g)
				break
			}
		}
	}
	return out
}
