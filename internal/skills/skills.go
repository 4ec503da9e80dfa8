package skills

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed skills.json
var skillsFS embed.FS

// pvpVariantFlag marks a skill as the PvP-balanced variant of another skill.
const pvpVariantFlag = 0x400000

// Skill is one row of the static skill metadata table.
type Skill struct {
	ID          int
	Name        string
	Activation  float64
	Recharge    float64
	Type        int
	Energy      int
	Flags       int
	Flags2      int
	Target      int
	Attribute   int
	Profession  int
	Campaign    int
	Rarity      int
	Progression int
	LinkID      int
}

// UnmarshalJSON decodes the compact tuple form the data file uses:
// [id, name, activation, recharge, type, energy, flags, flags2, target,
// attribute, profession, campaign, rarity, progression, linkId].
func (s *Skill) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 15 {
		return fmt.Errorf("skill tuple has %d fields, want 15", len(tuple))
	}

	fields := []any{
		&s.ID, &s.Name, &s.Activation, &s.Recharge, &s.Type, &s.Energy,
		&s.Flags, &s.Flags2, &s.Target, &s.Attribute, &s.Profession,
		&s.Campaign, &s.Rarity, &s.Progression, &s.LinkID,
	}
	for i, field := range fields {
		if err := json.Unmarshal(tuple[i], field); err != nil {
			return fmt.Errorf("skill tuple field %d: %w", i, err)
		}
	}
	return nil
}

// Index is an immutable lookup over the skill table. It is built once during
// process initialization and read concurrently afterwards.
type Index struct {
	byID     map[int]Skill
	pvpToPvE map[int]int
	pve      map[int]struct{}
}

// Load parses the embedded skill table and resolves PvP/PvE links.
func Load() (*Index, error) {
	data, err := skillsFS.ReadFile("skills.json")
	if err != nil {
		return nil, err
	}

	var skills []Skill
	if err := json.Unmarshal(data, &skills); err != nil {
		return nil, fmt.Errorf("parse skills.json: %w", err)
	}

	ix := &Index{
		byID:     make(map[int]Skill, len(skills)),
		pvpToPvE: make(map[int]int),
		pve:      make(map[int]struct{}),
	}
	for _, s := range skills {
		ix.byID[s.ID] = s
	}
	for _, s := range skills {
		if s.LinkID == 0 {
			continue
		}
		linked, ok := ix.byID[s.LinkID]
		if !ok {
			continue
		}
		// The link is symmetric in the data but only one end carries the PvP
		// flag. Whichever end is PvP resolves to the other for artwork.
		if linked.Flags&pvpVariantFlag != 0 {
			ix.pve[s.ID] = struct{}{}
			ix.pvpToPvE[linked.ID] = s.ID
		} else {
			ix.pve[linked.ID] = struct{}{}
			ix.pvpToPvE[s.ID] = linked.ID
		}
	}
	return ix, nil
}

// Lookup returns the skill with the given id.
func (ix *Index) Lookup(id int) (Skill, bool) {
	s, ok := ix.byID[id]
	return s, ok
}

// ImageID maps a skill to the id whose artwork should be shown: PvP variants
// share the art of their PvE source.
func (ix *Index) ImageID(id int) int {
	if pve, ok := ix.pvpToPvE[id]; ok {
		return pve
	}
	return id
}

// IsPvE reports whether the skill is the PvE end of a PvP/PvE pair.
func (ix *Index) IsPvE(id int) bool {
	_, ok := ix.pve[id]
	return ok
}

// Len returns the number of skills in the index.
func (ix *Index) Len() int {
	return len(ix.byID)
}
