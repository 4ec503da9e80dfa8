package models

// MaxProfessionSlots is the number of independent profession headcount
// constraints a memorial search accepts.
const MaxProfessionSlots = 10

// DefaultSearchLimit is the page size used when the caller does not ask for one.
const DefaultSearchLimit = 50

// ProfessionSlot is one headcount constraint: "some guild-side fielded at
// least MinCount players of Profession". A zero Profession or MinCount leaves
// the slot inactive; a count without a profession never filters.
type ProfessionSlot struct {
	Profession int
	MinCount   int
}

// Active reports whether this slot should emit a predicate.
func (s ProfessionSlot) Active() bool {
	return s.Profession > 0 && s.MinCount > 0
}

// MemorialFilters is the normalized bundle of all search constraints for one
// memorial request. Zero values mean "filter absent".
type MemorialFilters struct {
	Search   string
	DateFrom string // YYYY-MM-DD, lexicographic-safe
	DateTo   string
	MapID    int
	Flux     string
	Occasion string
	GuildID  int

	Professions [MaxProfessionSlots]ProfessionSlot

	Limit  int
	Offset int
}

// Pagination describes where a result page sits inside the full result set.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// NewPagination derives the pagination block from an independently computed
// total, never from the size of the returned page.
func NewPagination(total, limit, offset int) Pagination {
	return Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}

// MemorialMatch is one grouped row of the memorial result query: the match
// summary plus each side's aggregated profession lineup.
type MemorialMatch struct {
	MatchID           int64  `json:"match_id"`
	MatchDate         string `json:"match_date"`
	MapID             int    `json:"map_id"`
	MapName           string `json:"map_name"`
	Flux              string `json:"flux"`
	Occasion          string `json:"occasion"`
	DurationFormatted string `json:"duration_formatted"`
	Guild1ID          int    `json:"guild1_id"`
	Guild1Name        string `json:"guild1_name"`
	Guild1Tag         string `json:"guild1_tag"`
	Guild1Rank        int    `json:"guild1_rank"`
	Guild2ID          int    `json:"guild2_id"`
	Guild2Name        string `json:"guild2_name"`
	Guild2Tag         string `json:"guild2_tag"`
	Guild2Rank        int    `json:"guild2_rank"`
	WinnerGuildID     int    `json:"winner_guild_id"`
	Guild1Professions []int  `json:"guild1_professions"`
	Guild2Professions []int  `json:"guild2_professions"`
	TotalPlayers      int    `json:"total_players"`
}

// MemorialResponse is the JSON contract of GET /api/memorial.
type MemorialResponse struct {
	Matches    []MemorialMatch `json:"matches"`
	Pagination Pagination      `json:"pagination"`
}

// MapOption is one entry of the map filter-option list.
type MapOption struct {
	ID   int    `json:"map_id"`
	Name string `json:"map_name"`
}

// GuildOption is one entry of the guild directory. MatchCount is only
// populated when the directory was substring-filtered.
type GuildOption struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Tag        string `json:"tag"`
	MatchCount int    `json:"match_count,omitempty"`
}

// FilterOptions bundles all four filter-option lists for the "all" request type.
type FilterOptions struct {
	Occasions []string      `json:"occasions"`
	Fluxes    []string      `json:"fluxes"`
	Maps      []MapOption   `json:"maps"`
	Guilds    []GuildOption `json:"guilds"`
}
