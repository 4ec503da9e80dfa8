package models

// GuildSnapshot is the per-side guild identity frozen onto the match at
// archive time. The live guilds table may drift; the snapshot never does.
type GuildSnapshot struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Tag             string `json:"tag"`
	Rank            int    `json:"rank"`
	Rating          int    `json:"rating"`
	Faction         string `json:"faction"`
	FactionPoints   int    `json:"faction_points"`
	QualifierPoints int    `json:"qualifier_points"`
	Country         string `json:"country,omitempty"`
}

// MatchPlayer is one human participant of a match.
type MatchPlayer struct {
	AgentID             int64  `json:"agent_id"`
	PseudoName          string `json:"pseudo_name"`
	Username            string `json:"username,omitempty"`
	GuildID             int    `json:"guild_id"`
	TeamID              int    `json:"team_id"`
	PartyID             int    `json:"party_id"`
	PlayerNumber        int    `json:"player_number"`
	ModelID             int    `json:"model_id"`
	PrimaryProfession   int    `json:"primary_profession"`
	SecondaryProfession int    `json:"secondary_profession"`
	Level               int    `json:"level"`
	SkillTemplateCode   string `json:"skill_template_code"`
	UsedSkills          []int  `json:"used_skills"`
}

// MatchNPC is a non-player agent observed during a match (bodyguards, knights,
// summoned creatures).
type MatchNPC struct {
	AgentID             int64  `json:"agent_id"`
	TeamID              int    `json:"team_id"`
	ModelID             int    `json:"model_id"`
	GadgetID            int    `json:"gadget_id"`
	PrimaryProfession   int    `json:"primary_profession"`
	SecondaryProfession int    `json:"secondary_profession"`
	Level               int    `json:"level"`
	EncodedName         string `json:"encoded_name"`
	UsedSkills          []int  `json:"used_skills"`
}

// MatchInfo is the header block of a match detail response.
type MatchInfo struct {
	MatchID          int64    `json:"match_id"`
	MapID            int      `json:"map_id"`
	MapName          string   `json:"map_name"`
	Flux             string   `json:"flux"`
	Occasion         string   `json:"occasion"`
	MatchDate        string   `json:"match_date"`
	Duration         string   `json:"duration"`
	OriginalDuration string   `json:"original_duration"`
	EndTimeMS        int64    `json:"end_time_ms"`
	EndTimeFormatted string   `json:"end_time_formatted"`
	WinnerPartyID    int      `json:"winner_party_id"`
	WinnerGuildID    int      `json:"winner_guild_id"`
	Description      string   `json:"description,omitempty"`
	Vods             []string `json:"vods"`
	Credits          string   `json:"credits,omitempty"`
	AddedToWebsite   string   `json:"added_to_website,omitempty"`
}

// MatchParty groups one side's players and NPCs. The JSON keys mirror the
// capture format the archive ingests.
type MatchParty struct {
	Players []MatchPlayer `json:"PLAYER"`
	Others  []MatchNPC    `json:"OTHER"`
}

// MatchStats summarizes participant counts for a match detail response.
type MatchStats struct {
	TotalPlayers int `json:"total_players"`
	TotalNPCs    int `json:"total_npcs"`
	Team1Players int `json:"team1_players"`
	Team2Players int `json:"team2_players"`
}

// MatchDetail is the full detail view of one archived match. Guilds and
// parties are keyed by guild id and party number respectively, as strings,
// matching the capture format.
type MatchDetail struct {
	MatchInfo MatchInfo                `json:"match_info"`
	Guilds    map[string]GuildSnapshot `json:"guilds"`
	Parties   map[string]MatchParty    `json:"parties"`
	Stats     MatchStats               `json:"stats"`
}

// SkillMatchesResponse is the paginated result of a skill-to-match reverse
// lookup.
type SkillMatchesResponse struct {
	SkillID    int             `json:"skill_id"`
	SkillName  string          `json:"skill_name"`
	Matches    []SkillMatchRow `json:"matches"`
	Pagination Pagination      `json:"pagination"`
}

// SkillMatchRow is one row of the skill-to-match reverse lookup: a match plus
// the participant who brought the skill.
type SkillMatchRow struct {
	MatchID             int64  `json:"match_id"`
	MatchDate           string `json:"match_date"`
	MapName             string `json:"map_name"`
	Occasion            string `json:"occasion"`
	Flux                string `json:"flux"`
	PlayerNumber        int    `json:"player_number"`
	GuildID             int    `json:"guild_id"`
	EncodedName         string `json:"encoded_name"`
	PrimaryProfession   int    `json:"primary_profession"`
	SecondaryProfession int    `json:"secondary_profession"`
	UsedSkills          []int  `json:"used_skills"`
	GuildName           string `json:"guild_name"`
	GuildTag            string `json:"guild_tag"`
	GuildRank           int    `json:"guild_rank"`
}
