package models

// IngestGuild is one guild entry of a capture upload, keyed by the in-match
// guild number ("1" or "2").
type IngestGuild struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Tag             string `json:"tag"`
	Rank            int    `json:"rank"`
	Rating          int    `json:"rating"`
	Faction         string `json:"faction"`
	FactionPoints   int    `json:"faction_points"`
	QualifierPoints int    `json:"qualifier_points"`
	Country         string `json:"country"`
}

// IngestAgent is one agent (player or NPC) of a capture upload.
type IngestAgent struct {
	ID                int64  `json:"id"`
	Primary           int    `json:"primary"`
	Secondary         int    `json:"secondary"`
	Level             int    `json:"level"`
	TeamID            int    `json:"team_id"`
	PlayerNumber      int    `json:"player_number"`
	GuildID           int    `json:"guild_id"`
	ModelID           int    `json:"model_id"`
	GadgetID          int    `json:"gadget_id"`
	EncodedName       string `json:"encoded_name"`
	SkillTemplateCode string `json:"skill_template_code"`
	UsedSkills        []int  `json:"used_skills"`
}

// IngestParty splits a side's agents into humans and everything else.
type IngestParty struct {
	Players []IngestAgent `json:"PLAYER"`
	Others  []IngestAgent `json:"OTHER"`
}

// CreateMatchRequest is the body of POST /api/matchs: one captured match as
// produced by the in-game observer tooling.
type CreateMatchRequest struct {
	MapID                 int                    `json:"map_id"`
	MapName               string                 `json:"map_name"`
	Flux                  string                 `json:"flux"`
	Day                   int                    `json:"day"`
	Month                 int                    `json:"month"`
	Year                  int                    `json:"year"`
	Occasion              string                 `json:"occasion"`
	MatchDuration         string                 `json:"match_duration"`
	MatchOriginalDuration string                 `json:"match_original_duration"`
	MatchEndTimeMS        int64                  `json:"match_end_time_ms"`
	MatchEndTimeFormatted string                 `json:"match_end_time_formatted"`
	WinnerPartyID         int                    `json:"winner_party_id"`
	Parties               map[string]IngestParty `json:"parties"`
	Guilds                map[string]IngestGuild `json:"guilds"`
	Credits               string                 `json:"credits"`
	AddedToWebsite        string                 `json:"added_to_website"`
	Description           string                 `json:"description"`
	VodURLs               []string               `json:"vod_urls"`
}

// CreateMatchResult reports what an ingestion inserted.
type CreateMatchResult struct {
	Success         bool  `json:"success"`
	MatchID         int64 `json:"match_id"`
	PlayersInserted int   `json:"players_inserted"`
	NPCsInserted    int   `json:"npcs_inserted"`
}
