package sportsdb

// TheSportsDB encodes nearly every field as a string and uses null for
// whole collections, so the envelopes stay stringly typed and the mapper
// does the coercion.

type eventsEnvelope struct {
	Events []apiEvent `json:"events"`
}

type lastEventsEnvelope struct {
	Results []apiEvent `json:"results"`
}

type teamsEnvelope struct {
	Teams []apiTeam `json:"teams"`
}

type apiEvent struct {
	IDEvent      string `json:"idEvent"`
	StrEvent     string `json:"strEvent"`
	StrHomeTeam  string `json:"strHomeTeam"`
	StrAwayTeam  string `json:"strAwayTeam"`
	IDHomeTeam   string `json:"idHomeTeam"`
	IDAwayTeam   string `json:"idAwayTeam"`
	IntHomeScore string `json:"intHomeScore"`
	IntAwayScore string `json:"intAwayScore"`
	StrStatus    string `json:"strStatus"`
	StrLeague    string `json:"strLeague"`
	StrSeason    string `json:"strSeason"`
	DateEvent    string `json:"dateEvent"`
	StrTime      string `json:"strTime"`
	StrTimestamp string `json:"strTimestamp"`
}

type apiTeam struct {
	IDTeam       string `json:"idTeam"`
	StrTeam      string `json:"strTeam"`
	StrTeamShort string `json:"strTeamShort"`
}
