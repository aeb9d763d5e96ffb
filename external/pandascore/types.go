package pandascore

type apiMatch struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	BeginAt   string            `json:"begin_at"`
	Status    string            `json:"status"`
	WinnerID  int64             `json:"winner_id"`
	League    apiLeague         `json:"league"`
	Serie     apiSerie          `json:"serie"`
	Videogame apiVideogame      `json:"videogame"`
	Opponents []apiOpponentSlot `json:"opponents"`
}

type apiLeague struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type apiSerie struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type apiVideogame struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type apiOpponentSlot struct {
	Type     string      `json:"type"`
	Opponent apiOpponent `json:"opponent"`
}

type apiOpponent struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}
