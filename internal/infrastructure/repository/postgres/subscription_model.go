package postgres

import "time"

type subscriptionTableModel struct {
	ChatID         string    `db:"chat_id"`
	Enabled        bool      `db:"enabled"`
	SportsEnabled  bool      `db:"sports_enabled"`
	EsportsEnabled bool      `db:"esports_enabled"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type subscriptionInsertModel struct {
	ChatID         string `db:"chat_id"`
	Enabled        bool   `db:"enabled"`
	SportsEnabled  bool   `db:"sports_enabled"`
	EsportsEnabled bool   `db:"esports_enabled"`
}
