package postgres

import "time"

type alertMarkerInsertModel struct {
	ID     string    `db:"id"`
	SentAt time.Time `db:"sent_at"`
}
