package postgres

import "time"

type cacheTableModel struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	ExpiresAt time.Time `db:"expires_at"`
}

type cacheInsertModel struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	ExpiresAt time.Time `db:"expires_at"`
}
