package models

import "time"

type Guild struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key,omitempty"`
	Name      string    `json:"name"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

type Pseudo struct {
	ID        int64     `json:"id"`
	Pseudo    string    `json:"pseudo"`
	UserID    *int64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
