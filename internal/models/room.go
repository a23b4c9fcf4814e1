package models

import "time"

// Room represents a physical room with a fixed seat count.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Number    string    `db:"number" json:"number"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filters for listing rooms.
type RoomFilter struct {
	Search      string
	MinCapacity int
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
