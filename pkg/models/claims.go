package models

// Claims is the (room, country) pair recovered from a verified bearer
// token. It exists only for the duration of a request and is never
// persisted.
type Claims struct {
	RoomID  string `json:"room_id"`
	Country string `json:"country"`
}
