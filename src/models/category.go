package models

// Category is a transaction label. Global defaults have a nil UserID;
// user-created categories carry the owner's id.
type Category struct {
	ID     int64  `json:"id"`
	UserID *int64 `json:"user_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}
