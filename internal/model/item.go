package model

// Item is the domain model for a todo entry as the API returns it.
// ID 0 is never a persisted id; the client uses it for the pending
// placeholder shown while a create request is in flight.
type Item struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// PlaceholderID marks an item that has not been created on the server yet.
const PlaceholderID = 0

// IsPlaceholder reports whether the item is the pending create placeholder.
func (it Item) IsPlaceholder() bool { return it.ID == PlaceholderID }
