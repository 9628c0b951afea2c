package todo

import (
	"fmt"
	"strings"
)

// Notice texts, one per failing operation.
const (
	MsgLoadFailed   = "Unable to load items"
	MsgAddFailed    = "Unable to add an item"
	MsgDeleteFailed = "Unable to delete an item"
	MsgUpdateFailed = "Unable to update an item"
	MsgEmptyTitle   = "Title should not be empty"
)

// ValidationError is a local input error; it never reaches the API.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTitle trims title and rejects it when nothing is left.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: MsgEmptyTitle}
	}
	return title, nil
}
