package savedstories

import (
	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

// ListInput defines the request for listing saved stories
type ListInput struct {
	PlayerID string
	Limit    int
}

// ListOutput defines the response for listing saved stories
type ListOutput struct {
	Stories []*entities.SavedStory
}

// DeleteInput defines the request for deleting a saved story
type DeleteInput struct {
	PlayerID string
	StoryID  string
}

// DeleteOutput defines the response for deleting a saved story
type DeleteOutput struct {
	Deleted bool
}
