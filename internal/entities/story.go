package entities

import (
	"slices"
	"strconv"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Story arc bounds
const (
	FirstStep      = 1
	FinalStep      = 10
	OptionsPerStep = 4
)

// Language selects the narration language
type Language string

// Supported languages
const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"
)

// Languages lists every supported language
func Languages() []string {
	return []string{string(LanguageSpanish), string(LanguageEnglish)}
}

// ElementKind classifies narrative elements
type ElementKind string

// Element kinds
const (
	ElementKindPokemon  ElementKind = "pokemon"
	ElementKindLocation ElementKind = "location"
)

// Element is a creature or place introduced into the story.
// Location IDs are negative so they never collide with species IDs.
type Element struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Kind        ElementKind `json:"kind"`
	InternalURL string      `json:"internal_url"`
	SpriteURL   string      `json:"sprite_url,omitempty"`
}

var _ core.Entity = (*Element)(nil)

// GetID returns the element ID as a string
func (e *Element) GetID() string {
	return strconv.Itoa(e.ID)
}

// GetType returns the element kind
func (e *Element) GetType() string {
	return string(e.Kind)
}

// Effects are the consequences attached to a story option
type Effects struct {
	ExperienceGain int     `json:"experience_gain"`
	HPDelta        int     `json:"hp_delta"`
	MoraleDelta    int     `json:"morale_delta"`
	NewTrait       *string `json:"new_trait,omitempty"`
}

// StoryOption is one of the four choices offered at a step
type StoryOption struct {
	Text    string  `json:"text"`
	Effects Effects `json:"effects"`
}

// StepResult is a validated narrative segment
type StepResult struct {
	StoryText string        `json:"story_text"`
	Options   []StoryOption `json:"options"`
	IconName  string        `json:"icon_name,omitempty"`
	// Fallback is set when the segment was authored locally because
	// generation failed or returned something unusable.
	Fallback bool `json:"fallback"`
}

// StoryStatus is the sequencer state of a playthrough
type StoryStatus string

// Story statuses
const (
	StoryStatusActive    StoryStatus = "active"
	StoryStatusCompleted StoryStatus = "completed"
	StoryStatusFailed    StoryStatus = "failed"
)

// MapNode marks a visited step on the journey map
type MapNode struct {
	Step     int    `json:"step"`
	IconName string `json:"icon_name"`
	Title    string `json:"title"`
}

// StoryState is one in-memory playthrough.
// Protagonist is a working copy; the roster stays the owner and every change
// is written back through it.
// Generating is stored as true between applying a choice and storing the
// next segment; a session loaded in that state resumes the advance.
type StoryState struct {
	ID                  string      `json:"id"`
	PlayerID            string      `json:"player_id"`
	Language            Language    `json:"language"`
	Generations         []int       `json:"generations,omitempty"`
	CurrentStep         int         `json:"current_step"`
	Status              StoryStatus `json:"status"`
	Generating          bool        `json:"generating"`
	Protagonist         *Companion  `json:"protagonist"`
	AccumulatedElements []Element   `json:"accumulated_elements"`
	StoryHistory        []string    `json:"story_history"`
	CurrentSegment      *StepResult `json:"current_segment,omitempty"`
	MapNodes            []MapNode   `json:"map_nodes"`
	StartedAt           time.Time   `json:"started_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

var _ core.Entity = (*StoryState)(nil)

// EntityTypeStory is the rpg-toolkit entity type for playthroughs
const EntityTypeStory = "story"

// GetID returns the session ID
func (s *StoryState) GetID() string {
	return s.ID
}

// GetType returns the entity type for rpg-toolkit
func (s *StoryState) GetType() string {
	return EntityTypeStory
}

// Terminal reports whether the playthrough accepts no more choices
func (s *StoryState) Terminal() bool {
	return s.Status == StoryStatusCompleted || s.Status == StoryStatusFailed
}

// Clone returns a deep copy
func (s *StoryState) Clone() *StoryState {
	if s == nil {
		return nil
	}
	out := *s
	out.Generations = slices.Clone(s.Generations)
	out.Protagonist = s.Protagonist.Clone()
	out.AccumulatedElements = slices.Clone(s.AccumulatedElements)
	out.StoryHistory = slices.Clone(s.StoryHistory)
	out.MapNodes = slices.Clone(s.MapNodes)
	if s.CurrentSegment != nil {
		seg := *s.CurrentSegment
		seg.Options = slices.Clone(s.CurrentSegment.Options)
		out.CurrentSegment = &seg
	}
	return &out
}

// SavedStory is the archived record of a finished playthrough
type SavedStory struct {
	ID                 string      `json:"id"`
	PlayerID           string      `json:"player_id"`
	Outcome            StoryStatus `json:"outcome"`
	Language           Language    `json:"language"`
	ProtagonistName    string      `json:"protagonist_name"`
	ProtagonistSpecies string      `json:"protagonist_species"`
	SpriteURL          string      `json:"sprite_url,omitempty"`
	Level              int         `json:"level"`
	History            []string    `json:"history"`
	MapNodes           []MapNode   `json:"map_nodes"`
	SavedAt            time.Time   `json:"saved_at"`
}
