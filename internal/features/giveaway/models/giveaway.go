package models

import (
	"fmt"
	"time"
)

// GiveawayStatus represents the status of a giveaway
type GiveawayStatus string

const (
	GiveawayStatusActive GiveawayStatus = "active" // Accepting entries
	GiveawayStatusPaused GiveawayStatus = "paused" // Toggled by the host; still in the active partition
	GiveawayStatusEnded  GiveawayStatus = "ended"  // Winners drawn; terminal
)

// IsActivePartition reports whether a giveaway with this status belongs to
// the active partition of the store.
func (s GiveawayStatus) IsActivePartition() bool {
	return s == GiveawayStatusActive || s == GiveawayStatusPaused
}

// Participant is a chat user taking part in a giveaway.
type Participant struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Bot      bool   `json:"bot,omitempty"`
}

// Mention renders the chat mention of the participant.
func (p Participant) Mention() string {
	return fmt.Sprintf("<@%s>", p.ID)
}

// Giveaway represents one prize drawing. ID is the id of the announcement
// message.
type Giveaway struct {
	ID          string         `json:"id"`
	Prize       string         `json:"prize"`
	WinnerCount int            `json:"winner_count"`
	Host        Participant    `json:"host"`
	ChannelID   string         `json:"channel_id"`
	Duration    string         `json:"duration"` // as typed by the host
	Status      GiveawayStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	EndsAt      time.Time      `json:"ends_at"` // informational only
	Winners     []Participant  `json:"winners,omitempty"`
}

// IsPaused reports whether the giveaway is paused.
func (g *Giveaway) IsPaused() bool {
	return g.Status == GiveawayStatusPaused
}

// IsEnded reports whether the giveaway has ended.
func (g *Giveaway) IsEnded() bool {
	return g.Status == GiveawayStatusEnded
}

// Clone returns a deep copy.
func (g *Giveaway) Clone() *Giveaway {
	if g == nil {
		return nil
	}
	c := *g
	if g.Winners != nil {
		c.Winners = make([]Participant, len(g.Winners))
		copy(c.Winners, g.Winners)
	}
	return &c
}
