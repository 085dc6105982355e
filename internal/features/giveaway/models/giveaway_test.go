package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneIsDeep(t *testing.T) {
	g := &Giveaway{ID: "1", Status: GiveawayStatusEnded, Winners: []Participant{{ID: "a"}}}
	c := g.Clone()

	c.Winners[0].ID = "b"
	c.Status = GiveawayStatusActive

	assert.Equal(t, "a", g.Winners[0].ID)
	assert.Equal(t, GiveawayStatusEnded, g.Status)
	assert.Nil(t, (*Giveaway)(nil).Clone())
}

func TestStatusPartition(t *testing.T) {
	assert.True(t, GiveawayStatusActive.IsActivePartition())
	assert.True(t, GiveawayStatusPaused.IsActivePartition())
	assert.False(t, GiveawayStatusEnded.IsActivePartition())
}

func TestMention(t *testing.T) {
	assert.Equal(t, "<@123>", Participant{ID: "123"}.Mention())
}
