package presenter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot/internal/features/giveaway/models"
)

func newTestPresenter() *Presenter {
	p := New("🎉")
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }
	return p
}

func sampleGiveaway() *models.Giveaway {
	return &models.Giveaway{
		ID:          "M1",
		Prize:       "Headset",
		WinnerCount: 2,
		Host:        models.Participant{ID: "100", Username: "host"},
		ChannelID:   "C1",
		Duration:    "1h",
		EndsAt:      time.Unix(1700000000, 0),
	}
}

func TestAnnouncement(t *testing.T) {
	msg := newTestPresenter().Announcement(sampleGiveaway())

	require.NotNil(t, msg.Embed)
	assert.Equal(t, "**Prize:** Headset", msg.Embed.Description)
	assert.Equal(t, "React with 🎉 to join!", msg.Embed.Footer)
	require.Len(t, msg.Embed.Fields, 4)
	assert.Equal(t, "<@100>", msg.Embed.Fields[0].Value)
	assert.Equal(t, "1h", msg.Embed.Fields[1].Value)
	assert.Equal(t, "2", msg.Embed.Fields[2].Value)
	assert.False(t, msg.Embed.Timestamp.IsZero())
}

func TestWinnerMessages(t *testing.T) {
	p := newTestPresenter()
	g := sampleGiveaway()
	winners := []models.Participant{{ID: "1"}, {ID: "2"}}

	assert.Equal(t, "🏆 Congratulations <@1>, <@2>! You won **Headset** 🎁", p.Winners(g, winners).Content)
	assert.Equal(t, "🔄 Reroll result: <@1>, <@2> won **Headset** 🎁", p.Reroll(g, winners).Content)
	assert.Equal(t, "😢 No one joined the giveaway.", p.NoParticipants(g).Content)
	assert.Contains(t, p.WinnerDM(g).Embed.Description, "Headset")
	assert.Contains(t, p.RerollDM(g).Embed.Description, "Headset")
}

func TestEntryApprovedFallsBackToMention(t *testing.T) {
	p := newTestPresenter()
	g := sampleGiveaway()
	assert.Equal(t, "host", p.EntryApprovedDM(g).Embed.Fields[0].Value)

	g.Host.Username = ""
	assert.Equal(t, "<@100>", p.EntryApprovedDM(g).Embed.Fields[0].Value)
}

func TestNotFoundWording(t *testing.T) {
	p := newTestPresenter()
	assert.Equal(t, "⚠️ Giveaway not found or already ended!", p.NotFound("end").Content)
	assert.Equal(t, "⚠️ Giveaway not found or not ended yet!", p.NotFound("reroll").Content)
	assert.Equal(t, "⚠️ Giveaway not found!", p.NotFound("pause").Content)
}

func TestLists(t *testing.T) {
	p := newTestPresenter()

	assert.Equal(t, "⚠️ No active giveaways right now!", p.ActiveList(nil).Content)
	assert.Equal(t, "⚠️ No ended giveaways yet!", p.EndedList(nil).Content)

	g := sampleGiveaway()
	g.Status = models.GiveawayStatusPaused
	active := p.ActiveList([]*models.Giveaway{g})
	require.NotNil(t, active.Embed)
	require.Len(t, active.Embed.Fields, 1)
	assert.Contains(t, active.Embed.Fields[0].Value, "Paused: Yes")
	assert.Contains(t, active.Embed.Fields[0].Value, "<t:1700000000:R>")
	assert.Contains(t, active.Embed.Fields[0].Value, "ID: `M1`")

	ended := sampleGiveaway()
	ended.Status = models.GiveawayStatusEnded
	list := p.EndedList([]*models.Giveaway{ended})
	assert.Contains(t, list.Embed.Fields[0].Value, "Winners: None")

	ended.Winners = []models.Participant{{ID: "7"}}
	list = p.EndedList([]*models.Giveaway{ended})
	assert.Contains(t, list.Embed.Fields[0].Value, "Winners: <@7>")
}

func TestListTruncatesToFieldLimit(t *testing.T) {
	p := newTestPresenter()
	gs := make([]*models.Giveaway, 30)
	for i := range gs {
		g := sampleGiveaway()
		g.ID = fmt.Sprintf("M%d", i)
		gs[i] = g
	}

	msg := p.ActiveList(gs)
	assert.Len(t, msg.Embed.Fields, maxEmbedFields)
	assert.Equal(t, "Showing 25 of 30", msg.Embed.Footer)
}

func TestPauseToggled(t *testing.T) {
	p := newTestPresenter()
	assert.Equal(t, "⏸ Giveaway paused!", p.PauseToggled(true).Content)
	assert.Equal(t, "▶ Giveaway resumed!", p.PauseToggled(false).Content)
}

func TestHelpListsEveryCommand(t *testing.T) {
	help := newTestPresenter().Help()
	require.NotNil(t, help.Embed)
	assert.Len(t, help.Embed.Fields, 7)
}
