package discord

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot/internal/features/giveaway/models"
)

func TestToMessageSendContentOnly(t *testing.T) {
	out := ToMessageSend(models.Message{Content: "hello"})
	assert.Equal(t, "hello", out.Content)
	assert.Empty(t, out.Embeds)
}

func TestToMessageSendEmbed(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	out := ToMessageSend(models.Message{Embed: &models.Embed{
		Title:       "🎉 GIVEAWAY TIME! 🎉",
		Description: "**Prize:** Headset",
		Color:       0x00ff99,
		Fields: []models.EmbedField{
			{Name: "Winners", Value: "2", Inline: true},
			{Name: "Hosted by", Value: "<@H>"},
		},
		Footer:    "React with 🎉 to join!",
		Timestamp: ts,
	}})

	require.Len(t, out.Embeds, 1)
	e := out.Embeds[0]
	assert.Equal(t, "🎉 GIVEAWAY TIME! 🎉", e.Title)
	assert.Equal(t, 0x00ff99, e.Color)
	require.Len(t, e.Fields, 2)
	assert.True(t, e.Fields[0].Inline)
	assert.False(t, e.Fields[1].Inline)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "React with 🎉 to join!", e.Footer.Text)
	assert.Equal(t, "2024-05-01T11:00:00Z", e.Timestamp)
}

func TestToEmbedOmitsEmptyParts(t *testing.T) {
	assert.Nil(t, ToEmbed(nil))

	e := ToEmbed(&models.Embed{Title: "t"})
	assert.Nil(t, e.Footer)
	assert.Empty(t, e.Timestamp)
	assert.Empty(t, e.Fields)
}

func TestParticipant(t *testing.T) {
	assert.Equal(t,
		models.Participant{ID: "1", Username: "alice", Bot: true},
		Participant(&discordgo.User{ID: "1", Username: "alice", Bot: true}),
	)
	assert.Equal(t, models.Participant{}, Participant(nil))
}

func TestWrapRateLimit(t *testing.T) {
	rest := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}}
	err := wrap("send message", rest)

	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "send message", rl.Op)
	assert.ErrorIs(t, err, rest)
}

func TestWrapOther(t *testing.T) {
	cause := errors.New("boom")
	err := wrap("add reaction", cause)

	var rl *RateLimitError
	assert.False(t, errors.As(err, &rl))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "add reaction")
}
