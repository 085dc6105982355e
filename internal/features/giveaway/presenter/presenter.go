package presenter

import (
	"fmt"
	"strings"
	"time"

	"giveaway-bot/internal/features/giveaway/models"
)

const (
	colorActive   = 0x00ff99
	colorWinner   = 0xf1c40f
	colorReroll   = 0xe67e22
	colorListLive = 0x1abc9c
	colorListDone = 0xe74c3c
	colorHelp     = 0x3498db

	// maxEmbedFields is the platform limit on fields per embed.
	maxEmbedFields = 25
)

// Presenter renders giveaway events into chat messages.
type Presenter struct {
	joinEmoji string
	now       func() time.Time
}

func New(joinEmoji string) *Presenter {
	return &Presenter{joinEmoji: joinEmoji, now: time.Now}
}

// Announcement is the message participants react to.
func (p *Presenter) Announcement(g *models.Giveaway) models.Message {
	return models.Message{Embed: &models.Embed{
		Title:       "🎉 GIVEAWAY TIME! 🎉",
		Description: fmt.Sprintf("**Prize:** %s", g.Prize),
		Color:       colorActive,
		Fields: []models.EmbedField{
			{Name: "Hosted by", Value: g.Host.Mention(), Inline: true},
			{Name: "Duration", Value: g.Duration, Inline: true},
			{Name: "Winners", Value: fmt.Sprintf("%d", g.WinnerCount), Inline: true},
			{Name: "Status", Value: "🟢 Active", Inline: true},
		},
		Footer:    fmt.Sprintf("React with %s to join!", p.joinEmoji),
		Timestamp: p.now(),
	}}
}

func (p *Presenter) Started(g *models.Giveaway) models.Message {
	return text(fmt.Sprintf("✅ Giveaway started for **%s** (ID: `%s`)", g.Prize, g.ID))
}

func (p *Presenter) Winners(g *models.Giveaway, winners []models.Participant) models.Message {
	return text(fmt.Sprintf("🏆 Congratulations %s! You won **%s** 🎁", mentions(winners), g.Prize))
}

func (p *Presenter) NoParticipants(*models.Giveaway) models.Message {
	return text("😢 No one joined the giveaway.")
}

func (p *Presenter) Reroll(g *models.Giveaway, winners []models.Participant) models.Message {
	return text(fmt.Sprintf("🔄 Reroll result: %s won **%s** 🎁", mentions(winners), g.Prize))
}

func (p *Presenter) RerollNoParticipants(*models.Giveaway) models.Message {
	return text("😢 No participants found to reroll.")
}

// WinnerDM is sent privately to each winner.
func (p *Presenter) WinnerDM(g *models.Giveaway) models.Message {
	return models.Message{Embed: &models.Embed{
		Title:       "🏆 YOU WON THE GIVEAWAY! 🏆",
		Description: fmt.Sprintf("🎁 Prize: **%s**\n\n✨ Congratulations, enjoy your reward!", g.Prize),
		Color:       colorWinner,
		Fields:      []models.EmbedField{{Name: "Hosted by", Value: g.Host.Mention()}},
		Footer:      "Giveaway Bot • Enjoy your prize!",
		Timestamp:   p.now(),
	}}
}

func (p *Presenter) RerollDM(g *models.Giveaway) models.Message {
	return models.Message{Embed: &models.Embed{
		Title:       "🔄 Giveaway Rerolled",
		Description: fmt.Sprintf("You won the reroll for **%s** 🎁", g.Prize),
		Color:       colorReroll,
		Timestamp:   p.now(),
	}}
}

// EntryApprovedDM confirms a join reaction.
func (p *Presenter) EntryApprovedDM(g *models.Giveaway) models.Message {
	owner := g.Host.Username
	if owner == "" {
		owner = g.Host.Mention()
	}
	return models.Message{Embed: &models.Embed{
		Title:       "🎉 Entry Approved! 🎉",
		Description: fmt.Sprintf("Your entry to **%s** has been approved!\nYou have a chance to win!!", g.Prize),
		Color:       colorActive,
		Fields:      []models.EmbedField{{Name: "Owner", Value: owner}},
		Footer:      "Giveaway Bot • Good luck!",
		Timestamp:   p.now(),
	}}
}

func (p *Presenter) PauseToggled(paused bool) models.Message {
	if paused {
		return text("⏸ Giveaway paused!")
	}
	return text("▶ Giveaway resumed!")
}

func (p *Presenter) Ended(*models.Giveaway) models.Message {
	return text("✅ Giveaway ended!")
}

func (p *Presenter) Rerolled(*models.Giveaway) models.Message {
	return text("✅ Giveaway rerolled!")
}

func (p *Presenter) InvalidDuration() models.Message {
	return text("⚠️ Invalid time format! Use like `1h2m10s`.")
}

// NotFound explains why a giveaway could not be acted on; the wording depends
// on the partition the command expected.
func (p *Presenter) NotFound(command string) models.Message {
	switch command {
	case "end":
		return text("⚠️ Giveaway not found or already ended!")
	case "reroll":
		return text("⚠️ Giveaway not found or not ended yet!")
	default:
		return text("⚠️ Giveaway not found!")
	}
}

// Rejected explains why the input of a command was refused.
func (p *Presenter) Rejected(reason string) models.Message {
	return text("⚠️ " + reason)
}

func (p *Presenter) Failure() models.Message {
	return text("❌ Something went wrong, please try again.")
}

func (p *Presenter) ActiveList(gs []*models.Giveaway) models.Message {
	if len(gs) == 0 {
		return text("⚠️ No active giveaways right now!")
	}
	fields := make([]models.EmbedField, 0, len(gs))
	for _, g := range gs {
		paused := "No"
		if g.IsPaused() {
			paused = "Yes"
		}
		fields = append(fields, models.EmbedField{
			Name: g.Prize,
			Value: fmt.Sprintf("Hosted by: %s\nChannel: <#%s>\nPaused: %s\nEnds: <t:%d:R>\nID: `%s`",
				g.Host.Mention(), g.ChannelID, paused, g.EndsAt.Unix(), g.ID),
		})
	}
	return p.list("🎁 Active Giveaways", colorListLive, fields)
}

func (p *Presenter) EndedList(gs []*models.Giveaway) models.Message {
	if len(gs) == 0 {
		return text("⚠️ No ended giveaways yet!")
	}
	fields := make([]models.EmbedField, 0, len(gs))
	for _, g := range gs {
		winners := "None"
		if len(g.Winners) > 0 {
			winners = mentions(g.Winners)
		}
		fields = append(fields, models.EmbedField{
			Name: g.Prize,
			Value: fmt.Sprintf("Hosted by: %s\nChannel: <#%s>\nWinners: %s\nID: `%s`",
				g.Host.Mention(), g.ChannelID, winners, g.ID),
		})
	}
	return p.list("🏆 Ended Giveaways", colorListDone, fields)
}

func (p *Presenter) Help() models.Message {
	return models.Message{Embed: &models.Embed{
		Title:       "🎁 Giveaway Bot Help",
		Description: "Here are all the available commands:",
		Color:       colorHelp,
		Fields: []models.EmbedField{
			{Name: "/start <duration> <winners> <prize>", Value: "Start a new giveaway"},
			{Name: "/end <message_id>", Value: "End a giveaway early"},
			{Name: "/pause <message_id>", Value: "Pause or resume a giveaway"},
			{Name: "/reroll <message_id>", Value: "Reroll winners for an ended giveaway"},
			{Name: "/active", Value: "Show all active giveaways"},
			{Name: "/ended", Value: "Show all ended giveaways"},
			{Name: "/help", Value: "Show this help message"},
		},
		Footer:    "Giveaway Bot • All commands listed above",
		Timestamp: p.now(),
	}}
}

func (p *Presenter) list(title string, color int, fields []models.EmbedField) models.Message {
	embed := &models.Embed{Title: title, Color: color, Timestamp: p.now()}
	if len(fields) > maxEmbedFields {
		embed.Footer = fmt.Sprintf("Showing %d of %d", maxEmbedFields, len(fields))
		fields = fields[:maxEmbedFields]
	}
	embed.Fields = fields
	return models.Message{Embed: embed}
}

func mentions(ps []models.Participant) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Mention()
	}
	return strings.Join(out, ", ")
}

func text(content string) models.Message {
	return models.Message{Content: content}
}
