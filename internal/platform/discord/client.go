package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"giveaway-bot/internal/features/giveaway/models"
)

// reactionPageSize is the maximum page size of the reactions endpoint.
const reactionPageSize = 100

// Intents the bot subscribes to: slash commands arrive regardless, reactions
// drive the join acknowledgement.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions

// RateLimitError is returned when Discord answers 429.
type RateLimitError struct {
	Op  string
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("discord %s: rate limited: %v", e.Op, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// Client implements the engine's gateway over a discordgo session.
type Client struct {
	session *discordgo.Session
	logger  zerolog.Logger

	mu         sync.Mutex
	dmChannels map[string]string
}

// NewSession creates a bot session with the intents the bot needs. The
// session is not opened.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = Intents
	return s, nil
}

func NewClient(session *discordgo.Session, logger zerolog.Logger) *Client {
	return &Client{
		session:    session,
		logger:     logger,
		dmChannels: make(map[string]string),
	}
}

func (c *Client) Post(ctx context.Context, channelID string, msg models.Message) (string, error) {
	m, err := c.session.ChannelMessageSendComplex(channelID, ToMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return "", wrap("post message", err)
	}
	return m.ID, nil
}

func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := c.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return wrap("add reaction", err)
	}
	return nil
}

// ReactionUsers pages through every user who reacted with emoji.
func (c *Client) ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]models.Participant, error) {
	var (
		out   []models.Participant
		after string
	)
	for {
		page, err := c.session.MessageReactions(channelID, messageID, emoji, reactionPageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, wrap("read reactions", err)
		}
		for _, u := range page {
			out = append(out, Participant(u))
		}
		if len(page) < reactionPageSize {
			break
		}
		after = page[len(page)-1].ID
	}

	c.logger.Debug().
		Str("message_id", messageID).
		Int("users", len(out)).
		Msg("Fetched reaction users")
	return out, nil
}

func (c *Client) Send(ctx context.Context, channelID string, msg models.Message) error {
	if _, err := c.session.ChannelMessageSendComplex(channelID, ToMessageSend(msg), discordgo.WithContext(ctx)); err != nil {
		return wrap("send message", err)
	}
	return nil
}

func (c *Client) SendDirect(ctx context.Context, userID string, msg models.Message) error {
	channelID, err := c.dmChannel(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := c.session.ChannelMessageSendComplex(channelID, ToMessageSend(msg), discordgo.WithContext(ctx)); err != nil {
		return wrap("send direct message", err)
	}
	return nil
}

func (c *Client) dmChannel(ctx context.Context, userID string) (string, error) {
	c.mu.Lock()
	id, ok := c.dmChannels[userID]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	ch, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", wrap("open direct channel", err)
	}

	c.mu.Lock()
	c.dmChannels[userID] = ch.ID
	c.mu.Unlock()
	return ch.ID, nil
}

// Participant converts a Discord user.
func Participant(u *discordgo.User) models.Participant {
	if u == nil {
		return models.Participant{}
	}
	return models.Participant{ID: u.ID, Username: u.Username, Bot: u.Bot}
}

// ToMessageSend converts a chat message into a discordgo payload.
func ToMessageSend(msg models.Message) *discordgo.MessageSend {
	out := &discordgo.MessageSend{Content: msg.Content}
	if e := ToEmbed(msg.Embed); e != nil {
		out.Embeds = []*discordgo.MessageEmbed{e}
	}
	return out
}

// ToEmbed converts an embed; nil stays nil.
func ToEmbed(e *models.Embed) *discordgo.MessageEmbed {
	if e == nil {
		return nil
	}
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if !e.Timestamp.IsZero() {
		out.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return out
}

func wrap(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Op: op, Err: err}
	}
	var rateErr *discordgo.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitError{Op: op, Err: err}
	}
	return fmt.Errorf("discord %s: %w", op, err)
}
