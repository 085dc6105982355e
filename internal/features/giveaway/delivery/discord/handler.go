package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"giveaway-bot/internal/common/validation"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/presenter"
	"giveaway-bot/internal/features/giveaway/service"
	discordclient "giveaway-bot/internal/platform/discord"
)

// eventTimeout bounds the work done for one gateway event. Interaction
// tokens stay valid for fifteen minutes.
const eventTimeout = time.Minute

// GiveawayService is the engine as seen by the command layer.
type GiveawayService interface {
	Start(ctx context.Context, req service.StartRequest) (*models.Giveaway, error)
	End(ctx context.Context, id string, automatic bool) (*service.Outcome, error)
	TogglePause(ctx context.Context, id string) (*models.Giveaway, error)
	Reroll(ctx context.Context, id string) (*service.Outcome, error)
	ListActive(ctx context.Context) ([]*models.Giveaway, error)
	ListEnded(ctx context.Context) ([]*models.Giveaway, error)
	Join(ctx context.Context, id, emoji string, user models.Participant) (bool, error)
}

// Request is a parsed slash command.
type Request struct {
	Command   string
	User      models.Participant
	ChannelID string
	Strings   map[string]string
	Ints      map[string]int64
}

// Reply is the answer to a command.
type Reply struct {
	Message   models.Message
	Ephemeral bool
}

type Handler struct {
	service   GiveawayService
	presenter *presenter.Presenter
	logger    zerolog.Logger
}

func NewHandler(svc GiveawayService, p *presenter.Presenter, logger zerolog.Logger) *Handler {
	return &Handler{service: svc, presenter: p, logger: logger}
}

// Register attaches the gateway event handlers to the session.
func (h *Handler) Register(s *discordgo.Session) {
	s.AddHandler(h.OnInteraction)
	s.AddHandler(h.OnReactionAdd)
}

// Dispatch runs a command against the engine and builds the reply. Errors
// never escape: each one becomes a reply.
func (h *Handler) Dispatch(ctx context.Context, req Request) Reply {
	if takesMessageID(req.Command) && !validation.IsSnowflake(req.Strings[OptionMessageID]) {
		return ephemeral(h.presenter.NotFound(req.Command))
	}

	switch req.Command {
	case CommandStart:
		if err := validation.ValidatePrize(req.Strings[OptionPrize]); err != nil {
			return ephemeral(h.presenter.Rejected(err.Error()))
		}
		if err := validation.ValidateWinners(req.Ints[OptionWinners]); err != nil {
			return ephemeral(h.presenter.Rejected(err.Error()))
		}
		g, err := h.service.Start(ctx, service.StartRequest{
			Duration:    req.Strings[OptionDuration],
			WinnerCount: int(req.Ints[OptionWinners]),
			Prize:       req.Strings[OptionPrize],
			Host:        req.User,
			ChannelID:   req.ChannelID,
		})
		if err != nil {
			return h.errorReply(req, err)
		}
		return ephemeral(h.presenter.Started(g))

	case CommandEnd:
		out, err := h.service.End(ctx, req.Strings[OptionMessageID], false)
		if err != nil {
			return h.errorReply(req, err)
		}
		return ephemeral(h.presenter.Ended(out.Giveaway))

	case CommandPause:
		g, err := h.service.TogglePause(ctx, req.Strings[OptionMessageID])
		if err != nil {
			return h.errorReply(req, err)
		}
		return Reply{Message: h.presenter.PauseToggled(g.IsPaused())}

	case CommandReroll:
		out, err := h.service.Reroll(ctx, req.Strings[OptionMessageID])
		if err != nil {
			return h.errorReply(req, err)
		}
		if out.NoParticipants {
			return ephemeral(h.presenter.RerollNoParticipants(out.Giveaway))
		}
		return ephemeral(h.presenter.Rerolled(out.Giveaway))

	case CommandActive:
		gs, err := h.service.ListActive(ctx)
		if err != nil {
			return h.errorReply(req, err)
		}
		return ephemeral(h.presenter.ActiveList(gs))

	case CommandEnded:
		gs, err := h.service.ListEnded(ctx)
		if err != nil {
			return h.errorReply(req, err)
		}
		return ephemeral(h.presenter.EndedList(gs))

	case CommandHelp:
		return ephemeral(h.presenter.Help())

	default:
		h.logger.Warn().Str("command", req.Command).Msg("Unknown command")
		return ephemeral(h.presenter.Failure())
	}
}

func (h *Handler) errorReply(req Request, err error) Reply {
	switch {
	case errors.Is(err, service.ErrInvalidDuration):
		return ephemeral(h.presenter.InvalidDuration())
	case errors.Is(err, service.ErrNotFound):
		return ephemeral(h.presenter.NotFound(req.Command))
	default:
		h.logger.Error().Err(err).
			Str("command", req.Command).
			Str("user_id", req.User.ID).
			Msg("Command failed")
		return ephemeral(h.presenter.Failure())
	}
}

func takesMessageID(command string) bool {
	return command == CommandEnd || command == CommandPause || command == CommandReroll
}

func ephemeral(msg models.Message) Reply {
	return Reply{Message: msg, Ephemeral: true}
}

// OnInteraction answers slash commands.
func (h *Handler) OnInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	req := RequestFromInteraction(i)
	defer h.recoverEvent("interaction", req.Command)

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	log := h.logger.With().Str("command", req.Command).Str("user_id", req.User.ID).Logger()

	if deferred[req.Command] {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
		}, discordgo.WithContext(ctx))
		if err != nil {
			log.Error().Err(err).Msg("Failed to defer interaction response")
			return
		}

		reply := h.Dispatch(ctx, req)
		if _, err := s.FollowupMessageCreate(i.Interaction, true, followup(reply), discordgo.WithContext(ctx)); err != nil {
			log.Error().Err(err).Msg("Failed to send interaction followup")
		}
		return
	}

	reply := h.Dispatch(ctx, req)
	if err := s.InteractionRespond(i.Interaction, response(reply), discordgo.WithContext(ctx)); err != nil {
		log.Error().Err(err).Msg("Failed to respond to interaction")
	}
}

// OnReactionAdd acknowledges join reactions.
func (h *Handler) OnReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	defer h.recoverEvent("reaction", r.MessageID)

	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if _, err := h.service.Join(ctx, r.MessageID, r.Emoji.Name, ReactionParticipant(r)); err != nil {
		h.logger.Error().Err(err).
			Str("giveaway_id", r.MessageID).
			Str("user_id", r.UserID).
			Msg("Failed to acknowledge join")
	}
}

func (h *Handler) recoverEvent(kind, ref string) {
	if rec := recover(); rec != nil {
		h.logger.Error().
			Str("event", kind).
			Str("ref", ref).
			Str("panic", fmt.Sprint(rec)).
			Msg("Recovered from panic in event handler")
	}
}

// RequestFromInteraction extracts the command, its options and the invoking
// user from an interaction.
func RequestFromInteraction(i *discordgo.InteractionCreate) Request {
	data := i.ApplicationCommandData()
	req := Request{
		Command:   data.Name,
		ChannelID: i.ChannelID,
		Strings:   make(map[string]string),
		Ints:      make(map[string]int64),
	}

	switch {
	case i.Member != nil && i.Member.User != nil:
		req.User = discordclient.Participant(i.Member.User)
	case i.User != nil:
		req.User = discordclient.Participant(i.User)
	}

	for _, opt := range data.Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			req.Strings[opt.Name] = opt.StringValue()
		case discordgo.ApplicationCommandOptionInteger:
			req.Ints[opt.Name] = opt.IntValue()
		}
	}
	return req
}

// ReactionParticipant describes the reacting user as far as the event tells.
func ReactionParticipant(r *discordgo.MessageReactionAdd) models.Participant {
	if r.Member != nil && r.Member.User != nil {
		return discordclient.Participant(r.Member.User)
	}
	return models.Participant{ID: r.UserID}
}

func response(r Reply) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{Content: r.Message.Content}
	if e := discordclient.ToEmbed(r.Message.Embed); e != nil {
		data.Embeds = []*discordgo.MessageEmbed{e}
	}
	if r.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

func followup(r Reply) *discordgo.WebhookParams {
	params := &discordgo.WebhookParams{Content: r.Message.Content}
	if e := discordclient.ToEmbed(r.Message.Embed); e != nil {
		params.Embeds = []*discordgo.MessageEmbed{e}
	}
	if r.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	return params
}
