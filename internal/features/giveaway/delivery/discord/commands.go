package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandStart  = "start"
	CommandEnd    = "end"
	CommandPause  = "pause"
	CommandReroll = "reroll"
	CommandActive = "active"
	CommandEnded  = "ended"
	CommandHelp   = "help"

	OptionDuration  = "duration"
	OptionWinners   = "winners"
	OptionPrize     = "prize"
	OptionMessageID = "message_id"
)

// Commands is the slash-command schema of the bot.
func Commands() []*discordgo.ApplicationCommand {
	minWinners := 1.0

	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandStart,
			Description: "Start a giveaway",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: OptionDuration, Description: "Duration (e.g. 1h2m)", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: OptionWinners, Description: "Number of winners", Required: true, MinValue: &minWinners},
				{Type: discordgo.ApplicationCommandOptionString, Name: OptionPrize, Description: "Prize", Required: true},
			},
		},
		{Name: CommandEnd, Description: "Manually end a giveaway", Options: messageIDOption()},
		{Name: CommandPause, Description: "Pause or resume a giveaway", Options: messageIDOption()},
		{Name: CommandReroll, Description: "Reroll winners for a giveaway", Options: messageIDOption()},
		{Name: CommandActive, Description: "Show all active giveaways"},
		{Name: CommandEnded, Description: "Show all ended giveaways"},
		{Name: CommandHelp, Description: "Show help for giveaway bot"},
	}
}

func messageIDOption() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionString, Name: OptionMessageID, Description: "Giveaway message ID", Required: true},
	}
}

// deferred commands touch the gateway before answering and may exceed the
// three second interaction deadline.
var deferred = map[string]bool{
	CommandStart:  true,
	CommandEnd:    true,
	CommandReroll: true,
}

// RegisterCommands overwrites the command schema of the application. An empty
// guildID registers global commands.
func RegisterCommands(s *discordgo.Session, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	cmds, err := s.ApplicationCommandBulkOverwrite(appID, guildID, Commands())
	if err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}
	return cmds, nil
}
