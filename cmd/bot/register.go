package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"giveaway-bot/internal/common/logger"
	delivery "giveaway-bot/internal/features/giveaway/delivery/discord"
	discordclient "giveaway-bot/internal/platform/discord"
)

func commandRegister() *cli.Command {
	return &cli.Command{
		Name:  "register-commands",
		Usage: "overwrite the slash-command schema and exit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "guild",
				Usage: "register for one guild instead of DISCORD_GUILD_ID",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			guildID := cfg.Discord.GuildID
			if c.IsSet("guild") {
				guildID = c.String("guild")
			}

			session, err := discordclient.NewSession(cfg.Discord.Token)
			if err != nil {
				return err
			}
			me, err := session.User("@me")
			if err != nil {
				return fmt.Errorf("failed to resolve application: %w", err)
			}

			cmds, err := delivery.RegisterCommands(session, me.ID, guildID)
			if err != nil {
				return err
			}
			for _, cmd := range cmds {
				logger.Info().Str("command", cmd.Name).Str("id", cmd.ID).Msg("Registered")
			}
			return nil
		},
	}
}
