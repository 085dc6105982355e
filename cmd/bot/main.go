package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"giveaway-bot/internal/common/logger"
)

func main() {
	app := &cli.App{
		Name:           "giveaway-bot",
		Usage:          "Discord giveaway bot",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			commandServe(),
			commandRegister(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Err(err).Msg("giveaway-bot exited")
	}
}
