package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretlink/cmd/app/commands"
	"github.com/allisson/secretlink/internal/app"
	"github.com/allisson/secretlink/internal/config"
)

func newFormatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getSecretCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "purge-secrets",
			Usage: "Delete consumed and expired secrets older than the given hours",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "hours",
					Value: 24,
					Usage: "Delete dead secrets created more than this many hours ago",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many secrets would be deleted without deleting",
				},
				newFormatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				secretUseCase, err := container.SecretUseCase()
				if err != nil {
					return err
				}

				return commands.RunPurgeSecrets(
					ctx,
					secretUseCase,
					container.Logger(),
					commands.DefaultIO(),
					int(cmd.Int("hours")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "share",
			Usage: "Seal a secret read from stdin and print its one-time link",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:    "expiry",
					Aliases: []string{"e"},
					Value:   0,
					Usage:   "Lifetime in seconds (0 means until consumed)",
				},
				newFormatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				secretUseCase, err := container.SecretUseCase()
				if err != nil {
					return err
				}

				alg, err := container.CipherAlgorithm()
				if err != nil {
					return err
				}

				return commands.RunShare(
					ctx,
					secretUseCase,
					container.AEADManager(),
					alg,
					container.Logger(),
					commands.DefaultIO(),
					cfg.PublicBaseURL,
					uint32(cmd.Uint("expiry")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:      "open",
			Usage:     "Consume a one-time link and print the secret",
			ArgsUsage: "<link>",
			Flags:     []cli.Flag{newFormatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				secretUseCase, err := container.SecretUseCase()
				if err != nil {
					return err
				}

				return commands.RunOpen(
					ctx,
					secretUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.Args().First(),
					cmd.String("format"),
				)
			},
		},
	}
}
