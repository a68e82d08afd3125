package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/project"
)

func profileName(cmd *cli.Command) (string, error) {
	name := cmd.Args().First()
	if name == "" {
		return "", errors.New("a profile name is required")
	}
	return name, nil
}

func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage saved job profiles",
		Commands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Save job parameters under a profile name",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "from",
						Usage: "YAML file of job parameters (defaults when omitted)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name, err := profileName(cmd)
					if err != nil {
						return err
					}
					params := model.DefaultJobParameters()
					if from := cmd.String("from"); from != "" {
						if params, err = readParams(from); err != nil {
							return err
						}
					}
					return withRuntime(ctx, cmd, func(rt *runtime) error {
						if err := rt.Profiles.Save(name, params); err != nil {
							return err
						}
						printStatus(stdout(cmd), "saved", "profile %q", name)
						return nil
					})
				},
			},
			{
				Name:      "load",
				Usage:     "Print a profile and make it the default for new jobs",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name, err := profileName(cmd)
					if err != nil {
						return err
					}
					return withRuntime(ctx, cmd, func(rt *runtime) error {
						params, err := rt.Profiles.Get(name)
						if err != nil {
							return err
						}
						rememberProfile(rt, name)
						data, err := yaml.Marshal(params)
						if err != nil {
							return fmt.Errorf("failed to encode profile: %w", err)
						}
						_, err = stdout(cmd).Write(data)
						return err
					})
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a profile",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name, err := profileName(cmd)
					if err != nil {
						return err
					}
					return withRuntime(ctx, cmd, func(rt *runtime) error {
						if !rt.Profiles.Exists(name) {
							return fmt.Errorf("%w: %q", project.ErrProfileNotFound, name)
						}
						if err := rt.Profiles.Delete(name); err != nil {
							return err
						}
						if gs := rt.Profiles.LoadGlobalSettings(); gs.LastProfile == name {
							gs.LastProfile = ""
							if err := rt.Profiles.SaveGlobalSettings(gs); err != nil {
								return err
							}
						}
						printStatus(stdout(cmd), "deleted", "profile %q", name)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "List saved profiles",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withRuntime(ctx, cmd, func(rt *runtime) error {
						names := rt.Profiles.List()
						w := stdout(cmd)
						if len(names) == 0 {
							fmt.Fprintln(w, "No saved profiles.")
							return nil
						}
						last := rt.Profiles.LoadGlobalSettings().LastProfile
						for _, n := range names {
							marker := " "
							if n == last {
								marker = "*"
							}
							fmt.Fprintf(w, "%s %s\n", marker, n)
						}
						return nil
					})
				},
			},
			{
				Name:      "export",
				Usage:     "Write every profile and the global settings to a JSON backup",
				ArgsUsage: "<file.json>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.Args().First()
					if path == "" {
						return errors.New("a backup file is required")
					}
					return withRuntime(ctx, cmd, func(rt *runtime) error {
						if err := project.ExportProfiles(path, rt.Profiles); err != nil {
							return err
						}
						printStatus(stdout(cmd), "exported", "%d profiles to %s", len(rt.Profiles.List()), path)
						return nil
					})
				},
			},
			{
				Name:      "import",
				Usage:     "Restore profiles from a JSON backup",
				ArgsUsage: "<file.json>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Replace profiles that already exist",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.Args().First()
					if path == "" {
						return errors.New("a backup file is required")
					}
					return withRuntime(ctx, cmd, func(rt *runtime) error {
						names, err := project.ImportProfiles(path, rt.Profiles, cmd.Bool("overwrite"))
						if err != nil {
							return err
						}
						for _, n := range names {
							printStatus(stdout(cmd), "imported", "profile %q", n)
						}
						if len(names) == 0 {
							fmt.Fprintln(stdout(cmd), "No profiles imported.")
						}
						return nil
					})
				},
			},
		},
	}
}

func SettingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change the global invoice settings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "business-name",
				Usage: "Business name printed on every invoice",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *runtime) error {
				gs := rt.Profiles.LoadGlobalSettings()
				if cmd.IsSet("business-name") {
					gs.BusinessName = cmd.String("business-name")
					if err := rt.Profiles.SaveGlobalSettings(gs); err != nil {
						return err
					}
				}
				w := stdout(cmd)
				fmt.Fprintf(w, "business name: %s\n", gs.BusinessName)
				fmt.Fprintf(w, "last profile:  %s\n", gs.LastProfile)
				return nil
			})
		},
	}
}

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the quoting and invoice API over HTTP",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *runtime) error {
				return rt.Server.Run(ctx)
			})
		},
	}
}
