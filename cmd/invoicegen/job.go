package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/invoice"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/slicer"
)

// identityFlags name the invoice fields that can be set per job.
var identityFlags = []struct {
	name, usage string
}{
	{"job-name", "Job name printed on the invoice"},
	{"description", "Job description"},
	{"customer", "Customer name"},
	{"email", "Customer email"},
	{"phone", "Customer phone"},
}

func jobFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{profileFlag(), paramsFlag()}
	for _, f := range identityFlags {
		flags = append(flags, &cli.StringFlag{Name: f.name, Usage: f.usage})
	}
	return append(flags, extra...)
}

// readParams loads job parameters from YAML. Absent fields keep their
// defaults.
func readParams(path string) (model.JobParameters, error) {
	params := model.DefaultJobParameters()
	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("failed to read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("failed to parse params %s: %w", path, err)
	}
	return params, nil
}

// jobInput reads the job file named by the first argument and selects the
// parameters to price it with: --params, then --profile, then the restored
// session (the last used profile when it still exists, with the stored
// business name).
func jobInput(cmd *cli.Command, rt *runtime) (invoice.Input, error) {
	path := cmd.Args().First()
	if path == "" {
		return invoice.Input{}, errors.New("a job file is required")
	}

	stats, presets, err := slicer.LoadStatisticsFile(path)
	if err != nil {
		return invoice.Input{}, err
	}
	in := invoice.Input{Stats: stats, Presets: presets, Profile: cmd.String("profile")}

	if p := cmd.String("params"); p != "" {
		params, err := readParams(p)
		if err != nil {
			return invoice.Input{}, err
		}
		in.Params = &params
	} else if in.Profile == "" {
		params, gs := rt.Profiles.RestoreSession(model.DefaultJobParameters())
		if rt.Profiles.Exists(gs.LastProfile) {
			in.Profile = gs.LastProfile
		}
		in.Params = &params
	}

	if hasIdentity(cmd) {
		params, err := baseParams(rt, in)
		if err != nil {
			return invoice.Input{}, err
		}
		applyIdentity(cmd, &params)
		in.Params = &params
	}
	return in, nil
}

func baseParams(rt *runtime, in invoice.Input) (model.JobParameters, error) {
	switch {
	case in.Params != nil:
		return in.Params.Clone(), nil
	case in.Profile != "":
		return rt.Profiles.Get(in.Profile)
	default:
		return model.DefaultJobParameters(), nil
	}
}

func hasIdentity(cmd *cli.Command) bool {
	for _, f := range identityFlags {
		if cmd.IsSet(f.name) {
			return true
		}
	}
	return false
}

func applyIdentity(cmd *cli.Command, p *model.JobParameters) {
	set := func(flag string, field *string) {
		if cmd.IsSet(flag) {
			*field = cmd.String(flag)
		}
	}
	set("job-name", &p.JobName)
	set("description", &p.JobDescription)
	set("customer", &p.CustomerName)
	set("email", &p.CustomerEmail)
	set("phone", &p.CustomerPhone)
}

// rememberProfile records an explicitly chosen profile as the last used one.
func rememberProfile(rt *runtime, name string) {
	gs := rt.Profiles.LoadGlobalSettings()
	if name == "" || gs.LastProfile == name {
		return
	}
	gs.LastProfile = name
	if err := rt.Profiles.SaveGlobalSettings(gs); err != nil {
		rt.Logger.Warn("failed to remember profile", zap.String("profile", name), zap.Error(err))
	}
}

func QuoteCommand() *cli.Command {
	return &cli.Command{
		Name:      "quote",
		Usage:     "Price a sliced job and print the cost breakdown",
		ArgsUsage: "<job.gcode|job.yaml|job.json|job.toml>",
		Flags: jobFlags(&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the quote as JSON",
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *runtime) error {
				in, err := jobInput(cmd, rt)
				if err != nil {
					return err
				}
				q, err := rt.Service.Quote(ctx, in)
				if err != nil {
					return err
				}
				rememberProfile(rt, cmd.String("profile"))

				w := stdout(cmd)
				if cmd.Bool("json") {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(q)
				}
				printQuote(w, q)
				return nil
			})
		},
	}
}

func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Price a sliced job and write the invoice",
		ArgsUsage: "<job.gcode|job.yaml|job.json|job.toml>",
		Flags: jobFlags(&cli.StringFlag{
			Name:     "out",
			Aliases:  []string{"o"},
			Usage:    "Output file; the extension selects the format (.xls, .xml, .xlsx, .pdf)",
			Required: true,
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *runtime) error {
				in, err := jobInput(cmd, rt)
				if err != nil {
					return err
				}
				out := cmd.String("out")
				report, err := rt.Service.Export(ctx, in, out)
				if err != nil {
					return err
				}
				rememberProfile(rt, cmd.String("profile"))
				printStatus(stdout(cmd), "exported", "%s to %s (%s)",
					report.InvoiceID, out, formatMoney(report.Breakdown.TotalJobCost))
				return nil
			})
		},
	}
}
