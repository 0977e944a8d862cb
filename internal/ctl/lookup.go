package ctl

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/uuid"

	"github.com/msalhab/deedbridge/internal/bridge"
	"github.com/msalhab/deedbridge/internal/credential"
	"github.com/msalhab/deedbridge/internal/deeds"
	"github.com/msalhab/deedbridge/internal/export"
	"github.com/msalhab/deedbridge/internal/search"
)

func (a *App) runLookup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(a.out)

	var raw search.RawRequest
	fs.StringVar(&raw.DeedNumbers, "deeds", "", "deed numbers, comma separated")
	fs.StringVar(&raw.SearchMode, "mode", search.ModeByIdentity, "byIdentity or byDate")
	fs.StringVar(&raw.IdentityType, "id-type", "", "identity type: 1 national, 2 resident, 5 commercial")
	fs.StringVar(&raw.IdentityNumber, "id-number", "", "identity document number")
	fs.StringVar(&raw.Year, "year", "", "registration year")
	fs.StringVar(&raw.Month, "month", "", "registration month")
	fs.StringVar(&raw.Day, "day", "", "registration day")
	fs.BoolVar(&raw.IsAlternateCalendar, "hijri", false, "date is Hijri")

	token := fs.String("token", "", "session token (overrides the token file)")
	outDir := fs.String("out", "", "write the artifact into this directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	raw.RequestID = uuid.NewString()

	req, err := a.validator.Validate(&raw)
	if err != nil {
		return err
	}

	provider := a.credentials
	if *token != "" {
		provider = &credential.StaticProvider{Token: *token}
	}

	cred, err := provider.Credential(ctx)
	if err != nil {
		return err
	}
	if cred == nil {
		status, serr := provider.Status(ctx)
		if serr != nil {
			return serr
		}
		return fmt.Errorf("not authenticated: %s", status.Message)
	}

	results := a.orchestrator.Fetch(ctx, req, cred.Token)
	a.printResults(results)

	if *outDir != "" && deeds.CountSuccessful(results) > 0 {
		exporter := export.NewFileExporter(*outDir, a.logger)
		if err := exporter.Export(ctx, req.RequestID, bridge.FormatResult(results)); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Artifact written to %s/%s.json\n", *outDir, req.RequestID)
	}

	if deeds.CountSuccessful(results) == 0 {
		return fmt.Errorf("all lookups failed")
	}
	return nil
}

func (a *App) printResults(results []deeds.Result) {
	for _, r := range results {
		if r.Success {
			fmt.Fprintf(a.out, "%s: %s\n", r.DeedNumber, string(r.Data))
		} else {
			fmt.Fprintf(a.out, "%s: FAILED (%s)\n", r.DeedNumber, r.Err)
		}
	}
}
