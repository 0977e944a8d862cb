package ctl

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"
)

func (a *App) runApprovals(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: deedctl approvals list|revoke <origin>|clear")
	}

	switch args[0] {
	case "list":
		return a.approvalsList(ctx)
	case "revoke":
		if len(args) < 2 {
			return fmt.Errorf("usage: deedctl approvals revoke <origin>")
		}
		return a.approvalsRevoke(ctx, args[1])
	case "clear":
		return a.approvalsClear(ctx)
	default:
		return fmt.Errorf("unknown approvals command: %s", args[0])
	}
}

func (a *App) approvalsList(ctx context.Context) error {
	infos, err := a.store.List(ctx)
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Fprintln(a.out, "No approved origins.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORIGIN\tAPPROVED\tEXPIRES\tDAYS LEFT\tUSES\tLAST USED")
	for _, info := range infos {
		lastUsed := "never"
		if !info.LastUsedAt.IsZero() {
			lastUsed = info.LastUsedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			info.Origin,
			info.ApprovedAt.Format("2006-01-02"),
			info.ExpiresAt.Format("2006-01-02"),
			info.DaysLeft,
			info.UseCount,
			lastUsed,
		)
	}
	return w.Flush()
}

func (a *App) approvalsRevoke(ctx context.Context, origin string) error {
	if err := a.store.Remove(ctx, origin); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Revoked %s\n", origin)
	return nil
}

func (a *App) approvalsClear(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All approvals revoked.")
	return nil
}
