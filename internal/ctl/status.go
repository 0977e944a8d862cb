package ctl

import (
	"context"
	"fmt"
)

func (a *App) runStatus(ctx context.Context) error {
	status, err := a.credentials.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "State:   %s\n", status.State)
	fmt.Fprintf(a.out, "Message: %s\n", status.Message)
	return nil
}
