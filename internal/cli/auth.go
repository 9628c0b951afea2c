package cli

import (
	"fmt"
	"time"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (r *runner) doAuthLogin() int {
	fmt.Fprint(ui.Out, "Paste your token: ")
	var token string
	if _, err := fmt.Fscanln(r.opt.In, &token); err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := auth.SetToken(token, nil); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.GetToken()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := auth.DeleteToken(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doAuthStatus() int {
	ti, err := auth.GetToken()
	if err != nil {
		ui.Fail("auth: " + err.Error())
		return 1
	}
	if ti == nil {
		fmt.Fprintln(ui.Out, ui.Dim("not logged in"))
		fmt.Fprintln(ui.Out, "Run: todo auth login")
		return 0
	}
	fmt.Fprintf(ui.Out, "source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		fmt.Fprintf(ui.Out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		fmt.Fprintln(ui.Out, "expires: (unknown)")
	}
	fmt.Fprintln(ui.Out, "env override: "+auth.EnvToken)
	return 0
}

// whoami decodes a JWT locally (unverified); opaque tokens print basic info.
func doAuthWhoAmI() int {
	ti, _ := auth.GetToken()
	if ti == nil {
		ui.Fail("not logged in. Run: todo auth login")
		return 2
	}
	if payload, ok := auth.JWTPayload(ti.Token); ok {
		fmt.Fprintln(ui.Out, "JWT payload:")
		fmt.Fprintln(ui.Out, payload)
		return 0
	}
	fmt.Fprintln(ui.Out, "Opaque token (cannot introspect locally).")
	fmt.Fprintln(ui.Out, "source:", ti.Source)
	return 0
}
