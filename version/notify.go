package version

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/ythdp/ythdp/color"
	"github.com/ythdp/ythdp/constant"
	"github.com/ythdp/ythdp/icon"
	"github.com/ythdp/ythdp/key"
	"github.com/ythdp/ythdp/log"
	"github.com/ythdp/ythdp/style"
	"github.com/ythdp/ythdp/util"
)

// Status is the result of an update check.
type Status int

const (
	Unknown Status = iota
	UpToDate
	Available
)

// Outcome describes an update check.
type Outcome struct {
	Status  Status
	Current string
	Latest  string
	Err     error
}

func (o Outcome) String() string {
	switch o.Status {
	case UpToDate:
		return fmt.Sprintf("%s (v%s) is up to date", constant.DisplayName, o.Current)
	case Available:
		return fmt.Sprintf("a new version (%s) of %s is available", o.Latest, constant.DisplayName)
	default:
		if o.Err != nil {
			return fmt.Sprintf("could not determine remote version: %v", o.Err)
		}
		return "could not determine remote version"
	}
}

// Check compares the running version with the manifest. cached allows a result up to
// two days old.
func Check(ctx context.Context, manifestURL string, cached bool) Outcome {
	fetch := Latest
	if cached {
		fetch = Cached
	}

	outcome := Outcome{Current: Current()}

	latest, err := fetch(ctx, manifestURL)
	if err != nil {
		log.Debugf("update check failed: %v", err)
		outcome.Err = err
		return outcome
	}

	outcome.Latest = latest
	log.Debugf("current version %s, remote version %s", outcome.Current, latest)

	if Compare(latest, outcome.Current) > 0 {
		outcome.Status = Available
	} else {
		outcome.Status = UpToDate
	}

	return outcome
}

// Notify prints a notice when a newer version is available.
func Notify(ctx context.Context) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	outcome := Check(ctx, viper.GetString(key.UpdateManifestURL), true)
	erase()

	if outcome.Status != Available {
		return
	}

	Print(outcome)
}

// Print renders an outcome for the terminal.
func Print(outcome Outcome) {
	switch outcome.Status {
	case Available:
		fmt.Printf(`
%s New version is available %s %s
%s

`,
			style.Fg(color.Green)(icon.Get(icon.Update)),
			style.Bold(outcome.Latest),
			style.Faint(fmt.Sprintf("(You're on %s)", outcome.Current)),
			style.Faint(viper.GetString(key.UpdateDownloadURL)),
		)
	case UpToDate:
		fmt.Printf("%s %s\n", icon.Get(icon.Success), util.Capitalize(outcome.String()))
	default:
		fmt.Printf("%s %s\n", icon.Get(icon.Fail), util.Capitalize(outcome.String()))
	}
}
