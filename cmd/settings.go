package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/invopop/jsonschema"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ythdp/ythdp/color"
	"github.com/ythdp/ythdp/icon"
	"github.com/ythdp/ythdp/settings"
	"github.com/ythdp/ythdp/style"
)

func errUnknownSetting(field string) error {
	closest := lo.MinBy(settings.Fields, func(a string, b string) bool {
		return levenshtein.Distance(field, a) < levenshtein.Distance(field, b)
	})
	return fmt.Errorf(
		"unknown setting %s, did you mean %s?",
		style.Fg(color.Red)(field),
		style.Fg(color.Yellow)(closest),
	)
}

func completionSettings(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return settings.Fields, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

// settingsCmd groups the commands that manage the stored preferences.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the stored quality preferences",
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsShowCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	settingsShowCmd.SetOut(os.Stdout)
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored preferences",
	Run: func(cmd *cobra.Command, args []string) {
		svc := newSettingsService()
		prefs := svc.Load(cmd.Context())

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(prefs))
			return
		}

		for _, field := range settings.Fields {
			value, _ := prefs.Value(field)
			cmd.Printf("%s %v\n", style.Fg(color.Purple)(fmt.Sprintf("%-17s", field)), style.Fg(color.Yellow)(fmt.Sprint(value)))
		}

		if info, ok := svc.LastRun(cmd.Context()); ok {
			cmd.Println()
			cmd.Println(style.Faint(fmt.Sprintf("last run %s by version %s", humanize.Time(info.LastRun), info.Version)))
		}
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

var settingsSetCmd = &cobra.Command{
	Use:               "set [field] [value]",
	Short:             "Change a stored preference",
	Example:           "  ythdp settings set forceHD false",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionSettings,
	Run: func(cmd *cobra.Command, args []string) {
		field, input := args[0], args[1]
		if !lo.Contains(settings.Fields, field) {
			handleErr(errUnknownSetting(field))
		}

		value, err := settings.ParseValue(field, input)
		handleErr(err)

		svc := newSettingsService()
		svc.Load(cmd.Context())
		handleErr(svc.Update(cmd.Context(), field, value))

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(field),
			style.Fg(color.Yellow)(fmt.Sprint(value)),
		)
	},
}

func init() {
	settingsCmd.AddCommand(settingsResetCmd)
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default preferences",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(newSettingsService().Reset(cmd.Context()))
		fmt.Printf("%s reset all preferences\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	settingsCmd.AddCommand(settingsSchemaCmd)
}

var settingsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the stored preferences",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		schema := reflector.Reflect(&settings.Preferences{})

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
