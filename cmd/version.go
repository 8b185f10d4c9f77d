package cmd

import (
	"context"
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ythdp/ythdp/color"
	"github.com/ythdp/ythdp/constant"
	"github.com/ythdp/ythdp/style"
	"github.com/ythdp/ythdp/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Display only the version string without metadata")
}

// versionCmd prints the running version together with build and runtime details.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify(context.Background())

		info := struct {
			App      string
			Name     string
			Version  string
			Revision string
			BuiltAt  string
			BuiltBy  string
			Platform string
			Go       string
		}{
			App:      constant.App,
			Name:     constant.DisplayName,
			Version:  constant.Version,
			Revision: constant.Revision,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			Platform: runtime.GOOS + "/" + runtime.GOARCH,
			Go:       runtime.Version(),
		}

		t, err := template.New("version").Funcs(map[string]any{
			"faint": style.Faint,
			"bold":  style.Bold,
			"red":   style.Fg(color.Red),
		}).Parse(`{{ red "▶" }} {{ bold .App }} {{ faint .Name }}

  {{ faint "Version   " }} {{ bold .Version }}
  {{ faint "Revision  " }} {{ bold .Revision }}
  {{ faint "Built     " }} {{ bold .BuiltAt }} by {{ bold .BuiltBy }}
  {{ faint "Platform  " }} {{ bold .Platform }} ({{ .Go }})
`)
		handleErr(err)
		handleErr(t.Execute(cmd.OutOrStdout(), info))
	},
}
