package cmd

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/ythdp/ythdp/color"
	"github.com/ythdp/ythdp/filesystem"
	"github.com/ythdp/ythdp/style"
	"github.com/ythdp/ythdp/where"
)

// location is a path the daemon reads or writes.
type location struct {
	name  string
	flag  string
	short mo.Option[string]
	path  func() string
}

var locations = []location{
	{"Config file", "config", mo.Some("c"), configFilePath},
	{"Settings file", "settings", mo.Some("s"), where.Settings},
	{"Player socket", "socket", mo.Some("p"), socketPath},
	{"Logs", "logs", mo.Some("l"), where.Logs},
	{"Update check cache", "cache", mo.None[string](), where.Version},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		if short, ok := l.short.Get(); ok {
			whereCmd.Flags().BoolP(l.flag, short, false, "Print only the "+l.name+" path")
		} else {
			whereCmd.Flags().Bool(l.flag, false, "Print only the "+l.name+" path")
		}
	}
	whereCmd.Flags().BoolP("json", "j", false, "Print every path as JSON")

	whereCmd.MarkFlagsMutuallyExclusive(append(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	}), "json")...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where the config, settings, socket and logs live",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			paths := lo.SliceToMap(locations, func(l location) (string, string) {
				return l.flag, l.path()
			})
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(paths))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, l := range locations {
			if i > 0 {
				cmd.Println()
			}

			path := l.path()
			cmd.Printf("%s %s\n", header(l.name), style.Fg(color.Yellow)("--"+l.flag))
			if exists, _ := filesystem.API().Exists(path); exists {
				cmd.Println(path)
			} else {
				cmd.Println(path + " " + style.Faint("(not created yet)"))
			}
		}
	},
}
