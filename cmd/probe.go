package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/mediasurface/mediasurface/filesystem"
	"github.com/mediasurface/mediasurface/inline"
	"github.com/mediasurface/mediasurface/key"
	"github.com/mediasurface/mediasurface/player"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	probeCmd.Flags().StringP("streams", "s", "all", "Stream kinds to list: all, none or a comma separated list of video, audio, subtitle")
	probeCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	probeCmd.Flags().IntP("timeout", "t", 0, "Seconds to wait for each source to open")
	lo.Must0(viper.BindPFlag(key.ProbeTimeout, probeCmd.Flags().Lookup("timeout")))

	probeCmd.Flags().BoolP("cache", "c", false, "Reuse reports of sources probed recently")
	lo.Must0(viper.BindPFlag(key.ProbeCache, probeCmd.Flags().Lookup("cache")))

	lo.Must0(probeCmd.RegisterFlagCompletionFunc("streams", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"all", "none", "video", "audio", "subtitle"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

// probeCmd opens sources without a control panel and reports what the engine found.
var probeCmd = &cobra.Command{
	Use:   "probe [sources...]",
	Short: "Open sources headlessly and report their state, length, chapters and streams",
	Long: `Open each source on a fresh surface, play it until it opens, ends or fails,
then report what the engine exposed about it.

A source that neither opens nor fails within the timeout is reported with
whatever was known at that point and marked as timed out.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kinds, err := inline.ParseKinds(lo.Must(cmd.Flags().GetString("streams")))
		handleErr(err)

		output := lo.Must(cmd.Flags().GetString("output"))
		var writer io.Writer
		if output != "" {
			writer, err = filesystem.API().Create(output)
			handleErr(err)
		} else {
			writer = os.Stdout
		}

		CheckDependencies()

		e, err := player.NewEngine()
		handleErr(err)

		options := &inline.Options{
			Out:     writer,
			Sources: args,
			Json:    lo.Must(cmd.Flags().GetBool("json")),
			Timeout: time.Duration(viper.GetInt(key.ProbeTimeout)) * time.Second,
			Kinds:   kinds,
		}
		if viper.GetBool(key.ProbeCache) {
			options.CacheLifetime = time.Duration(viper.GetInt(key.ProbeCacheLifetime)) * time.Minute
		}

		handleErr(inline.Run(e, options))
	},
}

func init() {
	probeCmd.AddCommand(probeSchemaCmd)
}

// probeSchemaCmd generates the JSON schema of the probe report.
var probeSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the structured probe output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(probeSchema()))
	},
}

func probeSchema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "report", "video", "output":
			return filepath.Base(t.PkgPath()) + "." + name
		}

		return name
	}

	return reflector.Reflect(&inline.Output{})
}
