/*
Copyright © 2026 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/internal/config"
	"github.com/blacktop/bytebun/internal/modules"
	"github.com/blacktop/bytebun/internal/utils"
)

func init() {
	rootCmd.AddCommand(munchCmd)

	munchCmd.Flags().StringSliceP("modules", "m", []string{}, "Modules to run (default is all)")
	munchCmd.Flags().StringP("output", "o", "", "Write the JSON report to this file (default is stdout)")
	munchCmd.Flags().BoolP("compact", "c", false, "Compact JSON output")
	munchCmd.Flags().StringArrayP("download", "d", []string{}, "Download and analyze the client jar of a version")
	munchCmd.Flags().BoolP("download-latest", "D", false, "Download and analyze the latest snapshot")
	munchCmd.Flags().StringP("url", "s", "", "Download and analyze the jar at this URL")
	munchCmd.Flags().Int("cache-size", config.DefaultCacheSize, "Number of parsed classes to keep in memory per jar")
	munchCmd.MarkFlagFilename("output", "json")
	viper.BindPFlag("analysis.modules", munchCmd.Flags().Lookup("modules"))
	viper.BindPFlag("analysis.cache-size", munchCmd.Flags().Lookup("cache-size"))
	viper.BindPFlag("output.compact", munchCmd.Flags().Lookup("compact"))
	viper.BindPFlag("munch.output", munchCmd.Flags().Lookup("output"))
	viper.BindPFlag("munch.download", munchCmd.Flags().Lookup("download"))
	viper.BindPFlag("munch.download-latest", munchCmd.Flags().Lookup("download-latest"))
	viper.BindPFlag("munch.url", munchCmd.Flags().Lookup("url"))
}

// munchCmd represents the munch command
var munchCmd = &cobra.Command{
	Use:   "munch [JAR...]",
	Short: "Analyze client jars and print what was found as JSON",
	Example: heredoc.Doc(`
		# Analyze a local jar with every module
		❯ bytebun munch 1.14.4.jar

		# Only entity metadata (pulls in its dependencies)
		❯ bytebun munch -m entitymetadata 1.14.4.jar

		# Download 1.12.2 and the latest snapshot, write a compact report
		❯ bytebun munch -d 1.12.2 -D --compact -o report.json`),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// resolve first so a bad module request fails before any download
		exec, err := analysis.NewExecutor(modules.All(), &analysis.Config{
			Modules:   conf.Analysis.Modules,
			Verbose:   conf.Verbose,
			CacheSize: conf.Analysis.CacheSize,
		})
		if err != nil {
			return fmt.Errorf("failed to resolve modules: %w", err)
		}
		if conf.Verbose {
			for i, m := range exec.Order() {
				utils.Indent(log.Debug, 2)(fmt.Sprintf("%d. %s", i+1, m.Name()))
			}
		}

		jars := append([]string{}, args...)
		versions := utils.Unique(viper.GetStringSlice("munch.download"))
		latest := viper.GetBool("munch.download-latest")
		url := viper.GetString("munch.url")
		if len(versions) > 0 || latest || url != "" {
			client := newDownloadClient(conf)
			for _, version := range versions {
				path, err := client.ClientJar(ctx, version, conf.Download.Dir)
				if err != nil {
					return fmt.Errorf("failed to download %s: %w", version, err)
				}
				jars = append(jars, path)
			}
			if latest {
				path, err := client.LatestClientJar(ctx, conf.Download.Dir)
				if err != nil {
					return fmt.Errorf("failed to download the latest snapshot: %w", err)
				}
				jars = append(jars, path)
			}
			if url != "" {
				path, err := client.Fetch(ctx, url)
				if err != nil {
					return fmt.Errorf("failed to download %s: %w", url, err)
				}
				defer os.Remove(path)
				jars = append(jars, path)
			}
		}
		jars = utils.Unique(jars)
		if len(jars) == 0 {
			return fmt.Errorf("no jars to analyze: pass paths or use --download, --download-latest or --url")
		}

		results, runErr := exec.Run(ctx, jars)

		var out io.Writer = os.Stdout
		if output := viper.GetString("munch.output"); output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()
			out = f
		}
		if err := analysis.WriteReport(out, results, conf.Output.Compact); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return runErr
	},
}
