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
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blacktop/bytebun/internal/config"
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().BoolP("latest", "l", false, "Download the latest snapshot")
	downloadCmd.Flags().Bool("releases", false, "List release versions instead of downloading")
	viper.BindPFlag("download.latest", downloadCmd.Flags().Lookup("latest"))
	viper.BindPFlag("download.releases", downloadCmd.Flags().Lookup("releases"))
}

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:     "download [VERSION...]",
	Aliases: []string{"dl"},
	Short:   "Download client jars by version id",
	Example: heredoc.Doc(`
		# Download two releases into the cache dir
		❯ bytebun download 1.12.2 1.14.4

		# Download the newest snapshot into the current folder
		❯ bytebun download --latest --dir .

		# List every release, oldest first
		❯ bytebun download --releases`),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		client := newDownloadClient(conf)

		if viper.GetBool("download.releases") {
			releases, err := client.Releases(ctx)
			if err != nil {
				return err
			}
			for _, r := range releases {
				fmt.Println(r)
			}
			return nil
		}

		if len(args) == 0 && !viper.GetBool("download.latest") {
			return fmt.Errorf("must supply a VERSION or --latest")
		}

		if len(args) > 1 {
			// warm the metadata cache concurrently
			if _, err := client.VersionMetas(ctx, args); err != nil {
				return err
			}
		}
		for _, version := range args {
			path, err := client.ClientJar(ctx, version, conf.Download.Dir)
			if err != nil {
				return fmt.Errorf("failed to download %s: %w", version, err)
			}
			log.WithField("path", path).Infof("Downloaded %s", version)
		}
		if viper.GetBool("download.latest") {
			path, err := client.LatestClientJar(ctx, conf.Download.Dir)
			if err != nil {
				return fmt.Errorf("failed to download the latest snapshot: %w", err)
			}
			log.WithField("path", path).Info("Downloaded latest snapshot")
		}
		return nil
	},
}
