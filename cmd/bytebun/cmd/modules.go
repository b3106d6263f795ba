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
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/internal/modules"
	"github.com/blacktop/bytebun/internal/utils"
)

var colorName = color.New(color.Bold, color.FgHiMagenta).SprintFunc()
var colorKey = color.New(color.Bold, color.FgHiGreen).SprintFunc()
var colorValue = color.New(color.FgHiBlue).SprintFunc()

func init() {
	rootCmd.AddCommand(modulesCmd)

	modulesCmd.Flags().BoolP("graph", "g", false, "Print the provider graph in DOT format")
	viper.BindPFlag("modules.graph", modulesCmd.Flags().Lookup("graph"))
}

// modulesCmd represents the modules command
var modulesCmd = &cobra.Command{
	Use:     "modules [FILTER...]",
	Aliases: []string{"list"},
	Short:   "List the available analysis modules",
	Example: heredoc.Doc(`
		# List modules with what they provide and depend on
		❯ bytebun modules -V

		# Only modules whose name contains "entit"
		❯ bytebun modules entit

		# Render the dependency graph
		❯ bytebun modules --graph | dot -Tpng -o modules.png`),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := modules.All()

		if viper.GetBool("modules.graph") {
			return analysis.WriteDOT(all, os.Stdout)
		}

		for _, m := range all {
			if len(args) > 0 && !utils.StrSliceContains(args, m.Name()) {
				continue
			}
			fmt.Println(colorName(m.Name()))
			fmt.Printf(" -- %s\n", m.Description())
			if viper.GetBool("verbose") {
				if provides := m.Provides(); len(provides) > 0 {
					fmt.Printf("    %s %s\n", colorKey("provides:"), colorValue(strings.Join(provides, ", ")))
				}
				if depends := m.Depends(); len(depends) > 0 {
					fmt.Printf("    %s  %s\n", colorKey("depends:"), colorValue(strings.Join(depends, ", ")))
				}
			}
			fmt.Println()
		}
		return nil
	},
}
