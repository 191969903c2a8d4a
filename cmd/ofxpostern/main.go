// Command ofxpostern fingerprints an OFX server: it sends a profile
// request, caches the raw exchange under ~/.ofxpostern, and prints a
// report of the institution and server details the response discloses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BarakBinyamin/ofxpostern/internal/app"
	"github.com/BarakBinyamin/ofxpostern/internal/common"
	"github.com/BarakBinyamin/ofxpostern/internal/models"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		fid        string
		org        string
		debug      bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:     common.ProgramName + " <url>",
		Short:   "Fingerprint an OFX server",
		Long:    "Probe an OFX server's profile endpoint and report the software stack and capabilities it exposes.",
		Version: common.GetFullVersion(),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Argument errors above print usage; failures past this
			// point are probe failures, not usage mistakes.
			cmd.SilenceUsage = true

			a, err := app.NewApp(app.Options{
				ConfigPath: configPath,
				Debug:      debug,
			})
			if err != nil {
				return err
			}

			identity := models.NewServerIdentity(args[0], fid, org)
			return a.ProbeService.Run(context.Background(), identity)
		},
	}

	cmd.Flags().StringVarP(&fid, "fid", "f", "", "Financial ID of the institution")
	cmd.Flags().StringVarP(&org, "org", "o", "", "Organization within the institution")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")

	return cmd
}
