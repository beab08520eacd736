// Command uptime builds and operates the uptime stack.
//
// Usage:
//
//	uptime build                 Generate the CloudFormation template
//	uptime graph -f mermaid      Show resource dependencies
//	uptime diff previous.json    Compare with a previous template
//	uptime suggest               Suggest template improvements
//	uptime package ./bootstrap   Zip and upload the handler binary
//	uptime status --function-name NAME
//	uptime version               Show version
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lex00/uptime-aws-go/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: logrus.New()}
	opts.logger.SetOutput(os.Stderr)
	opts.logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd := &cobra.Command{
		Use:   "uptime",
		Short: "Build and operate the uptime stack",
		Long: `uptime declares a Lambda function behind a public URL, the bucket it uses,
and the alarm, health check and dashboard that watch it, as a CloudFormation
template.

The stack is configured by a YAML file:

    region: us-east-1
    handler: count
    code:
      bucket: my-artifacts
      key: uptime/bootstrap.zip

Then generate the template:

    uptime build -o template.json`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				opts.logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Stack configuration file")
	flags.StringVar(&opts.region, "region", "", "Override the configured region")
	flags.StringVar(&opts.environment, "environment", "", "Override the configured environment")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(
		newBuildCmd(opts),
		newListCmd(opts),
		newGraphCmd(opts),
		newDiffCmd(opts),
		newValidateCmd(opts),
		newSuggestCmd(opts),
		newWatchCmd(opts),
		newPackageCmd(opts),
		newStatusCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), readBuildInfo())
		},
	}
}
