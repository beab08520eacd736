package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/lex00/uptime-aws-go/internal/probe"
	"github.com/lex00/uptime-aws-go/internal/stack"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var (
		functionName string
		alarmName    string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Probe the deployed function URL and read the error-rate alarm",
		Long: `Status resolves the public URL of the deployed function, requests the host the
health check targets, and reports the state of the error-rate alarm.

Examples:
    uptime status --function-name uptime-UptimeFunction-AbC123
    uptime status --function-name my-fn --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), opts, functionName, alarmName, outputFormat, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&functionName, "function-name", "", "Deployed function name (required)")
	cmd.Flags().StringVar(&alarmName, "alarm-name", stack.AlarmName, "Error-rate alarm name")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("function-name")

	return cmd
}

func runStatus(ctx context.Context, opts *rootOptions, functionName, alarmName, format string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return fmt.Errorf("error loading AWS config: %w", err)
	}

	checker := &probe.Checker{
		Functions: lambda.NewFromConfig(awsCfg),
		Alarms:    cloudwatch.NewFromConfig(awsCfg),
	}

	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Writer = w
	sp.Suffix = fmt.Sprintf(" Checking %s in %s", functionName, cfg.Region)
	sp.Start()
	report, err := checker.Check(ctx, functionName, alarmName)
	sp.Stop()
	if err != nil {
		return err
	}

	return outputReport(report, format, w)
}

func outputReport(report *probe.Report, format string, w io.Writer) error {
	if format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	health := "healthy"
	if !report.Healthy {
		health = "unhealthy"
	}

	fmt.Fprintf(w, "Function URL: %s\n", report.FunctionURL)
	fmt.Fprintf(w, "Health check: https://%s/\n", report.Host)
	if report.ProbeError != "" {
		fmt.Fprintf(w, "Probe:        %s (%s)\n", health, report.ProbeError)
	} else {
		fmt.Fprintf(w, "Probe:        %s (HTTP %d in %s)\n", health, report.StatusCode, report.Latency.Round(time.Millisecond))
	}
	fmt.Fprintf(w, "Alarm:        %s\n", report.AlarmState)
	if report.AlarmReason != "" {
		fmt.Fprintf(w, "              %s\n", report.AlarmReason)
	}
	return nil
}
