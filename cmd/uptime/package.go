package main

import (
	"context"
	"fmt"
	"io"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/lex00/uptime-aws-go/internal/artifact"
)

func newPackageCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "package <bootstrap-binary>",
		Short: "Zip the handler binary and upload it to the code location",
		Long: `Package zips a built handler binary as the bootstrap entry and uploads it to
code.bucket/code.key from the configuration file.

Build the binary for the Lambda architecture first:
    GOOS=linux GOARCH=arm64 go build -o bootstrap ./cmd/uptime-count
    uptime package ./bootstrap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd.Context(), opts, args[0], dryRun, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build the archive without uploading it")

	return cmd
}

func runPackage(ctx context.Context, opts *rootOptions, binary string, dryRun bool, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	archive, err := artifact.Zip(binary)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Packaged %s (%s, sha256 %s)\n", binary, archive.Size(), archive.SHA256)

	if dryRun {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return fmt.Errorf("error loading AWS config: %w", err)
	}

	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Writer = w
	sp.Suffix = fmt.Sprintf(" Uploading to s3://%s/%s", cfg.Code.Bucket, cfg.Code.Key)
	sp.Start()

	published, err := artifact.Publish(ctx, s3.NewFromConfig(awsCfg), archive, cfg.Code.Bucket, cfg.Code.Key)
	sp.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "✓ Uploaded %s to s3://%s/%s (etag %s)\n", published.Size, published.Bucket, published.Key, published.ETag)
	return nil
}
