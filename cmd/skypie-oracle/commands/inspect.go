package commands

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/skypie-oracle/precomputer/internal/persist"
	"github.com/skypie-oracle/precomputer/internal/tui"
)

var (
	inspectRoot     string
	inspectS3Bucket string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <optimal-path>",
	Short: "Browse a persisted precompute run's optimal decisions",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	flags := inspectCmd.Flags()
	flags.StringVar(&inspectRoot, "output-root", ".", "local directory the run was written under")
	flags.StringVar(&inspectS3Bucket, "s3-bucket", "", "S3 bucket the run was written to, instead of --output-root")
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var store persist.BlobStore
	if inspectS3Bucket == "" {
		store = persist.NewLocalStore(inspectRoot)
	} else {
		s3, err := buildS3Store(ctx, inspectS3Bucket)
		if err != nil {
			return fmt.Errorf("inspect: %w", err)
		}
		store = s3
	}

	optimalPath := args[0]
	model, err := tui.LoadModel(ctx, store, optimalPath+".wrapper", optimalPath)
	if err != nil {
		return fmt.Errorf("inspect: load run %q: %w", optimalPath, err)
	}

	_, err = tea.NewProgram(model).Run()
	return err
}

func buildS3Store(ctx context.Context, bucket string) (persist.BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return persist.NewS3Store(awsCfg, bucket), nil
}
