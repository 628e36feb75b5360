package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yairfalse/vahti/internal/aws"
	"github.com/yairfalse/vahti/pkg/instance"
)

var (
	lifecycleRegion string
	lifecycleDryRun bool
)

var startCmd = &cobra.Command{
	Use:   "start <instance-id>...",
	Short: "Start EC2 instances",
	Example: `  vahti start i-abc123
  vahti start i-abc123 i-def456 --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLifecycle(cmd.Context(), args, func(ctx context.Context, client *aws.Client) ([]instance.StateChange, error) {
			return client.StartInstances(ctx, args, lifecycleDryRun)
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <instance-id>...",
	Short: "Stop EC2 instances",
	Long:  `Stop EC2 instances. Instances are never force-stopped.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLifecycle(cmd.Context(), args, func(ctx context.Context, client *aws.Client) ([]instance.StateChange, error) {
			return client.StopInstances(ctx, args, lifecycleDryRun)
		})
	},
}

var terminateCmd = &cobra.Command{
	Use:   "terminate <instance-id>...",
	Short: "Terminate EC2 instances",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLifecycle(cmd.Context(), args, func(ctx context.Context, client *aws.Client) ([]instance.StateChange, error) {
			return client.TerminateInstances(ctx, args, lifecycleDryRun)
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{startCmd, stopCmd, terminateCmd} {
		cmd.Flags().StringVarP(&lifecycleRegion, "region", "r", "", "AWS region")
		cmd.Flags().BoolVar(&lifecycleDryRun, "dry-run", false, "Check permissions without acting")
		rootCmd.AddCommand(cmd)
	}
}

func runLifecycle(ctx context.Context, ids []string, op func(context.Context, *aws.Client) ([]instance.StateChange, error)) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	client, err := newClient(ctx, resolveRegion(lifecycleRegion, cfg))
	if err != nil {
		return err
	}

	changes, err := op(ctx, client)
	if err != nil {
		return err
	}

	if lifecycleDryRun && len(changes) == 0 {
		fmt.Printf("Dry run succeeded for %d instance(s)\n", len(ids))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTANCE ID\tPREVIOUS\tCURRENT")
	for _, change := range changes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", change.InstanceID, change.Previous, change.Current)
	}
	return w.Flush()
}
