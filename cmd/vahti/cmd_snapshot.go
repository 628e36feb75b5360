package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	snapshotRegion      string
	snapshotVolume      string
	snapshotName        string
	snapshotDescription string
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Create an EBS snapshot from a volume",
	Long: `Create an EBS snapshot from a volume, tagged with a Name.

The Name tag is applied atomically with snapshot creation.`,
	Example: `  vahti snapshot --volume vol-abc123 --name nightly-backup
  vahti snapshot --volume vol-abc123 --name pre-upgrade --description "before v2 rollout"`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotRegion, "region", "r", "", "AWS region")
	snapshotCmd.Flags().StringVar(&snapshotVolume, "volume", "", "Volume ID to snapshot")
	snapshotCmd.Flags().StringVar(&snapshotName, "name", "", "Name tag for the snapshot")
	snapshotCmd.Flags().StringVar(&snapshotDescription, "description", "", "Snapshot description")
	_ = snapshotCmd.MarkFlagRequired("volume")
	_ = snapshotCmd.MarkFlagRequired("name")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, resolveRegion(snapshotRegion, cfg))
	if err != nil {
		return err
	}

	snapshot, err := client.CreateSnapshot(ctx, snapshotVolume, snapshotName, snapshotDescription)
	if err != nil {
		return err
	}

	fmt.Printf("Created snapshot %s from %s (state: %s)\n", snapshot.ID, snapshot.VolumeID, snapshot.State)
	return nil
}
