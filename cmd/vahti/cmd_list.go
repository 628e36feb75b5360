package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yairfalse/vahti/internal/aws"
	"github.com/yairfalse/vahti/pkg/instance"
)

var (
	listRegion  string
	listStates  []string
	listTag     string
	listIDs     []string
	listOutput  string
	listGrouped bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List EC2 instances",
	Long: `List EC2 instances in normalized form.

Filter by instance state, instance IDs, or a single tag. A tag filter is
either "key=value" or just "key" to match any value.`,
	Example: `  vahti list                               # All instances
  vahti list --state running               # Only running instances
  vahti list --tag Environment=prod        # By tag value
  vahti list --tag Owner                   # Tag present, any value
  vahti list --ids i-abc123,i-def456       # Specific instances
  vahti list --grouped                     # Group by running state
  vahti list --output json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listRegion, "region", "r", "", "AWS region")
	listCmd.Flags().StringSliceVar(&listStates, "state", nil, "Filter by instance state (repeatable)")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag: key=value or key")
	listCmd.Flags().StringSliceVar(&listIDs, "ids", nil, "Filter by instance IDs")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format: table, json")
	listCmd.Flags().BoolVar(&listGrouped, "grouped", false, "Group output by running state")
}

func runList(cmd *cobra.Command, args []string) error {
	if listOutput != "table" && listOutput != "json" {
		return fmt.Errorf("invalid output format: %s (must be table or json)", listOutput)
	}

	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, resolveRegion(listRegion, cfg))
	if err != nil {
		return err
	}

	query := aws.ListQuery{
		States: listStates,
		IDs:    listIDs,
	}
	if listTag != "" {
		key, value, _ := strings.Cut(listTag, "=")
		query.TagKey = key
		query.TagValue = value
	}

	instances, err := client.ListInstances(ctx, query)
	if err != nil {
		return err
	}

	if listGrouped {
		return printGrouped(instance.GroupByRunning(instances))
	}

	if listOutput == "json" {
		return printJSON(instances)
	}
	printInstanceTable(instances)
	return nil
}

func printGrouped(grouped instance.Grouped) error {
	if listOutput == "json" {
		return printJSON(grouped)
	}
	fmt.Printf("running (%d):\n", len(grouped.Running))
	printInstanceTable(grouped.Running)
	fmt.Printf("\nnot-running (%d):\n", len(grouped.NotRunning))
	printInstanceTable(grouped.NotRunning)
	return nil
}

func printInstanceTable(instances []instance.Instance) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTANCE ID\tNAME\tSTATE\tTYPE\tAZ\tPRIVATE IP\tPUBLIC IP")
	for _, inst := range instances {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inst.ID, inst.Name, inst.State, inst.Type, inst.AZ, inst.PrivateIP, inst.PublicIP)
	}
	_ = w.Flush()
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
