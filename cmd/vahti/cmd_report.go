package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yairfalse/vahti/internal/aws"
	"github.com/yairfalse/vahti/internal/tags"
)

var (
	reportRegion  string
	reportRequire []string
	reportStates  []string
	reportOutput  string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report instances missing required tags",
	Long: `Report instances that match none of the required tag criteria.

Each criterion is a tag name and a regex pattern, searched as a substring
against the tag value. An instance matching any single criterion counts as
tagged; only instances matching none appear in the report.

Criteria come from the tag_policy section of the config file, or from
--require flags (which override the config).`,
	Example: `  vahti report --require Owner=.*
  vahti report --require 'Environment=^prod$' --require Team=.*
  vahti report --config vahti.yaml --state running
  vahti report --output json`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportRegion, "region", "r", "", "AWS region")
	reportCmd.Flags().StringArrayVar(&reportRequire, "require", nil, "Required tag criterion: name=pattern (repeatable)")
	reportCmd.Flags().StringSliceVar(&reportStates, "state", nil, "Only consider instances in these states")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "table", "Output format: table, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportOutput != "table" && reportOutput != "json" {
		return fmt.Errorf("invalid output format: %s (must be table or json)", reportOutput)
	}

	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	criteria, err := reportCriteria(cfg.TagPolicy)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, resolveRegion(reportRegion, cfg))
	if err != nil {
		return err
	}

	raw, err := client.ListRawInstances(ctx, aws.ListQuery{States: reportStates})
	if err != nil {
		return err
	}

	untagged := tags.FindUntagged(criteria, raw)

	if reportOutput == "json" {
		return printJSON(untagged)
	}

	if len(untagged) == 0 {
		fmt.Println("All instances match the tag policy")
		return nil
	}

	fmt.Printf("%d instance(s) missing required tags:\n\n", len(untagged))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTANCE ID\tNAME")
	for _, row := range untagged {
		fmt.Fprintf(w, "%s\t%s\n", row.InstanceID, row.Name)
	}
	return w.Flush()
}

// reportCriteria builds the criteria map: --require flags win over config.
func reportCriteria(fromConfig tags.Criteria) (tags.Criteria, error) {
	if len(reportRequire) == 0 {
		if len(fromConfig) == 0 {
			return nil, fmt.Errorf("no tag criteria: set tag_policy in config or pass --require")
		}
		return fromConfig, nil
	}

	criteria := make(tags.Criteria, len(reportRequire))
	for _, req := range reportRequire {
		name, pattern, ok := strings.Cut(req, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --require %q: expected name=pattern", req)
		}
		criteria[name] = pattern
	}
	return criteria, nil
}
