package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yairfalse/vahti/internal/inventory"
)

var (
	historyStorageDir string
	historyAll        bool
	historyOutput     string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show instances recorded by the daemon",
	Long: `Show the instance observations the daemon has recorded to the
inventory, with first-seen and last-seen timestamps. By default only
instances from the latest scan are shown; --all includes instances that
have since disappeared.`,
	Example: `  vahti history --storage /var/lib/vahti
  vahti history --storage /var/lib/vahti --all --output json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyStorageDir, "storage", "", "Inventory storage directory")
	historyCmd.Flags().BoolVar(&historyAll, "all", false, "Include instances not seen in the latest scan")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "table", "Output format: table, json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	storageDir := historyStorageDir
	if storageDir == "" {
		storageDir = cfg.StorageDir
	}
	if storageDir == "" {
		return fmt.Errorf("no storage dir: pass --storage or set storage_dir in config")
	}

	store, err := inventory.Open(storageDir)
	if err != nil {
		return fmt.Errorf("failed to open inventory: %w", err)
	}
	defer func() { _ = store.Close() }()

	var observations []inventory.Observation
	if historyAll {
		observations, err = store.ListAll()
	} else {
		observations, err = store.ListCurrent()
	}
	if err != nil {
		return err
	}

	if historyOutput == "json" {
		return printJSON(observations)
	}

	fmt.Printf("Revision %d, %d instance(s):\n\n", store.Revision(), len(observations))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTANCE ID\tNAME\tSTATE\tFIRST SEEN\tLAST SEEN")
	for _, obs := range observations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			obs.Instance.ID, obs.Instance.Name, obs.Instance.State,
			obs.FirstSeen.Format(time.RFC3339), obs.LastSeen.Format(time.RFC3339))
	}
	return w.Flush()
}
