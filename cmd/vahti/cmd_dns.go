package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	dnsRegion string
	dnsZoneID string
	dnsRecord string
	dnsValue  string
	dnsTTL    int64
)

// dnsCmd groups Route53 operations
var dnsCmd = &cobra.Command{
	Use:   "dns",
	Short: "Route53 record operations",
}

var dnsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an A record from a hosted zone",
	Long: `Delete an A record from a Route53 hosted zone.

Route53 requires the delete request to match the existing record exactly,
so record name, value, and TTL must all be supplied (TTL and zone can come
from the dns section of the config file).`,
	Example: `  vahti dns delete --zone Z123ABC --record web-1.example.com --value 10.0.0.12
  vahti dns delete --record web-1.example.com --value 10.0.0.12 --ttl 60 --config vahti.yaml`,
	RunE: runDNSDelete,
}

func init() {
	rootCmd.AddCommand(dnsCmd)
	dnsCmd.AddCommand(dnsDeleteCmd)

	dnsDeleteCmd.Flags().StringVarP(&dnsRegion, "region", "r", "", "AWS region")
	dnsDeleteCmd.Flags().StringVar(&dnsZoneID, "zone", "", "Hosted zone ID (default from config)")
	dnsDeleteCmd.Flags().StringVar(&dnsRecord, "record", "", "Record name to delete")
	dnsDeleteCmd.Flags().StringVar(&dnsValue, "value", "", "Record value (IP address)")
	dnsDeleteCmd.Flags().Int64Var(&dnsTTL, "ttl", 0, "Record TTL (default from config)")
	_ = dnsDeleteCmd.MarkFlagRequired("record")
	_ = dnsDeleteCmd.MarkFlagRequired("value")
}

func runDNSDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	zoneID := dnsZoneID
	if zoneID == "" {
		zoneID = cfg.DNS.ZoneID
	}
	if zoneID == "" {
		return fmt.Errorf("no hosted zone: pass --zone or set dns.zone_id in config")
	}

	ttl := dnsTTL
	if ttl == 0 {
		ttl = cfg.DNS.TTL
	}
	if ttl == 0 {
		ttl = 300
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, resolveRegion(dnsRegion, cfg))
	if err != nil {
		return err
	}

	if err := client.DeleteRecordSet(ctx, zoneID, dnsRecord, dnsValue, ttl); err != nil {
		return err
	}

	fmt.Printf("Deleted A record %s (%s) from zone %s\n", dnsRecord, dnsValue, zoneID)
	return nil
}
