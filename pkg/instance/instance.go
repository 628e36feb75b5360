// Package instance defines the normalized EC2 instance model for Vahti.
package instance

import "time"

// Instance represents one EC2 instance in unified format.
// Built once at the SDK boundary - nothing downstream touches raw AWS shapes.
type Instance struct {
	ID         string            `json:"id"`          // Instance ID (e.g., "i-abc123")
	Name       string            `json:"name"`        // Value of the Name tag, "" if unset
	State      string            `json:"state"`       // Instance state (e.g., "running")
	Type       string            `json:"type"`        // Instance type (e.g., "t3.micro")
	AZ         string            `json:"az"`          // Availability zone
	PrivateIP  string            `json:"private_ip"`  // Primary private IP
	PublicIP   string            `json:"public_ip"`   // Public IP, "" if none
	LaunchTime time.Time         `json:"launch_time"` // When the instance launched
	Tags       map[string]string `json:"tags"`        // All tags with a set value
}

// StateChange records one lifecycle transition returned by start/stop/terminate.
type StateChange struct {
	InstanceID string `json:"instance_id"`
	Previous   string `json:"previous"`
	Current    string `json:"current"`
}

// Untagged is one row of the untagged-instance report.
type Untagged struct {
	InstanceID string `json:"InstanceId"`
	Name       string `json:"Name"`
}

// Grouped partitions instances by whether they are running.
type Grouped struct {
	Running    []Instance `json:"running"`
	NotRunning []Instance `json:"not-running"`
}

// GroupByRunning partitions instances into running and not-running buckets.
func GroupByRunning(instances []Instance) Grouped {
	var g Grouped
	for _, inst := range instances {
		if inst.State == "running" {
			g.Running = append(g.Running, inst)
		} else {
			g.NotRunning = append(g.NotRunning, inst)
		}
	}
	return g
}

// IDs returns the instance IDs in input order.
func IDs(instances []Instance) []string {
	ids := make([]string, 0, len(instances))
	for _, inst := range instances {
		ids = append(ids, inst.ID)
	}
	return ids
}
