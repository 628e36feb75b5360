package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Snapshot describes a newly created EBS snapshot.
type Snapshot struct {
	ID          string    `json:"id"`
	VolumeID    string    `json:"volume_id"`
	State       string    `json:"state"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
}

// CreateSnapshot snapshots a volume and tags it with the given name.
// Tagging happens in the same call via TagSpecifications, so there is no
// window where the snapshot exists unnamed.
func (c *Client) CreateSnapshot(ctx context.Context, volumeID, name, description string) (*Snapshot, error) {
	output, err := c.ec2Client.CreateSnapshot(ctx, &ec2.CreateSnapshotInput{
		VolumeId:    aws.String(volumeID),
		Description: aws.String(description),
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeSnapshot,
				Tags: []ec2types.Tag{
					{Key: aws.String("Name"), Value: aws.String(name)},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create snapshot for volume %s: %w", volumeID, err)
	}

	snapshot := &Snapshot{
		ID:          aws.ToString(output.SnapshotId),
		VolumeID:    aws.ToString(output.VolumeId),
		State:       string(output.State),
		Description: aws.ToString(output.Description),
	}
	if output.StartTime != nil {
		snapshot.StartTime = *output.StartTime
	}
	return snapshot, nil
}
