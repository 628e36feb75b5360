package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSnapshot(t *testing.T) {
	started := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)

	mock := &mockEC2Client{
		CreateSnapshotFunc: func(_ context.Context, params *ec2.CreateSnapshotInput, _ ...func(*ec2.Options)) (*ec2.CreateSnapshotOutput, error) {
			assert.Equal(t, "vol-abc123", aws.ToString(params.VolumeId))
			assert.Equal(t, "nightly backup", aws.ToString(params.Description))

			require.Len(t, params.TagSpecifications, 1)
			spec := params.TagSpecifications[0]
			assert.Equal(t, ec2types.ResourceTypeSnapshot, spec.ResourceType)
			require.Len(t, spec.Tags, 1)
			assert.Equal(t, "Name", aws.ToString(spec.Tags[0].Key))
			assert.Equal(t, "web-1-nightly", aws.ToString(spec.Tags[0].Value))

			return &ec2.CreateSnapshotOutput{
				SnapshotId:  aws.String("snap-xyz789"),
				VolumeId:    params.VolumeId,
				State:       ec2types.SnapshotStatePending,
				Description: params.Description,
				StartTime:   &started,
			}, nil
		},
	}

	snapshot, err := testClient(mock).CreateSnapshot(context.Background(), "vol-abc123", "web-1-nightly", "nightly backup")

	require.NoError(t, err)
	assert.Equal(t, "snap-xyz789", snapshot.ID)
	assert.Equal(t, "vol-abc123", snapshot.VolumeID)
	assert.Equal(t, "pending", snapshot.State)
	assert.Equal(t, "nightly backup", snapshot.Description)
	assert.Equal(t, started, snapshot.StartTime)
}

func TestCreateSnapshot_Error(t *testing.T) {
	mock := &mockEC2Client{
		CreateSnapshotFunc: func(_ context.Context, _ *ec2.CreateSnapshotInput, _ ...func(*ec2.Options)) (*ec2.CreateSnapshotOutput, error) {
			return nil, errors.New("volume not found")
		},
	}

	_, err := testClient(mock).CreateSnapshot(context.Background(), "vol-missing", "name", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "vol-missing")
	assert.Contains(t, err.Error(), "volume not found")
}
