package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateChange(id string, previous, current ec2types.InstanceStateName) ec2types.InstanceStateChange {
	return ec2types.InstanceStateChange{
		InstanceId:    aws.String(id),
		PreviousState: &ec2types.InstanceState{Name: previous},
		CurrentState:  &ec2types.InstanceState{Name: current},
	}
}

func TestStartInstances(t *testing.T) {
	mock := &mockEC2Client{
		StartInstancesFunc: func(_ context.Context, params *ec2.StartInstancesInput, _ ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
			assert.Equal(t, []string{"i-abc123"}, params.InstanceIds)
			assert.False(t, aws.ToBool(params.DryRun))
			return &ec2.StartInstancesOutput{
				StartingInstances: []ec2types.InstanceStateChange{
					stateChange("i-abc123", ec2types.InstanceStateNameStopped, ec2types.InstanceStateNamePending),
				},
			}, nil
		},
	}

	changes, err := testClient(mock).StartInstances(context.Background(), []string{"i-abc123"}, false)

	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "i-abc123", changes[0].InstanceID)
	assert.Equal(t, "stopped", changes[0].Previous)
	assert.Equal(t, "pending", changes[0].Current)
}

func TestStopInstances_NeverForced(t *testing.T) {
	mock := &mockEC2Client{
		StopInstancesFunc: func(_ context.Context, params *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
			assert.False(t, aws.ToBool(params.Force))
			return &ec2.StopInstancesOutput{
				StoppingInstances: []ec2types.InstanceStateChange{
					stateChange("i-abc123", ec2types.InstanceStateNameRunning, ec2types.InstanceStateNameStopping),
				},
			}, nil
		},
	}

	changes, err := testClient(mock).StopInstances(context.Background(), []string{"i-abc123"}, false)

	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "stopping", changes[0].Current)
}

func TestTerminateInstances(t *testing.T) {
	mock := &mockEC2Client{
		TerminateInstancesFunc: func(_ context.Context, params *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
			assert.Equal(t, []string{"i-abc123", "i-def456"}, params.InstanceIds)
			return &ec2.TerminateInstancesOutput{
				TerminatingInstances: []ec2types.InstanceStateChange{
					stateChange("i-abc123", ec2types.InstanceStateNameRunning, ec2types.InstanceStateNameShuttingDown),
					stateChange("i-def456", ec2types.InstanceStateNameStopped, ec2types.InstanceStateNameShuttingDown),
				},
			}, nil
		},
	}

	changes, err := testClient(mock).TerminateInstances(context.Background(), []string{"i-abc123", "i-def456"}, false)

	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "shutting-down", changes[0].Current)
}

func TestStartInstances_DryRunSuccess(t *testing.T) {
	mock := &mockEC2Client{
		StartInstancesFunc: func(_ context.Context, params *ec2.StartInstancesInput, _ ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
			assert.True(t, aws.ToBool(params.DryRun))
			return nil, &smithy.GenericAPIError{Code: "DryRunOperation", Message: "Request would have succeeded"}
		},
	}

	changes, err := testClient(mock).StartInstances(context.Background(), []string{"i-abc123"}, true)

	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestStopInstances_DryRunDenied(t *testing.T) {
	mock := &mockEC2Client{
		StopInstancesFunc: func(_ context.Context, _ *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "not allowed"}
		},
	}

	_, err := testClient(mock).StopInstances(context.Background(), []string{"i-abc123"}, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop instances")
}

func TestTerminateInstances_Error(t *testing.T) {
	mock := &mockEC2Client{
		TerminateInstancesFunc: func(_ context.Context, _ *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
			return nil, errors.New("boom")
		},
	}

	_, err := testClient(mock).TerminateInstances(context.Background(), []string{"i-abc123"}, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminate instances")
}
