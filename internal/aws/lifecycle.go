package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/vahti/pkg/instance"
)

// StartInstances starts the given instances. With dryRun set, a would-have-
// succeeded dry run returns nil transitions and no error.
func (c *Client) StartInstances(ctx context.Context, instanceIDs []string, dryRun bool) ([]instance.StateChange, error) {
	output, err := c.ec2Client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: instanceIDs,
		DryRun:      aws.Bool(dryRun),
	})
	if err != nil {
		if dryRun && isDryRunSuccess(err) {
			log.Debug().Strs("instance_ids", instanceIDs).Msg("start dry run ok")
			return nil, nil
		}
		return nil, fmt.Errorf("start instances: %w", err)
	}

	return convertStateChanges(output.StartingInstances), nil
}

// StopInstances stops the given instances. Force is never set.
func (c *Client) StopInstances(ctx context.Context, instanceIDs []string, dryRun bool) ([]instance.StateChange, error) {
	output, err := c.ec2Client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: instanceIDs,
		DryRun:      aws.Bool(dryRun),
		Force:       aws.Bool(false),
	})
	if err != nil {
		if dryRun && isDryRunSuccess(err) {
			log.Debug().Strs("instance_ids", instanceIDs).Msg("stop dry run ok")
			return nil, nil
		}
		return nil, fmt.Errorf("stop instances: %w", err)
	}

	return convertStateChanges(output.StoppingInstances), nil
}

// TerminateInstances terminates the given instances.
func (c *Client) TerminateInstances(ctx context.Context, instanceIDs []string, dryRun bool) ([]instance.StateChange, error) {
	output, err := c.ec2Client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: instanceIDs,
		DryRun:      aws.Bool(dryRun),
	})
	if err != nil {
		if dryRun && isDryRunSuccess(err) {
			log.Debug().Strs("instance_ids", instanceIDs).Msg("terminate dry run ok")
			return nil, nil
		}
		return nil, fmt.Errorf("terminate instances: %w", err)
	}

	return convertStateChanges(output.TerminatingInstances), nil
}

func convertStateChanges(changes []ec2types.InstanceStateChange) []instance.StateChange {
	result := make([]instance.StateChange, 0, len(changes))
	for _, change := range changes {
		sc := instance.StateChange{InstanceID: aws.ToString(change.InstanceId)}
		if change.PreviousState != nil {
			sc.Previous = string(change.PreviousState.Name)
		}
		if change.CurrentState != nil {
			sc.Current = string(change.CurrentState.Name)
		}
		result = append(result, sc)
	}
	return result
}
