package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/yairfalse/vahti/internal/tags"
	"github.com/yairfalse/vahti/pkg/instance"
)

// ListQuery narrows a DescribeInstances call.
// All fields are optional; an empty query lists everything.
type ListQuery struct {
	States   []string          // instance-state-name values
	IDs      []string          // exact instance IDs
	TagKey   string            // single tag filter: tag:<key>
	TagValue string            // value for TagKey, "" means any ("*")
	Filters  []ec2types.Filter // prepared filters, appended as-is
}

func (q ListQuery) filters() []ec2types.Filter {
	var filters []ec2types.Filter

	if q.TagKey != "" {
		value := q.TagValue
		if value == "" {
			value = "*"
		}
		filters = append(filters, ec2types.Filter{
			Name:   aws.String("tag:" + q.TagKey),
			Values: []string{value},
		})
	}

	filters = append(filters, q.Filters...)

	if len(q.States) > 0 {
		filters = append(filters, ec2types.Filter{
			Name:   aws.String("instance-state-name"),
			Values: q.States,
		})
	}

	return filters
}

// ListInstances describes instances matching the query and returns them
// normalized, reservations flattened, in API order.
func (c *Client) ListInstances(ctx context.Context, query ListQuery) ([]instance.Instance, error) {
	raw, err := c.ListRawInstances(ctx, query)
	if err != nil {
		return nil, err
	}

	instances := make([]instance.Instance, 0, len(raw))
	for _, inst := range raw {
		instances = append(instances, convertInstance(inst))
	}
	return instances, nil
}

// ListRawInstances is ListInstances without normalization, for callers that
// feed raw records into the report filter.
func (c *Client) ListRawInstances(ctx context.Context, query ListQuery) ([]ec2types.Instance, error) {
	input := &ec2.DescribeInstancesInput{}
	if len(query.IDs) > 0 {
		input.InstanceIds = query.IDs
	}
	if filters := query.filters(); len(filters) > 0 {
		input.Filters = filters
	}

	var raw []ec2types.Instance
	var nextToken *string

	for {
		input.NextToken = nextToken
		output, err := c.ec2Client.DescribeInstances(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("describe instances: %w", err)
		}

		for _, reservation := range output.Reservations {
			raw = append(raw, reservation.Instances...)
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return raw, nil
}

func convertInstance(inst ec2types.Instance) instance.Instance {
	tagMap := tags.Extract(inst.Tags)

	result := instance.Instance{
		ID:        aws.ToString(inst.InstanceId),
		Name:      tagMap["Name"],
		Type:      string(inst.InstanceType),
		PrivateIP: aws.ToString(inst.PrivateIpAddress),
		PublicIP:  aws.ToString(inst.PublicIpAddress),
		Tags:      tagMap,
	}
	if inst.State != nil {
		result.State = string(inst.State.Name)
	}
	if inst.Placement != nil {
		result.AZ = aws.ToString(inst.Placement.AvailabilityZone)
	}
	if inst.LaunchTime != nil {
		result.LaunchTime = *inst.LaunchTime
	}
	return result
}
