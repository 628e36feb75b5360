// Package aws wraps the EC2 and Route53 operations Vahti needs.
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/smithy-go"
)

// Client holds the AWS service clients. Clients are injected, never looked
// up from ambient state, so tests can swap in mocks.
type Client struct {
	region        string
	ec2Client     EC2API
	route53Client Route53API
}

// Config holds client configuration.
type Config struct {
	Region string
}

// New creates a client from the default AWS credential chain.
func New(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Client{
		region:        cfg.Region,
		ec2Client:     ec2.NewFromConfig(awsCfg),
		route53Client: route53.NewFromConfig(awsCfg),
	}, nil
}

// NewWithClients creates a client with pre-built service clients.
func NewWithClients(region string, ec2Client EC2API, route53Client Route53API) *Client {
	return &Client{
		region:        region,
		ec2Client:     ec2Client,
		route53Client: route53Client,
	}
}

// Region returns the configured region.
func (c *Client) Region() string {
	return c.region
}

// isDryRunSuccess reports whether err is the DryRunOperation API error,
// which AWS returns when a dry run would have succeeded.
func isDryRunSuccess(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "DryRunOperation"
	}
	return false
}
