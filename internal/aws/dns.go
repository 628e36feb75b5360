package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// DeleteRecordSet deletes an A record from a hosted zone. Route53 requires
// the DELETE change to match the existing record exactly, including TTL and
// value.
func (c *Client) DeleteRecordSet(ctx context.Context, zoneID, recordName, recordValue string, ttl int64) error {
	_, err := c.route53Client.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Comment: aws.String("Remove Record Set"),
			Changes: []r53types.Change{
				{
					Action: r53types.ChangeActionDelete,
					ResourceRecordSet: &r53types.ResourceRecordSet{
						Name: aws.String(recordName),
						Type: r53types.RRTypeA,
						TTL:  aws.Int64(ttl),
						ResourceRecords: []r53types.ResourceRecord{
							{Value: aws.String(recordValue)},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("delete record set %s in zone %s: %w", recordName, zoneID, err)
	}
	return nil
}
