// Package tags implements tag extraction and the untagged-instance report.
package tags

import (
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/yairfalse/vahti/pkg/instance"
)

// Criteria maps a tag name to a regex pattern. An instance whose tag value
// matches the pattern is considered tagged for that criterion.
type Criteria map[string]string

// Extract builds a tag map from raw EC2 tags.
// Tags with an unset value are skipped; duplicate keys are last-write-wins.
func Extract(ec2Tags []ec2types.Tag) map[string]string {
	result := make(map[string]string)
	for _, tag := range ec2Tags {
		if tag.Value == nil {
			continue
		}
		result[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return result
}

// AnyMatch reports whether any single criterion matches the tag map.
// This is a disjunction: one matching criterion is enough to count the
// instance as tagged. A missing tag, empty value, or invalid pattern is a
// non-match for that criterion, never an error.
func (c Criteria) AnyMatch(tagMap map[string]string) bool {
	for tagName, pattern := range c {
		value := tagMap[tagName]
		if value == "" {
			continue
		}
		// Substring search, not a full match.
		matched, err := regexp.MatchString(pattern, value)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// FindUntaggedInstances is FindUntagged over already-normalized instances.
func FindUntaggedInstances(criteria Criteria, instances []instance.Instance) []instance.Untagged {
	var untagged []instance.Untagged
	for _, inst := range instances {
		if criteria.AnyMatch(inst.Tags) {
			continue
		}
		untagged = append(untagged, instance.Untagged{
			InstanceID: inst.ID,
			Name:       inst.Tags["Name"],
		})
	}
	return untagged
}

// FindUntagged returns a report row for every instance matching none of the
// criteria. Output order follows input order.
func FindUntagged(criteria Criteria, instances []ec2types.Instance) []instance.Untagged {
	var untagged []instance.Untagged
	for _, inst := range instances {
		tagMap := Extract(inst.Tags)
		if criteria.AnyMatch(tagMap) {
			continue
		}
		untagged = append(untagged, instance.Untagged{
			InstanceID: aws.ToString(inst.InstanceId),
			Name:       tagMap["Name"],
		})
	}
	return untagged
}
