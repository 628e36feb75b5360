package tags

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/vahti/pkg/instance"
)

func TestExtract_NoTags(t *testing.T) {
	result := Extract(nil)

	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestExtract_SkipsUnsetValues(t *testing.T) {
	ec2Tags := []ec2types.Tag{
		{Key: aws.String("Name"), Value: aws.String("web-1")},
		{Key: aws.String("Orphan"), Value: nil},
	}

	result := Extract(ec2Tags)

	assert.Equal(t, "web-1", result["Name"])
	assert.NotContains(t, result, "Orphan")
}

func TestExtract_DuplicateKeysLastWins(t *testing.T) {
	ec2Tags := []ec2types.Tag{
		{Key: aws.String("Team"), Value: aws.String("platform")},
		{Key: aws.String("Team"), Value: aws.String("infra")},
	}

	result := Extract(ec2Tags)

	assert.Equal(t, "infra", result["Team"])
}

func TestExtract_Pure(t *testing.T) {
	ec2Tags := []ec2types.Tag{
		{Key: aws.String("Name"), Value: aws.String("web-1")},
		{Key: aws.String("Environment"), Value: aws.String("prod")},
	}

	first := Extract(ec2Tags)
	second := Extract(ec2Tags)

	assert.Equal(t, first, second)
}

func TestAnyMatch_SubstringSearch(t *testing.T) {
	criteria := Criteria{"Environment": "prod"}

	// Unanchored pattern matches as a substring.
	assert.True(t, criteria.AnyMatch(map[string]string{"Environment": "preprod"}))
	assert.False(t, criteria.AnyMatch(map[string]string{"Environment": "staging"}))
}

func TestAnyMatch_EmptyValueNeverMatches(t *testing.T) {
	criteria := Criteria{"Owner": ".*"}

	assert.False(t, criteria.AnyMatch(map[string]string{"Owner": ""}))
	assert.False(t, criteria.AnyMatch(map[string]string{}))
}

func TestAnyMatch_InvalidPatternIsNonMatch(t *testing.T) {
	criteria := Criteria{"Owner": "(unclosed"}

	assert.False(t, criteria.AnyMatch(map[string]string{"Owner": "alice"}))
}

func rawInstance(id string, kv ...string) ec2types.Instance {
	inst := ec2types.Instance{InstanceId: aws.String(id)}
	for i := 0; i+1 < len(kv); i += 2 {
		inst.Tags = append(inst.Tags, ec2types.Tag{
			Key:   aws.String(kv[i]),
			Value: aws.String(kv[i+1]),
		})
	}
	return inst
}

func TestFindUntagged_AnchoredPattern(t *testing.T) {
	criteria := Criteria{"Environment": "^prod$"}

	staging := rawInstance("i-staging", "Environment", "staging", "Name", "web-staging")
	prod := rawInstance("i-prod", "Environment", "prod")

	untagged := FindUntagged(criteria, []ec2types.Instance{staging, prod})

	require.Len(t, untagged, 1)
	assert.Equal(t, "i-staging", untagged[0].InstanceID)
	assert.Equal(t, "web-staging", untagged[0].Name)
}

func TestFindUntagged_OrSemantics(t *testing.T) {
	// One matching criterion is enough: Team matches, Owner is missing.
	criteria := Criteria{"Owner": ".*", "Team": ".*"}

	inst := rawInstance("i-team-only", "Team", "infra")

	untagged := FindUntagged(criteria, []ec2types.Instance{inst})

	assert.Empty(t, untagged)
}

func TestFindUntagged_NoTagsAlwaysReported(t *testing.T) {
	criteria := Criteria{"Owner": ".*"}

	inst := ec2types.Instance{InstanceId: aws.String("i-bare")}

	untagged := FindUntagged(criteria, []ec2types.Instance{inst})

	require.Len(t, untagged, 1)
	assert.Equal(t, "i-bare", untagged[0].InstanceID)
	assert.Equal(t, "", untagged[0].Name)
}

func TestFindUntagged_OrderPreserved(t *testing.T) {
	criteria := Criteria{"Owner": ".*"}

	a := rawInstance("i-a")
	b := rawInstance("i-b", "Owner", "alice")
	c := rawInstance("i-c")

	untagged := FindUntagged(criteria, []ec2types.Instance{a, b, c})

	require.Len(t, untagged, 2)
	assert.Equal(t, "i-a", untagged[0].InstanceID)
	assert.Equal(t, "i-c", untagged[1].InstanceID)
}

func TestFindUntaggedInstances(t *testing.T) {
	criteria := Criteria{"Environment": "^prod$"}

	instances := []instance.Instance{
		{ID: "i-1", Tags: map[string]string{"Environment": "prod"}},
		{ID: "i-2", Tags: map[string]string{"Environment": "dev", "Name": "dev-box"}},
		{ID: "i-3", Tags: map[string]string{}},
	}

	untagged := FindUntaggedInstances(criteria, instances)

	require.Len(t, untagged, 2)
	assert.Equal(t, "i-2", untagged[0].InstanceID)
	assert.Equal(t, "dev-box", untagged[0].Name)
	assert.Equal(t, "i-3", untagged[1].InstanceID)
}
