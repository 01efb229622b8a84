package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (f *fakeCloudWatch) metricNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, in := range f.inputs {
		for _, d := range in.MetricData {
			names = append(names, aws.ToString(d.MetricName))
		}
	}
	return names
}

func TestNewClientDisabledOutsideProduction(t *testing.T) {
	client, err := NewClient(context.Background(), "development")
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	// no-ops when disabled
	client.RecordAPIRequest("/health", 200, time.Millisecond)
	client.RecordGenerationDuration("rhythm", time.Millisecond, true)
	client.RecordTheoryFailure("chords", "music_theory")
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		status int
		want   []string
	}{
		{200, []string{"APIRequests", "APILatency"}},
		{422, []string{"APIRequests", "APILatency"}},
		{500, []string{"APIErrors", "APILatency"}},
	}

	for _, tt := range tests {
		fake := &fakeCloudWatch{}
		client := newClient(fake, "production")
		client.recordAPIRequest(context.Background(), "/api/v1/theory/chords", tt.status, 12*time.Millisecond)
		assert.Equal(t, tt.want, fake.metricNames(), "status %d", tt.status)
		assert.Equal(t, namespace, aws.ToString(fake.inputs[0].Namespace))
	}
}

func TestRecordGenerationDurationDimensions(t *testing.T) {
	fake := &fakeCloudWatch{}
	client := newClient(fake, "production")
	client.recordGenerationDuration(context.Background(), "progression", 40*time.Millisecond, false)

	require.Len(t, fake.inputs, 1)
	datum := fake.inputs[0].MetricData[0]
	assert.Equal(t, "GenerationDuration", aws.ToString(datum.MetricName))
	assert.InDelta(t, 40.0, aws.ToFloat64(datum.Value), 1e-9)

	dims := map[string]string{}
	for _, d := range datum.Dimensions {
		dims[aws.ToString(d.Name)] = aws.ToString(d.Value)
	}
	assert.Equal(t, map[string]string{"Kind": "progression", "Success": "false", "Environment": "production"}, dims)
}

func TestRecordTheoryFailure(t *testing.T) {
	fake := &fakeCloudWatch{}
	client := newClient(fake, "production")
	client.RecordTheoryFailure("keys", "invalid_key")

	assert.Eventually(t, func() bool {
		return len(fake.metricNames()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"TheoryFailures"}, fake.metricNames())
}
