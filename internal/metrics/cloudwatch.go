package metrics

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "MAGDA/Harmony"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// putMetricDataAPI is the part of the CloudWatch client the metrics use
type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      putMetricDataAPI
	enabled     bool
	environment string
}

// NewClient creates a new CloudWatch metrics client
func NewClient(ctx context.Context, environment string) (*Client, error) {
	// Only enable in production
	if environment != "production" {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{
			enabled:     false,
			environment: environment,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{enabled: false, environment: environment}, nil
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)
	return newClient(cloudwatch.NewFromConfig(cfg), environment), nil
}

func newClient(api putMetricDataAPI, environment string) *Client {
	return &Client{
		client:      api,
		enabled:     true,
		environment: environment,
	}
}

// Enabled reports whether metrics are sent
func (m *Client) Enabled() bool {
	return m != nil && m.enabled
}

// RecordAPIRequest records an API request metric
func (m *Client) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	if !m.Enabled() {
		return
	}

	go m.recordAPIRequest(context.Background(), endpoint, statusCode, duration)
}

func (m *Client) recordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	metricName := "APIRequests"
	if statusCode >= httpStatusServerError {
		metricName = "APIErrors"
	}

	dimensions := m.dimensions("Endpoint", endpoint)

	if err := m.putMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions); err != nil {
		log.Printf("Failed to record %s metric: %v", metricName, err)
	}

	latencyMs := float64(duration.Milliseconds())
	if err := m.putMetric(ctx, "APILatency", latencyMs, types.StandardUnitMilliseconds, dimensions); err != nil {
		log.Printf("Failed to record APILatency metric: %v", err)
	}
}

// RecordGenerationDuration records how long a progression, rhythm, preview
// or DSL run took
func (m *Client) RecordGenerationDuration(kind string, duration time.Duration, success bool) {
	if !m.Enabled() {
		return
	}

	go m.recordGenerationDuration(context.Background(), kind, duration, success)
}

func (m *Client) recordGenerationDuration(ctx context.Context, kind string, duration time.Duration, success bool) {
	dimensions := m.dimensions("Kind", kind, "Success", strconv.FormatBool(success))

	durationMs := float64(duration.Milliseconds())
	if err := m.putMetric(ctx, "GenerationDuration", durationMs, types.StandardUnitMilliseconds, dimensions); err != nil {
		log.Printf("Failed to record GenerationDuration metric: %v", err)
	}
}

// RecordTheoryFailure counts requests rejected by the theory engine, by
// operation and error kind
func (m *Client) RecordTheoryFailure(operation, kind string) {
	if !m.Enabled() {
		return
	}

	go func() {
		dimensions := m.dimensions("Operation", operation, "Kind", kind)
		if err := m.putMetric(context.Background(), "TheoryFailures", 1, types.StandardUnitCount, dimensions); err != nil {
			log.Printf("Failed to record TheoryFailures metric: %v", err)
		}
	}()
}

// dimensions pairs up name/value arguments and adds the environment
func (m *Client) dimensions(pairs ...string) []types.Dimension {
	dimensions := make([]types.Dimension, 0, len(pairs)/2+1)
	for i := 0; i+1 < len(pairs); i += 2 {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(pairs[i]),
			Value: aws.String(pairs[i+1]),
		})
	}
	return append(dimensions, types.Dimension{
		Name:  aws.String("Environment"),
		Value: aws.String(m.environment),
	})
}

// putMetric sends a metric to CloudWatch
func (m *Client) putMetric(
	ctx context.Context,
	metricName string,
	value float64,
	unit types.StandardUnit,
	dimensions []types.Dimension,
) error {
	if !m.enabled || m.client == nil {
		return nil
	}

	// Create context with timeout for CloudWatch call
	timeout := time.Duration(cloudwatchTimeoutSeconds) * time.Second
	cwCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dimensions,
			},
		},
	})

	return err
}
