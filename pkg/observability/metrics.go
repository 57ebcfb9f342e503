package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics publishes workflow metrics to CloudWatch
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger
}

// NewMetrics creates a new metrics instance. A nil client disables publishing.
func NewMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordCommandExecution records duration and outcome of a workflow command
func (m *Metrics) RecordCommandExecution(ctx context.Context, commandName string, duration time.Duration, err error) {
	if m.client == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}

	dimensions := []types.Dimension{
		{
			Name:  aws.String("CommandName"),
			Value: aws.String(commandName),
		},
		{
			Name:  aws.String("Status"),
			Value: aws.String(status),
		},
	}

	metricData := []types.MetricDatum{
		{
			MetricName: aws.String("CommandExecution"),
			Dimensions: dimensions,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(time.Now()),
		},
		{
			MetricName: aws.String("CommandCount"),
			Dimensions: dimensions,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(time.Now()),
		},
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: metricData,
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		// Metrics publishing never fails the operation
		m.logger.Warn("Failed to publish metrics", zap.Error(err))
	}
}
