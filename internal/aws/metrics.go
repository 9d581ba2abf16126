package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsEmitter publishes operational counters to CloudWatch. Emission is
// informational only; callers treat failures as non-fatal.
type MetricsEmitter struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetricsEmitter returns an emitter publishing under the given namespace.
func NewMetricsEmitter(cw CloudWatchAPI, namespace string) *MetricsEmitter {
	return &MetricsEmitter{
		CloudWatch: cw,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// EmitCounts publishes one Count datum per entry in counts.
func (m *MetricsEmitter) EmitCounts(ctx context.Context, counts map[string]float64) error {
	if len(counts) == 0 {
		return nil
	}
	now := m.nowFunc()
	data := make([]cwtypes.MetricDatum, 0, len(counts))
	for name, value := range counts {
		n := name
		v := value
		data = append(data, cwtypes.MetricDatum{
			MetricName: &n,
			Value:      &v,
			Unit:       cwtypes.StandardUnitCount,
			Timestamp:  &now,
		})
	}

	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &m.Namespace,
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
