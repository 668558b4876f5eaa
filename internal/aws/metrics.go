package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the workflow service.
const (
	MetricConflictRetries  = "ConflictRetries"
	MetricRequestsCreated  = "RequestsCreated"
	MetricRequestsResolved = "RequestsResolved"
	MetricOrdersCancelled  = "OrdersCancelled"
)

// Recorder publishes counters to CloudWatch. A nil Recorder (or nil client)
// is a no-op, so callers never have to guard metric emission.
type Recorder struct {
	CW        CloudWatchAPI
	Namespace string
}

// NewRecorder returns a Recorder bound to a namespace.
func NewRecorder(cw CloudWatchAPI, namespace string) *Recorder {
	return &Recorder{CW: cw, Namespace: namespace}
}

// Count publishes a single count datum. Errors are returned for the caller to
// log; metric failures must never fail the operation that emitted them.
func (r *Recorder) Count(ctx context.Context, name string, value float64) error {
	if r == nil || r.CW == nil {
		return nil
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: &r.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Value:      &value,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	}
	if _, err := r.CW.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
