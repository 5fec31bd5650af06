package loadgen

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/pkg/logger"
	"github.com/okian/elo/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"
)

// verdict classifies one server answer.
type verdict int

const (
	verdictOK verdict = iota
	verdictRejected
	verdictFailed
	verdictMismatch
)

// verifier recomputes matches locally with the same rating service the
// server runs.
type verifier struct {
	svc *service.Service
}

func newVerifier() *verifier {
	return &verifier{svc: service.New(
		service.WithLogger(logger.NewNop()),
		service.WithTracer(noop.NewTracerProvider().Tracer("loadgen")),
		service.WithMetrics(metrics.NewManager(
			metrics.WithMetricsEnabled(false),
			metrics.WithPrometheusRegistry(prometheus.NewRegistry()),
		)),
	)}
}

// check compares the server's answer for req with a local calculation.
// The returned string describes a mismatch.
func (v *verifier) check(ctx context.Context, req service.Request, got answer) (verdict, string) {
	if got.Err != nil {
		return verdictFailed, got.Err.Error()
	}

	want, err := v.svc.Calculate(ctx, req)
	if err != nil {
		code := service.Reason(err)
		if got.Code == code {
			return verdictRejected, ""
		}
		return verdictMismatch, fmt.Sprintf("want error %q, got code %q", code, got.Code)
	}

	if got.Code != "" {
		return verdictMismatch, fmt.Sprintf("want results, got error %q", got.Code)
	}
	if diff := cmp.Diff(want.Results, got.Results); diff != "" {
		return verdictMismatch, "results differ (-want +got):\n" + diff
	}
	return verdictOK, ""
}
