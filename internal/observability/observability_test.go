package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/studyhub/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.PartsMaterialized.Add(3)
	m.PresetApplications.WithLabelValues(ModeAllParts).Inc()

	if got := testutil.ToFloat64(m.PartsMaterialized); got != 3 {
		t.Errorf("parts materialized = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.PresetApplications.WithLabelValues(ModeAllParts)); got != 1 {
		t.Errorf("all-parts applications = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("Expected registered metric families")
	}
}

func TestNewMetricsWithoutRegistry(t *testing.T) {
	// Two unregistered sets must not collide
	NewMetrics(nil)
	NewMetrics(nil)
}

func TestInitOTelAndSpans(t *testing.T) {
	shutdown := InitOTel(logger.Nop(), OtelConfig{ServiceName: "studyhub-test", Exporter: "none"})
	defer shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "study.test", "owner-1")
	if !span.SpanContext().IsValid() {
		t.Error("Expected a valid span context from the sdk provider")
	}
	EndSpan(span, errors.New("boom"))

	_, child := StartSpan(ctx, "study.child", "owner-1")
	EndSpan(child, nil)
}
