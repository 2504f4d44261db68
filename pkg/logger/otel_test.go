/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOTelConfig(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-team = sre, bad, x-env=dev")

	config := DefaultOTelConfig()

	if config.ServiceName != defaultServiceName {
		t.Errorf("Expected default service name, got %q", config.ServiceName)
	}

	if len(config.Headers) != 2 || config.Headers["x-team"] != "sre" || config.Headers["x-env"] != "dev" {
		t.Errorf("Unexpected headers %v", config.Headers)
	}
}

func TestOTelConfigActive(t *testing.T) {
	var nilConfig *OTelConfig

	if nilConfig.Active() {
		t.Error("nil config must be inactive")
	}

	if (&OTelConfig{Enabled: true}).Active() {
		t.Error("config without endpoint must be inactive")
	}

	if !(&OTelConfig{Enabled: true, Endpoint: "localhost:4317"}).Active() {
		t.Error("enabled config with endpoint must be active")
	}
}

func TestInitializeMetricsDisabled(t *testing.T) {
	provider, err := InitializeMetrics(context.Background(), MetricsConfig{OTel: &OTelConfig{}})
	if !errors.Is(err, ErrOTelMetricsDisabled) {
		t.Fatalf("Expected ErrOTelMetricsDisabled, got %v", err)
	}

	if provider != nil {
		t.Error("Provider should be nil when metrics are disabled")
	}
}

func TestInitializeTracingWithoutExporter(t *testing.T) {
	tp, err := InitializeTracing(context.Background(), TracingConfig{ServiceName: "signalsentry-test"})
	if err != nil {
		t.Fatalf("Failed to initialize tracing: %v", err)
	}

	_, span := GetTracer("test").Start(context.Background(), "op")
	if !span.SpanContext().IsValid() {
		t.Error("Expected a recording span with a valid context")
	}

	span.End()

	if tp == nil {
		t.Fatal("Tracer provider should not be nil")
	}

	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestSetupTLSConfigBadCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte("not a cert"), 0o600); err != nil {
		t.Fatalf("Failed to write CA file: %v", err)
	}

	if _, err := setupTLSConfig(&TLSConfig{CAFile: path}); !errors.Is(err, errFailedToParseCACert) {
		t.Errorf("Expected errFailedToParseCACert, got %v", err)
	}
}

func TestSetupTLSConfigMissingCA(t *testing.T) {
	if _, err := setupTLSConfig(&TLSConfig{CAFile: "/nonexistent/ca.pem"}); err == nil {
		t.Error("Expected error for missing CA file")
	}
}
