package telemetry

import "testing"

func TestMetricsNilReceiverSafe(t *testing.T) {
	var m *Metrics

	// Instruments are optional; a nil Metrics must be a no-op everywhere.
	m.RecordRequest("GET", "/ask", "success", 0.1)
	m.RecordProcessing(1.5, 3)
	m.RecordTokens("gemini-2.0-flash", 42)
	m.RecordRetrieval("memory")
	m.RecordBreakerChange("GeminiAPI", "closed", "open")
}

func TestInitMetricsRegistersInstruments(t *testing.T) {
	m, err := InitMetrics()
	if err != nil {
		t.Fatalf("init error: %v", err)
	}

	if m.RequestCounter == nil || m.RequestDuration == nil {
		t.Error("request instruments not registered")
	}
	if m.TokensUsed == nil || m.RetrievalCounter == nil || m.CircuitBreakerState == nil {
		t.Error("usage instruments not registered")
	}
	if m.PDFProcessingTime == nil || m.ChunksStored == nil {
		t.Error("processing instruments not registered")
	}

	// Recording against the global no-op meter must not panic.
	m.RecordTokens("gemini-2.0-flash", 10)
	m.RecordRetrieval("mongo")
	m.RecordBreakerChange("GeminiAPI", "open", "half-open")
	m.RecordRequest("POST", "/process", "error", 0.2)
	m.RecordProcessing(0.4, 2)
}
