package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter      metric.Int64Counter
	RequestDuration     metric.Float64Histogram
	TokensUsed          metric.Int64Counter
	PDFProcessingTime   metric.Float64Histogram
	ChunksStored        metric.Int64Counter
	RetrievalCounter    metric.Int64Counter
	CircuitBreakerState metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("lecture-rag-backend")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	tokensUsed, err := meter.Int64Counter(
		"gemini.tokens.used",
		metric.WithDescription("Total Gemini tokens used"),
	)
	if err != nil {
		return nil, err
	}

	pdfProcessingTime, err := meter.Float64Histogram(
		"pdf.processing.duration",
		metric.WithDescription("PDF processing duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	chunksStored, err := meter.Int64Counter(
		"vectorstore.chunks.stored",
		metric.WithDescription("Total chunks written to the vector store"),
	)
	if err != nil {
		return nil, err
	}

	retrievalCounter, err := meter.Int64Counter(
		"vectorstore.searches.total",
		metric.WithDescription("Total similarity searches"),
	)
	if err != nil {
		return nil, err
	}

	circuitBreakerState, err := meter.Int64Counter(
		"circuit_breaker.state_changes",
		metric.WithDescription("Circuit breaker state changes"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:      requestCounter,
		RequestDuration:     requestDuration,
		TokensUsed:          tokensUsed,
		PDFProcessingTime:   pdfProcessingTime,
		ChunksStored:        chunksStored,
		RetrievalCounter:    retrievalCounter,
		CircuitBreakerState: circuitBreakerState,
	}, nil
}

// RecordRequest records an HTTP request metric
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", status),
	)
	m.RequestCounter.Add(context.Background(), 1, attrs)
	m.RequestDuration.Record(context.Background(), duration, attrs)
}

// RecordProcessing records a PDF processing run
func (m *Metrics) RecordProcessing(duration float64, chunks int) {
	if m == nil {
		return
	}
	m.PDFProcessingTime.Record(context.Background(), duration)
	m.ChunksStored.Add(context.Background(), int64(chunks))
}

// RecordTokens records Gemini token consumption
func (m *Metrics) RecordTokens(model string, tokens int) {
	if m == nil || tokens <= 0 {
		return
	}
	m.TokensUsed.Add(context.Background(), int64(tokens),
		metric.WithAttributes(attribute.String("model", model)))
}

// RecordRetrieval counts a similarity search against a store backend
func (m *Metrics) RecordRetrieval(backend string) {
	if m == nil {
		return
	}
	m.RetrievalCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("backend", backend)))
}

// RecordBreakerChange counts a circuit breaker state transition
func (m *Metrics) RecordBreakerChange(name, from, to string) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("breaker", name),
			attribute.String("from", from),
			attribute.String("to", to),
		))
}
