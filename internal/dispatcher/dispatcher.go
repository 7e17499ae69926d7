// Package dispatcher runs Paubox operations over an ordered list of input
// items, one API request per item, and pairs every output with the item
// that produced it.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sungwon/paubox-connector/internal/logger"
	"github.com/sungwon/paubox-connector/internal/metrics"
	"github.com/sungwon/paubox-connector/internal/params"
	"github.com/sungwon/paubox-connector/internal/paubox"
)

// Operation names a dispatcher operation on the message resource.
type Operation string

const (
	OperationSend           Operation = "send"
	OperationGetDisposition Operation = "getDisposition"
)

// ParseOperation validates name. An empty name selects send.
func ParseOperation(name string) (Operation, error) {
	switch Operation(name) {
	case "", OperationSend:
		return OperationSend, nil
	case OperationGetDisposition:
		return OperationGetDisposition, nil
	}
	return "", &params.Error{Name: "operation", Reason: fmt.Sprintf("must be send or getDisposition, got %q", name)}
}

// API is the subset of the Paubox client the dispatcher calls.
type API interface {
	SendMessage(ctx context.Context, body *paubox.SendRequest) (json.RawMessage, error)
	GetDisposition(ctx context.Context, sourceTrackingID string) (json.RawMessage, error)
}

// Execution is one run of an operation over a list of items.
type Execution struct {
	Operation Operation
	Items     []params.Parameters
	// ContinueOnFail records item failures as error outputs instead of
	// aborting the remaining items.
	ContinueOnFail bool
}

// PairedItem links an output back to its input item.
type PairedItem struct {
	Item int `json:"item"`
}

// Output is one record of the output stream.
type Output struct {
	JSON       json.RawMessage `json:"json"`
	PairedItem PairedItem      `json:"pairedItem"`
}

// Result is the outcome of a single item: the API response or an error.
type Result struct {
	Index    int
	Response json.RawMessage
	Err      error
}

// Output converts r into an output record. A failed result becomes
// {"error": message}.
func (r Result) Output() Output {
	body := r.Response
	if r.Err != nil {
		body, _ = paubox.Encode(map[string]string{"error": r.Err.Error()})
	}
	return Output{JSON: body, PairedItem: PairedItem{Item: r.Index}}
}

// Dispatcher executes operations sequentially against the Paubox API.
type Dispatcher struct {
	api API
	log zerolog.Logger
}

// New creates a Dispatcher that calls api.
func New(api API, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		api: api,
		log: log,
	}
}

// Execute processes exec.Items in order, one request at a time. With
// ContinueOnFail every item yields exactly one output. Otherwise the first
// failure stops the run and is returned together with the outputs already
// produced. Context cancellation always stops the run.
func (d *Dispatcher) Execute(ctx context.Context, exec Execution) ([]Output, error) {
	op, err := ParseOperation(string(exec.Operation))
	if err != nil {
		return nil, attachIndex(0, err)
	}

	log := logger.FromContext(ctx, d.log).With().Str("operation", string(op)).Logger()
	log.Debug().Int("items", len(exec.Items)).Bool("continue_on_fail", exec.ContinueOnFail).Msg("execution started")

	outputs := make([]Output, 0, len(exec.Items))
	for i, item := range exec.Items {
		if err := ctx.Err(); err != nil {
			metrics.ExecutionsTotal.WithLabelValues(string(op), "aborted").Inc()
			return outputs, err
		}

		res := d.HandleItem(ctx, op, i, item)
		if res.Err != nil {
			metrics.ItemsProcessedTotal.WithLabelValues(string(op), "error").Inc()
			event := log.Warn()
			if !exec.ContinueOnFail {
				event = log.Error()
			}
			event = event.Err(res.Err).Int("item_index", i)
			if code := paubox.StatusCode(res.Err); code != 0 {
				event = event.Int("status", code).Bool("permanent", paubox.IsPermanent(res.Err))
			}
			event.Msg("item failed")

			if !exec.ContinueOnFail {
				metrics.ExecutionsTotal.WithLabelValues(string(op), "aborted").Inc()
				return outputs, res.Err
			}
		} else {
			metrics.ItemsProcessedTotal.WithLabelValues(string(op), "success").Inc()
			log.Debug().Int("item_index", i).Msg("item processed")
		}

		outputs = append(outputs, res.Output())
	}

	metrics.ExecutionsTotal.WithLabelValues(string(op), "completed").Inc()
	log.Info().Int("items", len(exec.Items)).Msg("execution completed")
	return outputs, nil
}

// HandleItem runs op for the item at index and captures the outcome.
// Errors are tagged with index.
func (d *Dispatcher) HandleItem(ctx context.Context, op Operation, index int, item params.Parameters) Result {
	resp, err := d.handle(ctx, op, item)
	if err != nil {
		return Result{Index: index, Err: attachIndex(index, err)}
	}
	return Result{Index: index, Response: resp}
}

func (d *Dispatcher) handle(ctx context.Context, op Operation, item params.Parameters) (json.RawMessage, error) {
	switch op {
	case OperationSend:
		s, err := params.ParseSend(item)
		if err != nil {
			return nil, err
		}
		body, err := BuildSendRequest(s)
		if err != nil {
			return nil, err
		}
		return d.call(op, func() (json.RawMessage, error) {
			return d.api.SendMessage(ctx, body)
		})

	case OperationGetDisposition:
		q, err := params.ParseDisposition(item)
		if err != nil {
			return nil, err
		}
		return d.call(op, func() (json.RawMessage, error) {
			return d.api.GetDisposition(ctx, q.SourceTrackingID)
		})
	}
	return nil, &params.Error{Name: "operation", Reason: fmt.Sprintf("is not supported: %q", op)}
}

// call times one API request and counts its failure.
func (d *Dispatcher) call(op Operation, fn func() (json.RawMessage, error)) (json.RawMessage, error) {
	start := time.Now()
	resp, err := fn()
	metrics.APIRequestDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
	if err != nil {
		status := "network"
		if code := paubox.StatusCode(err); code != 0 {
			status = strconv.Itoa(code)
		}
		metrics.APIErrorsTotal.WithLabelValues(string(op), status).Inc()
		return nil, err
	}
	return resp, nil
}
