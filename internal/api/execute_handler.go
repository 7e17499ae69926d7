package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sungwon/paubox-connector/internal/auth"
	"github.com/sungwon/paubox-connector/internal/dispatcher"
	"github.com/sungwon/paubox-connector/internal/logger"
	"github.com/sungwon/paubox-connector/internal/params"
)

// maxExecuteBody bounds the request size; attachments travel base64-encoded
// inside items.
const maxExecuteBody = 32 << 20

// Executor runs a dispatcher execution.
type Executor interface {
	Execute(ctx context.Context, exec dispatcher.Execution) ([]dispatcher.Output, error)
}

type executeRequest struct {
	Operation      string              `json:"operation"`
	ContinueOnFail *bool               `json:"continueOnFail"`
	Items          []params.Parameters `json:"items"`
}

type executeResponse struct {
	ExecutionID string              `json:"executionId"`
	Items       []dispatcher.Output `json:"items"`
	Error       *executeError       `json:"error,omitempty"`
}

type executeError struct {
	Message   string `json:"message"`
	ItemIndex *int   `json:"itemIndex,omitempty"`
}

// ExecuteHandler handles POST /api/v1/execute.
// It runs the requested operation over the posted items and returns one
// output per processed item. When the run aborts, the outputs produced so
// far are returned together with the error.
func ExecuteHandler(exec Executor, continueOnFailDefault bool, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req executeRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxExecuteBody))
		if err := dec.Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		op, err := dispatcher.ParseOperation(req.Operation)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		continueOnFail := continueOnFailDefault
		if req.ContinueOnFail != nil {
			continueOnFail = *req.ContinueOnFail
		}

		executionID := uuid.New().String()
		ctx := r.Context()
		reqLog := log.With().
			Str("execution_id", executionID).
			Str("subject", auth.SubjectFromContext(ctx)).
			Logger()
		ctx = logger.WithLogger(ctx, reqLog)

		outputs, err := exec.Execute(ctx, dispatcher.Execution{
			Operation:      op,
			Items:          req.Items,
			ContinueOnFail: continueOnFail,
		})
		if outputs == nil {
			outputs = []dispatcher.Output{}
		}

		resp := executeResponse{ExecutionID: executionID, Items: outputs}
		if err != nil {
			resp.Error = &executeError{Message: err.Error()}
			if idx, ok := dispatcher.ItemIndex(err); ok {
				resp.Error.ItemIndex = &idx
			}
			respondJSON(w, statusForError(err), resp)
			return
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

func statusForError(err error) int {
	var te *dispatcher.TransportError
	switch {
	case errors.As(err, &te):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusUnprocessableEntity
}
