package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/monowai/beancounter-sub001/internal/application/dto"
	"github.com/monowai/beancounter-sub001/internal/application/usecase"
	pkgkafka "github.com/monowai/beancounter-sub001/pkg/kafka"
)

// TransactionRecorder stores one ingested transaction.
type TransactionRecorder interface {
	Execute(ctx context.Context, input dto.TransactionInput) (dto.RecordTransactionResponse, error)
}

// TransactionHandler turns messages on the transaction topic into recorded
// transactions.
type TransactionHandler struct {
	recorder TransactionRecorder
	logger   *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(recorder TransactionRecorder, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{recorder: recorder, logger: logger}
}

// Handle records the transaction in msg. Malformed or rejected input is
// permanent and is committed past; storage failures are retried.
func (h *TransactionHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var input dto.TransactionInput
	if err := json.Unmarshal(msg.Value, &input); err != nil {
		return pkgkafka.Permanent(fmt.Errorf("decode transaction at offset %d: %w", msg.Offset, err))
	}

	resp, err := h.recorder.Execute(ctx, input)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRequest) {
			return pkgkafka.Permanent(err)
		}
		return err
	}

	h.logger.Debug("transaction ingested", "trn_id", resp.ID, "asset", resp.AssetKey, "offset", msg.Offset)
	return nil
}
