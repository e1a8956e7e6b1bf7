package handlers

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/server"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/payment"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	single *payment.ProcessSingle
	batch  *payment.ProcessBatch
	list   *payment.ListBilling
}

func NewPaymentHandler(
	single *payment.ProcessSingle,
	batch *payment.ProcessBatch,
	list *payment.ListBilling,
) *PaymentHandler {
	return &PaymentHandler{
		single: single,
		batch:  batch,
		list:   list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// PaymentRequest is the PROCESS_PAYMENT body. A request with items is a
// batch; otherwise application_id names the single item to pay.
type PaymentRequest struct {
	PatientID     string  `json:"patient_id"`
	ApplicationID string  `json:"application_id"`
	PaymentMethod string  `json:"payment_method"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentTime   string  `json:"payment_time"`
	Items         []struct {
		ItemName      string  `json:"item_name"`
		Amount        float64 `json:"amount"`
		ApplicationID string  `json:"application_id"`
	} `json:"items"`
}

// ======================================================
// PROCESS_PAYMENT#<json>
// ======================================================

func (h *PaymentHandler) Process(ctx context.Context, req *server.Request) protocol.Reply {
	var body PaymentRequest
	if err := json.Unmarshal([]byte(req.Msg.Tail(1)), &body); err != nil {
		return req.Fail(apperr.InvalidFormat)
	}

	var (
		res *payment.Result
		err error
	)

	switch {
	case len(body.Items) > 0:
		in := payment.BatchInput{
			PatientID:     body.PatientID,
			TotalAmount:   body.TotalAmount,
			PaymentMethod: body.PaymentMethod,
			PaymentTime:   body.PaymentTime,
		}
		for _, it := range body.Items {
			in.Items = append(in.Items, payment.BatchLine{
				ItemName:      it.ItemName,
				Amount:        it.Amount,
				ApplicationID: it.ApplicationID,
			})
		}
		res, err = h.batch.Execute(ctx, in)

	case body.ApplicationID != "":
		res, err = h.single.Execute(ctx, payment.SingleInput{
			PatientID:     body.PatientID,
			ApplicationID: body.ApplicationID,
			PaymentMethod: body.PaymentMethod,
		})

	default:
		return req.Fail(apperr.InvalidFormat)
	}

	if err != nil {
		return req.Error(err)
	}

	for _, w := range res.Warnings {
		req.Log.Warn().Err(w).Str("patient", body.PatientID).Msg("settlement incomplete")
	}

	return req.OK(strconv.FormatUint(uint64(res.Record.ID), 10))
}

// ======================================================
// LISTS
// ======================================================

func (h *PaymentHandler) Items(ctx context.Context, req *server.Request) protocol.Reply {
	items, err := h.list.Items(ctx, req.Msg.Field(1))
	if err != nil {
		return req.Error(err)
	}
	return req.JSON(items)
}

func (h *PaymentHandler) Records(ctx context.Context, req *server.Request) protocol.Reply {
	recs, err := h.list.Records(ctx, req.Msg.Field(1))
	if err != nil {
		return req.Error(err)
	}
	return req.JSON(recs)
}
