package httpapi

import (
	"net/http"
	"time"
)

type VoucherHandler struct {
	vouchers VoucherFinder
}

func NewVoucherHandler(vouchers VoucherFinder) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers}
}

// GET /api/v1/vouchers
func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	eligible, err := h.vouchers.Eligible(r.Context(), time.Now())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "voucher catalog unavailable")
		return
	}
	respondJSON(w, http.StatusOK, eligible)
}
