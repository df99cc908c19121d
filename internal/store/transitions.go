package store

import "fueldesk/dashboard-service/internal/models"

const (
	ActionCloseShift    = "close_shift"
	ActionCancelShift   = "cancel_shift"
	ActionIssueInvoice  = "issue"
	ActionPayInvoice    = "pay"
	ActionCancelInvoice = "cancel"
)

var transitionMap = map[string][]string{
	ActionCloseShift:    {models.ShiftActive},
	ActionCancelShift:   {models.ShiftActive},
	ActionIssueInvoice:  {models.InvoiceDraft},
	ActionPayInvoice:    {models.InvoiceIssued},
	ActionCancelInvoice: {models.InvoiceDraft, models.InvoiceIssued},
}

var transitionTarget = map[string]string{
	ActionCloseShift:    models.ShiftCompleted,
	ActionCancelShift:   models.ShiftCancelled,
	ActionIssueInvoice:  models.InvoiceIssued,
	ActionPayInvoice:    models.InvoicePaid,
	ActionCancelInvoice: models.InvoiceCancelled,
}

func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}

// TargetStatus is the status an action moves a record into.
func TargetStatus(action string) (string, bool) {
	status, ok := transitionTarget[action]
	return status, ok
}
