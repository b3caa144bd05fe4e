package services

import "warehouse-backend/internal/models"

// PutAwayStatus derives a purchase order status from its ordered and
// put-away totals.
func PutAwayStatus(ordered, putAway int) string {
	switch {
	case putAway <= 0:
		return models.POStatusPending
	case putAway >= ordered:
		return models.POStatusPutAway
	default:
		return models.POStatusPartiallyPutAway
	}
}

// ReturnStatus derives a return reference status from its returnable and
// processed totals.
func ReturnStatus(returnable, returned int) string {
	switch {
	case returned <= 0:
		return models.ReturnStatusOpen
	case returned >= returnable:
		return models.ReturnStatusReturned
	default:
		return models.ReturnStatusPartiallyReturned
	}
}
