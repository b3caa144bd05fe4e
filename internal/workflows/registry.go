// Package workflows holds the concrete reconciliation flows: put-away of
// purchase-order receipts and returns against orders, GRNs or stock.
package workflows

import "warehouse-backend/internal/reconcile"

// ByName resolves a workflow from its route name.
func ByName(name string) (reconcile.Workflow, bool) {
	switch name {
	case NamePutAway:
		return PutAway{}, true
	case NameReturn:
		return Return{}, true
	}
	return nil, false
}

// Names lists every known workflow.
func Names() []string {
	return []string{NamePutAway, NameReturn}
}
