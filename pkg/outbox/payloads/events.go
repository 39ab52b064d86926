package payloads

import (
	"github.com/google/uuid"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
)

// OrderEvent carries the full order after it was created or changed.
// Used by order:created and order:updated.
type OrderEvent struct {
	Order models.Order `json:"order"`
}

// OrderPaidEvent is emitted once per successful settlement.
type OrderPaidEvent struct {
	Order   models.Order              `json:"order"`
	Payment models.PaymentTransaction `json:"payment"`
}

// TableStatusChangedEvent carries the table after its status or grouping changed.
type TableStatusChangedEvent struct {
	Table   models.Table `json:"table"`
	OrderID *uuid.UUID   `json:"orderId,omitempty"`
}
