package expense

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-salesdash/internal/features/metrics"
)

// Entry is one row of the shared expense ledger. The ledger covers both
// business lines; channel attribution happens in the aggregator.
type Entry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date        time.Time          `bson:"date" json:"date"`
	Category    string             `bson:"category" json:"category"`
	Amount      float64            `bson:"amount" json:"amount"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// SourceRef identifies the row in the accounting system this entry was
	// imported from; the ledger sync upserts on it.
	SourceRef string `bson:"source_ref,omitempty" json:"-"`
}

// Line converts the entry into the aggregator's shape.
func (e Entry) Line() metrics.ExpenseLine {
	return metrics.ExpenseLine{
		Date:     e.Date,
		Category: e.Category,
		Amount:   e.Amount,
	}
}

// Lines converts a slice of entries.
func Lines(entries []Entry) []metrics.ExpenseLine {
	out := make([]metrics.ExpenseLine, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Line())
	}
	return out
}
