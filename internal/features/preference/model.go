package preference

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Keys the dashboard persists per user.
const (
	KeyBusinessLine = "active_business_line"
)

// Preference is one remembered selection. The active business line lives
// here so it survives sessions without becoming process-global state.
type Preference struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Key       string             `bson:"key" json:"key"`
	Value     string             `bson:"value" json:"value"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
