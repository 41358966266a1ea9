package eco4

import (
	"context"
	"time"

	"go-salesdash/internal/database"
	"go-salesdash/internal/features/daterange"
	"go-salesdash/internal/features/metrics"
	"go-salesdash/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// pageSize is what the ECO4 store tolerates per read.
	pageSize = 1000
	// maxRows is the hard safety ceiling for a paged fetch. Hitting it
	// logs upstream and returns the partial set.
	maxRows = 50000
)

// leadRow is the ECO4 store's current schema (post-migration revision; the
// superseded pre-migration mapping is intentionally not supported). There
// is no field-rep or account-manager column, and no survey-booked column.
// Money fields are formatted strings.
type leadRow struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	DateCreated     time.Time          `bson:"date_created"`
	CustomerName    string             `bson:"customer_name"`
	Email           string             `bson:"email_address,omitempty"`
	Phone           string             `bson:"phone_number,omitempty"`
	Address         string             `bson:"address_line,omitempty"`
	PostCode        string             `bson:"post_code,omitempty"`
	PropertyType    string             `bson:"property_type,omitempty"`
	LeadSource      string             `bson:"lead_source,omitempty"`
	InstallerName   string             `bson:"installer_name,omitempty"`
	CurrentStatus   string             `bson:"current_status"`
	SurveyCompleted *time.Time         `bson:"survey_completed,omitempty"`
	InstallBooked   *time.Time         `bson:"install_booked,omitempty"`
	DatePaid        *time.Time         `bson:"date_paid,omitempty"`
	LeadCost        interface{}        `bson:"lead_cost,omitempty"`
	Revenue         interface{}        `bson:"revenue,omitempty"`
	Commission      interface{}        `bson:"commission,omitempty"`
	CommissionPaid  string             `bson:"commission_paid,omitempty"`
}

func (r leadRow) toLead() metrics.Lead {
	// The store never recorded a survey-booked date; synthesize it from
	// the completion date so funnel counts don't undercount surveys.
	surveyBooked := r.SurveyCompleted

	return metrics.Lead{
		ID:              r.ID.Hex(),
		CreatedAt:       r.DateCreated,
		CustomerName:    r.CustomerName,
		Email:           r.Email,
		Phone:           r.Phone,
		Address:         r.Address,
		Postcode:        r.PostCode,
		PropertyType:    r.PropertyType,
		Source:          r.LeadSource,
		Installer:       r.InstallerName,
		Status:          r.CurrentStatus,
		SurveyBooked:    surveyBooked,
		SurveyCompleted: r.SurveyCompleted,
		InstallBooked:   r.InstallBooked,
		PaidAt:          r.DatePaid,
		LeadCost:        utils.ParseMoney(r.LeadCost),
		Revenue:         utils.ParseMoney(r.Revenue),
		Commission:      utils.ParseMoney(r.Commission),
		CommissionPaid:  r.CommissionPaid,
	}
}

// TruncatedError is returned alongside the partial set when a paged fetch
// hits the row ceiling.
type TruncatedError struct {
	Rows int
}

func (e *TruncatedError) Error() string {
	return "eco4 fetch hit the row ceiling; result set is partial"
}

type Eco4Repository interface {
	// FindCreatedIn pages through records created in range, newest first.
	FindCreatedIn(ctx context.Context, rng daterange.Range) ([]metrics.Lead, error)
	// FindAll pages through the whole store.
	FindAll(ctx context.Context) ([]metrics.Lead, error)
}

type Eco4RepositoryImpl struct {
	Collection *mongo.Collection
}

func NewEco4Repository(mongodb *database.MongodbDB) Eco4Repository {
	return &Eco4RepositoryImpl{
		Collection: mongodb.Eco4.Collection("leads"),
	}
}

func (r *Eco4RepositoryImpl) FindCreatedIn(ctx context.Context, rng daterange.Range) ([]metrics.Lead, error) {
	dateFilter := bson.M{"$lte": rng.End}
	if !rng.AllTime() {
		dateFilter["$gte"] = rng.Start
	}
	return r.findPaged(ctx, bson.M{"date_created": dateFilter})
}

func (r *Eco4RepositoryImpl) FindAll(ctx context.Context) ([]metrics.Lead, error) {
	return r.findPaged(ctx, bson.M{})
}

// findPaged reads the store page by page up to the row ceiling. A full
// result set returns a nil error; a ceiling hit returns the partial set
// with a *TruncatedError so the service can log it and keep going.
func (r *Eco4RepositoryImpl) findPaged(ctx context.Context, filter bson.M) ([]metrics.Lead, error) {
	leads := make([]metrics.Lead, 0)

	for skip := 0; ; skip += pageSize {
		if len(leads) >= maxRows {
			return leads, &TruncatedError{Rows: len(leads)}
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "date_created", Value: -1}}).
			SetSkip(int64(skip)).
			SetLimit(pageSize)

		cursor, err := r.Collection.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}

		var rows []leadRow
		if err := cursor.All(ctx, &rows); err != nil {
			cursor.Close(ctx)
			return nil, err
		}
		cursor.Close(ctx)

		for _, row := range rows {
			leads = append(leads, row.toLead())
		}

		if len(rows) < pageSize {
			return leads, nil
		}
	}
}
