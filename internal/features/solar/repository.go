package solar

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

// leadRow is the Solar store's native shape. Money fields are decoded as
// interface{} because older documents hold formatted strings while newer
// ones hold plain numbers.
type leadRow struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
	CustomerName     string             `bson:"customerName"`
	Email            string             `bson:"email,omitempty"`
	Phone            string             `bson:"phone,omitempty"`
	Address          string             `bson:"address,omitempty"`
	Postcode         string             `bson:"postcode,omitempty"`
	PropertyType     string             `bson:"propertyType,omitempty"`
	Source           string             `bson:"source,omitempty"`
	FieldRep         string             `bson:"fieldRep,omitempty"`
	AccountManager   string             `bson:"accountManager,omitempty"`
	Installer        string             `bson:"installer,omitempty"`
	Status           string             `bson:"status"`
	SurveyBooked     *time.Time         `bson:"surveyBookedDate,omitempty"`
	SurveyCompleted  *time.Time         `bson:"surveyCompleteDate,omitempty"`
	InstallBooked    *time.Time         `bson:"installBookedDate,omitempty"`
	PaidDate         *time.Time         `bson:"paidDate,omitempty"`
	LeadCost         interface{}        `bson:"leadCost,omitempty"`
	LeadRevenue      interface{}        `bson:"leadRevenue,omitempty"`
	Commission       interface{}        `bson:"commission,omitempty"`
	CommissionPaid   string             `bson:"commissionPaid,omitempty"`
	CommissionPaidAt *time.Time         `bson:"commissionPaidDate,omitempty"`
}

func (r leadRow) toLead() metrics.Lead {
	return metrics.Lead{
		ID:               r.ID.Hex(),
		CreatedAt:        r.CreatedAt,
		CustomerName:     r.CustomerName,
		Email:            r.Email,
		Phone:            r.Phone,
		Address:          r.Address,
		Postcode:         r.Postcode,
		PropertyType:     r.PropertyType,
		Source:           r.Source,
		FieldRep:         r.FieldRep,
		AccountManager:   r.AccountManager,
		Installer:        r.Installer,
		Status:           r.Status,
		SurveyBooked:     r.SurveyBooked,
		SurveyCompleted:  r.SurveyCompleted,
		InstallBooked:    r.InstallBooked,
		PaidAt:           r.PaidDate,
		LeadCost:         utils.ParseMoney(r.LeadCost),
		Revenue:          utils.ParseMoney(r.LeadRevenue),
		Commission:       utils.ParseMoney(r.Commission),
		CommissionPaid:   r.CommissionPaid,
		CommissionPaidAt: r.CommissionPaidAt,
	}
}

type SolarRepository interface {
	// FindCreatedIn returns canonical records created in range, newest
	// first, narrowed by the extra equality filter.
	FindCreatedIn(ctx context.Context, rng daterange.Range, extra bson.M) ([]metrics.Lead, error)
	// FindPaidIn returns records whose paid date fell in range.
	FindPaidIn(ctx context.Context, rng daterange.Range, extra bson.M) ([]metrics.Lead, error)
	// FindAll returns every record, for all-time groupings.
	FindAll(ctx context.Context) ([]metrics.Lead, error)
}

type SolarRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSolarRepository(mongodb *database.MongodbDB) SolarRepository {
	return &SolarRepositoryImpl{
		Collection: mongodb.Solar.Collection("leads"),
	}
}

func (r *SolarRepositoryImpl) FindCreatedIn(ctx context.Context, rng daterange.Range, extra bson.M) ([]metrics.Lead, error) {
	return r.find(ctx, rangeFilter("createdAt", rng, extra),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *SolarRepositoryImpl) FindPaidIn(ctx context.Context, rng daterange.Range, extra bson.M) ([]metrics.Lead, error) {
	return r.find(ctx, rangeFilter("paidDate", rng, extra), nil)
}

func (r *SolarRepositoryImpl) FindAll(ctx context.Context) ([]metrics.Lead, error) {
	return r.find(ctx, bson.M{}, nil)
}

func (r *SolarRepositoryImpl) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]metrics.Lead, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.Collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.Collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []leadRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	leads := make([]metrics.Lead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, row.toLead())
	}
	return leads, nil
}

// rangeFilter builds the date window filter. The all-time sentinel drops
// the lower bound entirely instead of comparing against it.
func rangeFilter(dateField string, rng daterange.Range, extra bson.M) bson.M {
	dateFilter := bson.M{"$lte": rng.End}
	if !rng.AllTime() {
		dateFilter["$gte"] = rng.Start
	}

	filter := bson.M{dateField: dateFilter}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}
