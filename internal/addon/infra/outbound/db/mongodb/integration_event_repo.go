package mongodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/davicafu/flaghooks/internal/addon/domain"
)

const (
	eventsCollection   = "integration_events"
	countersCollection = "counters"
	counterID          = "integration_events"
)

// IntegrationEventRepoMongoDB guarda el historial de entregas en MongoDB.
// Los IDs son enteros secuenciales (colección counters) para mantener el mismo contrato que SQL.
type IntegrationEventRepoMongoDB struct {
	events   *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

func NewIntegrationEventRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*IntegrationEventRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	db := client.Database(dbName)
	return &IntegrationEventRepoMongoDB{
		events:   db.Collection(eventsCollection),
		counters: db.Collection(countersCollection),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// EnsureIndexes crea el índice por integración usado en la paginación.
func (r *IntegrationEventRepoMongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := r.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "integrationId", Value: 1}, {Key: "_id", Value: -1}},
	})
	return err
}

// --- Structs de BSON para el mapeo ---

type mongoOutcome struct {
	ID            int64                `bson:"_id"`
	IntegrationID int64                `bson:"integrationId"`
	State         string               `bson:"state"`
	StateDetails  string               `bson:"stateDetails"`
	Event         string               `bson:"event"`
	Details       mongoDeliveryDetails `bson:"details"`
	CreatedAt     time.Time            `bson:"createdAt"`
}

type mongoDeliveryDetails struct {
	URL         string `bson:"url"`
	ContentType string `bson:"contentType"`
	Body        string `bson:"body"` // JSON
}

func (r *IntegrationEventRepoMongoDB) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate id: %w", err)
	}
	return counter.Seq, nil
}

func (r *IntegrationEventRepoMongoDB) Insert(ctx context.Context, o *domain.DeliveryOutcome) error {
	body, err := json.Marshal(o.Details.Body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	event := string(o.Event)
	if event == "" {
		event = "null"
	}
	doc := mongoOutcome{
		ID:            id,
		IntegrationID: o.IntegrationID,
		State:         o.State.String(),
		StateDetails:  o.StateDetails,
		Event:         event,
		Details: mongoDeliveryDetails{
			URL:         o.Details.URL,
			ContentType: o.Details.ContentType,
			Body:        string(body),
		},
		CreatedAt: r.now(),
	}
	if _, err := r.events.InsertOne(ctx, doc); err != nil {
		return err
	}

	o.ID = doc.ID
	o.CreatedAt = doc.CreatedAt
	return nil
}

func (r *IntegrationEventRepoMongoDB) GetPaginatedEvents(ctx context.Context, integrationID int64, limit, offset int) ([]*domain.DeliveryOutcome, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.events.Find(ctx, bson.M{"integrationId": integrationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	outcomes := []*domain.DeliveryOutcome{}
	for cursor.Next(ctx) {
		var doc mongoOutcome
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		o, err := toDomainOutcome(doc)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, cursor.Err()
}

// CleanUpEvents conserva siempre el registro más reciente de cada integración.
func (r *IntegrationEventRepoMongoDB) CleanUpEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	cursor, err := r.events.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$integrationId", "latest": bson.M{"$max": "$_id"}}}},
	})
	if err != nil {
		return 0, err
	}
	var latest []struct {
		Latest int64 `bson:"latest"`
	}
	if err := cursor.All(ctx, &latest); err != nil {
		return 0, err
	}
	keep := make([]int64, 0, len(latest))
	for _, l := range latest {
		keep = append(keep, l.Latest)
	}

	res, err := r.events.DeleteMany(ctx, bson.M{
		"createdAt": bson.M{"$lt": olderThan},
		"_id":       bson.M{"$nin": keep},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func toDomainOutcome(doc mongoOutcome) (*domain.DeliveryOutcome, error) {
	state, err := domain.ParseDeliveryState(doc.State)
	if err != nil {
		return nil, err
	}
	var body interface{}
	if doc.Details.Body != "" {
		if err := json.Unmarshal([]byte(doc.Details.Body), &body); err != nil {
			return nil, fmt.Errorf("invalid body for integration event %d: %w", doc.ID, err)
		}
	}
	return &domain.DeliveryOutcome{
		ID:            doc.ID,
		IntegrationID: doc.IntegrationID,
		State:         state,
		StateDetails:  doc.StateDetails,
		Event:         json.RawMessage(doc.Event),
		Details: domain.DeliveryDetails{
			URL:         doc.Details.URL,
			ContentType: doc.Details.ContentType,
			Body:        body,
		},
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}

// Verificación en tiempo de compilación.
var _ domain.IntegrationEventRepository = (*IntegrationEventRepoMongoDB)(nil)
