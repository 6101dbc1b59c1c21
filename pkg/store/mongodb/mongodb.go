// Package mongodb implements the lead store against a MongoDB collection.
// Query params translate to an equivalent filter/sort/skip/limit query so the
// externally observable behavior matches the in-memory engine in pkg/query.
package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/query"
	"github.com/leadhub/leadhub/pkg/store"
)

// Store is a MongoDB-backed lead and user store.
type Store struct {
	client *mongo.Client
	leads  *mongo.Collection
	users  *mongo.Collection
}

// Case-insensitive string comparison, matching the in-memory engine's
// lowercased sort keys.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// New connects to MongoDB and ensures the unique indexes on lead email and
// user username.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed pinging mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client: client,
		leads:  db.Collection("leads"),
		users:  db.Collection("users"),
	}

	unique := options.Index().SetUnique(true)
	if _, err := s.leads.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return nil, fmt.Errorf("failed creating email index: %w", err)
	}
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, fmt.Errorf("failed creating username index: %w", err)
	}

	return s, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks the server connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// buildFilter translates query params into a MongoDB filter document. The
// free-text search becomes an escaped case-insensitive regex over first name,
// last name, email and company.
func buildFilter(p query.Params) bson.D {
	filter := bson.D{}
	if p.Search != "" {
		pattern := regexp.QuoteMeta(p.Search)
		regex := func(field string) bson.D {
			return bson.D{{Key: field, Value: bson.D{
				{Key: "$regex", Value: pattern},
				{Key: "$options", Value: "i"},
			}}}
		}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			regex("firstName"), regex("lastName"), regex("email"), regex("company"),
		}})
	}
	if p.Stage != "" {
		filter = append(filter, bson.E{Key: "stage", Value: p.Stage})
	}
	if p.Source != "" {
		filter = append(filter, bson.E{Key: "source", Value: p.Source})
	}
	if p.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: p.Status})
	}
	return filter
}

// List runs the count-then-fetch sequence. Under concurrent writes the total
// and the page contents may transiently disagree; accepted weak consistency.
func (s *Store) List(ctx context.Context, p query.Params) ([]models.Lead, models.Pagination, error) {
	p = p.Normalize()
	filter := buildFilter(p)

	total, err := s.leads.CountDocuments(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed counting leads: %w", err)
	}

	dir := -1
	if p.Order == query.OrderAsc {
		dir = 1
	}
	skip := int64(p.Page-1) * int64(p.Limit)

	opts := options.Find().
		SetSort(bson.D{{Key: p.SortBy, Value: dir}}).
		SetSkip(skip).
		SetLimit(int64(p.Limit)).
		SetCollation(caseInsensitive)

	cursor, err := s.leads.Find(ctx, filter, opts)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed querying leads: %w", err)
	}
	defer cursor.Close(ctx)

	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed decoding leads: %w", err)
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}

	return leads, models.Pagination{
		Total: int(total),
		Page:  p.Page,
		Limit: p.Limit,
		Pages: pages,
	}, nil
}

// GetByID returns the lead with the given identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	var lead models.Lead
	err := s.leads.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&lead)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed fetching lead: %w", err)
	}
	return &lead, nil
}

// Create inserts a new lead, assigning its identifier.
func (s *Store) Create(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	lead.ID = bson.NewObjectID().Hex()
	if _, err := s.leads.InsertOne(ctx, lead); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed inserting lead: %w", err)
	}
	return &lead, nil
}

// Update replaces the stored lead document.
func (s *Store) Update(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	res, err := s.leads.ReplaceOne(ctx, bson.D{{Key: "_id", Value: lead.ID}}, lead)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed updating lead: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, store.ErrNotFound
	}
	return &lead, nil
}

// Delete removes the lead with the given identifier.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.leads.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed deleting lead: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Summarize aggregates the full collection with $group pipelines, mirroring
// the pure aggregator in pkg/analytics.
func (s *Store) Summarize(ctx context.Context) (models.AnalyticsSummary, error) {
	summary := models.AnalyticsSummary{
		ConversionRate:     "0%",
		StageDistribution:  []models.DistributionEntry{},
		SourceDistribution: []models.DistributionEntry{},
	}

	total, err := s.leads.CountDocuments(ctx, bson.D{})
	if err != nil {
		return summary, fmt.Errorf("failed counting leads: %w", err)
	}
	converted, err := s.leads.CountDocuments(ctx, bson.D{{Key: "stage", Value: models.StageWon}})
	if err != nil {
		return summary, fmt.Errorf("failed counting converted leads: %w", err)
	}

	summary.TotalLeads = int(total)
	summary.ConvertedLeads = int(converted)
	if total > 0 {
		rate := float64(converted) / float64(total) * 100
		summary.ConversionRate = fmt.Sprintf("%.2f%%", rate)
	}

	summary.StageDistribution, err = s.distribution(ctx, "stage")
	if err != nil {
		return summary, err
	}
	summary.SourceDistribution, err = s.distribution(ctx, "source")
	if err != nil {
		return summary, err
	}

	summary.TotalValue, err = s.totalValue(ctx)
	if err != nil {
		return summary, err
	}
	return summary, nil
}

func (s *Store) distribution(ctx context.Context, field string) ([]models.DistributionEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		// Count descending, key ascending on ties to keep output deterministic.
		{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}

	cursor, err := s.leads.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed aggregating %s distribution: %w", field, err)
	}
	defer cursor.Close(ctx)

	entries := []models.DistributionEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed decoding %s distribution: %w", field, err)
	}
	return entries, nil
}

func (s *Store) totalValue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$value"}}},
		}}},
	}

	cursor, err := s.leads.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed aggregating total value: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed decoding total value: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// InsertMany bulk-loads leads, used by the seeding command.
func (s *Store) InsertMany(ctx context.Context, leads []models.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	docs := make([]interface{}, len(leads))
	for i, l := range leads {
		l.ID = bson.NewObjectID().Hex()
		docs[i] = l
	}
	if _, err := s.leads.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed seeding leads: %w", err)
	}
	return nil
}

// CreateUser inserts a new user account.
func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	user.ID = bson.NewObjectID().Hex()
	user.CreatedAt = time.Now().UTC()
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed inserting user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed fetching user: %w", err)
	}
	return &user, nil
}

// GetUserByID returns the user with the given identifier.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed fetching user: %w", err)
	}
	return &user, nil
}
