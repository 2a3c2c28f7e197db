package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by MongoStore.
const (
	CollectionSeasons     = "seasons"
	CollectionMatches     = "matchResults"
	CollectionActivities  = "activityResults"
	CollectionAdjustments = "adjustments"
)

// MongoStore keeps seasons and records as documents, one collection per kind.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and uses the named database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return NewMongoStoreFromClient(client, database), nil
}

// NewMongoStoreFromClient wraps an already connected client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database, options.Database().SetRegistry(newMongoRegistry()))
	return &MongoStore{client: client, db: db}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ListSeasons(ctx context.Context) ([]points.Season, error) {
	cur, err := s.db.Collection(CollectionSeasons).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	out := make([]points.Season, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, decodeError("seasons", err)
	}
	return out, nil
}

func (s *MongoStore) GetSeason(ctx context.Context, id string) (points.Season, error) {
	var season points.Season
	res := s.db.Collection(CollectionSeasons).FindOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err := decodeOne(res, "get season", &season); err != nil {
		return points.Season{}, err
	}
	return season, nil
}

func (s *MongoStore) ActiveSeason(ctx context.Context) (points.Season, error) {
	var season points.Season
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	res := s.db.Collection(CollectionSeasons).FindOne(ctx, bson.D{{Key: "isActive", Value: true}}, opts)
	if err := decodeOne(res, "active season", &season); err != nil {
		return points.Season{}, err
	}
	return season, nil
}

func (s *MongoStore) SaveSeason(ctx context.Context, season points.Season) error {
	return s.replace(ctx, CollectionSeasons, season.ID, season)
}

// ActivateSeason deactivates every other season before flagging id, so a
// failure part way leaves no season active rather than two.
func (s *MongoStore) ActivateSeason(ctx context.Context, id string) error {
	coll := s.db.Collection(CollectionSeasons)
	n, err := coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("activate season: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	_, err = coll.UpdateMany(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$ne", Value: id}}}, {Key: "isActive", Value: true}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "isActive", Value: false}}}},
	)
	if err != nil {
		return fmt.Errorf("deactivate seasons: %w", err)
	}
	res, err := coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: bson.D{{Key: "isActive", Value: true}}}})
	if err != nil {
		return fmt.Errorf("activate season: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListMatches(ctx context.Context, seasonID string, filter RecordFilter) ([]points.MatchRecord, error) {
	cur, err := s.db.Collection(CollectionMatches).Find(ctx, recordFilterDoc(seasonID, filter), recordFindOptions(filter))
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]points.MatchRecord, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, decodeError("matches", err)
	}
	return out, nil
}

func (s *MongoStore) GetMatch(ctx context.Context, seasonID, id string) (points.MatchRecord, error) {
	var rec points.MatchRecord
	res := s.db.Collection(CollectionMatches).FindOne(ctx, recordKey(seasonID, id))
	if err := decodeOne(res, "get match", &rec); err != nil {
		return points.MatchRecord{}, err
	}
	return rec, nil
}

func (s *MongoStore) SaveMatch(ctx context.Context, rec points.MatchRecord) error {
	return s.replace(ctx, CollectionMatches, rec.ID, rec)
}

func (s *MongoStore) DeleteMatch(ctx context.Context, seasonID, id string) error {
	return s.delete(ctx, CollectionMatches, seasonID, id)
}

func (s *MongoStore) ListActivities(ctx context.Context, seasonID string, filter RecordFilter) ([]points.ActivityRecord, error) {
	cur, err := s.db.Collection(CollectionActivities).Find(ctx, recordFilterDoc(seasonID, filter), recordFindOptions(filter))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	out := make([]points.ActivityRecord, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, decodeError("activities", err)
	}
	return out, nil
}

func (s *MongoStore) GetActivity(ctx context.Context, seasonID, id string) (points.ActivityRecord, error) {
	var rec points.ActivityRecord
	res := s.db.Collection(CollectionActivities).FindOne(ctx, recordKey(seasonID, id))
	if err := decodeOne(res, "get activity", &rec); err != nil {
		return points.ActivityRecord{}, err
	}
	return rec, nil
}

func (s *MongoStore) SaveActivity(ctx context.Context, rec points.ActivityRecord) error {
	return s.replace(ctx, CollectionActivities, rec.ID, rec)
}

func (s *MongoStore) DeleteActivity(ctx context.Context, seasonID, id string) error {
	return s.delete(ctx, CollectionActivities, seasonID, id)
}

func (s *MongoStore) ListAdjustments(ctx context.Context, seasonID string) ([]points.Adjustment, error) {
	cur, err := s.db.Collection(CollectionAdjustments).Find(ctx,
		bson.D{{Key: "seasonId", Value: seasonID}},
		options.Find().SetSort(newestFirst()),
	)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	out := make([]points.Adjustment, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, decodeError("adjustments", err)
	}
	return out, nil
}

func (s *MongoStore) AddAdjustment(ctx context.Context, adj points.Adjustment) error {
	if _, err := s.db.Collection(CollectionAdjustments).InsertOne(ctx, adj); err != nil {
		return fmt.Errorf("add adjustment: %w", err)
	}
	return nil
}

func (s *MongoStore) replace(ctx context.Context, collection, id string, doc any) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) delete(ctx context.Context, collection, seasonID, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, recordKey(seasonID, id))
	if err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func recordKey(seasonID, id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "seasonId", Value: seasonID}}
}

func recordFilterDoc(seasonID string, filter RecordFilter) bson.D {
	doc := bson.D{{Key: "seasonId", Value: seasonID}}
	if filter.Status != "" {
		doc = append(doc, bson.E{Key: "status", Value: string(filter.Status)})
	}
	if filter.PlayerUID != "" {
		doc = append(doc, bson.E{Key: "playerUid", Value: filter.PlayerUID})
	}
	return doc
}

func recordFindOptions(filter RecordFilter) *options.FindOptions {
	opts := options.Find().SetSort(newestFirst())
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return opts
}

func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
}

func decodeOne(res *mongo.SingleResult, op string, v any) error {
	if err := res.Err(); err != nil {
		return translateMongoError(op, err)
	}
	if err := res.Decode(v); err != nil {
		return decodeError(op, err)
	}
	return nil
}

func decodeError(what string, err error) error {
	return fmt.Errorf("decode %s: %w: %w", what, ErrDecode, err)
}

func translateMongoError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ Store = (*MongoStore)(nil)
