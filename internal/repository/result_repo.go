package repository

import (
	"context"

	"killtest/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepo archives completed assessments
type ResultRepo interface {
	Save(ctx context.Context, r *model.ArchivedResult) error
	Get(ctx context.Context, sessionID string) (*model.ArchivedResult, error)
	Delete(ctx context.Context, sessionID string) error
	Recent(ctx context.Context, limit int64) ([]model.ResultSummary, error)
	CountByVerdict(ctx context.Context) (map[model.Verdict]int64, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("results"),
	}
}

// EnsureIndexes creates the indexes the queries rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("results").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "completedAt", Value: -1}}},
		{Keys: bson.D{{Key: "result.verdict", Value: 1}}},
	})
	return err
}

func (r *resultRepo) Save(ctx context.Context, res *model.ArchivedResult) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": res.SessionID}, res, opts)
	return err
}

func (r *resultRepo) Get(ctx context.Context, sessionID string) (*model.ArchivedResult, error) {
	var res model.ArchivedResult
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *resultRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": sessionID})
	return err
}

// Recent lists the newest results without their answers
func (r *resultRepo) Recent(ctx context.Context, limit int64) ([]model.ResultSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.D{
			{Key: "language", Value: 1},
			{Key: "source", Value: 1},
			{Key: "imported", Value: 1},
			{Key: "completedAt", Value: 1},
			{Key: "result.verdict", Value: 1},
		})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []model.ArchivedResult
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	summaries := make([]model.ResultSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, rows[i].Summary())
	}
	return summaries, nil
}

func (r *resultRepo) CountByVerdict(ctx context.Context) (map[model.Verdict]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$result.verdict"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Verdict model.Verdict `bson:"_id"`
		Count   int64         `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[model.Verdict]int64, len(model.Verdicts))
	for _, v := range model.Verdicts {
		counts[v] = 0
	}
	for _, row := range rows {
		counts[row.Verdict] += row.Count
	}
	return counts, nil
}
