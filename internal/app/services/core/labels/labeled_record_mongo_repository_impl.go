package labels

import (
	"context"
	"errors"

	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/app/models"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ contracts.LabeledRecordRepository = (*LabeledRecordMongoRepository)(nil)

type LabeledRecordMongoRepository struct {
	Collection *mongo.Collection
}

func NewLabeledRecordMongoRepository(db *mongo.Database) *LabeledRecordMongoRepository {
	return &LabeledRecordMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionLabeledRecords),
	}
}

// EnsureIndexes creates the unique (dataset, record) index upserts rely on.
func (repo *LabeledRecordMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := repo.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "dataset", Value: 1}, {Key: "record", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("dataset_record_unique"),
	})
	if err != nil {
		return exceptions.ErrMongoDBUpsertDocument(err)
	}
	return nil
}

func (repo *LabeledRecordMongoRepository) Upsert(ctx context.Context, record *models.LabeledRecord) error {
	filter := bson.M{"dataset": record.Dataset, "record": record.Record}
	update := bson.M{"$set": record}

	_, err := repo.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return exceptions.ErrMongoDBUpsertDocument(err)
	}
	return nil
}

func (repo *LabeledRecordMongoRepository) FindByKey(ctx context.Context, dataset, record string) (*models.LabeledRecord, error) {
	var labeledRecord models.LabeledRecord
	err := repo.Collection.FindOne(ctx, bson.M{"dataset": dataset, "record": record}).Decode(&labeledRecord)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &labeledRecord, nil
}
