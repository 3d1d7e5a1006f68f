package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LabeledRecord is unique per Dataset and Record; relabeling overwrites it.
type LabeledRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Dataset   string             `bson:"dataset"`
	Record    string             `bson:"record"`
	RunID     string             `bson:"run_id"`
	Age       *int               `bson:"age"`
	Sex       string             `bson:"sex"`
	Overall   string             `bson:"overall,omitempty"`
	Findings  []string           `bson:"findings,omitempty"`
	Codes     []int64            `bson:"codes"`
	LabeledAt time.Time          `bson:"labeled_at"`
}
