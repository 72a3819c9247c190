package database

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the lookup paths depend on. Safe to run on
// every startup; Mongo treats existing identical indexes as a no-op.
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "dealership_id", Value: 1}}},
		},
		"dealerships": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"keys": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "dealership_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "dealership_id", Value: 1}, {Key: "stock_number", Value: 1}}},
		},
		"key_history": {
			{Keys: bson.D{{Key: "key_id", Value: 1}}},
			{Keys: bson.D{{Key: "dealership_id", Value: 1}}},
		},
		"pdi_audit_logs": {
			{Keys: bson.D{{Key: "key_id", Value: 1}}},
			{Keys: bson.D{{Key: "dealership_id", Value: 1}}},
		},
		"repair_requests": {
			{Keys: bson.D{{Key: "key_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		"invites": {
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"sales_goals": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "year", Value: 1}}},
		},
		"daily_activities": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}

	log.Println("Database indexes ensured")
	return nil
}
