package validators

import "go.mongodb.org/mongo-driver/bson"

var LockSnapshotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tenant_id",
			"pass_id",
			"resource_id",
			"lock_type",
			"session_id",
			"captured_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"tenant_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"pass_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"relation_name": bson.M{
				"bsonType": "string",
			},

			"lock_type": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"mode": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  7,
			},

			"granted": bson.M{
				"bsonType": "bool",
			},

			"session_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"acquired_at": bson.M{
				"bsonType": "date",
			},

			"wait_duration": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"impact_score": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  100,
			},

			"captured_at": bson.M{
				"bsonType": "date",
			},

			"closed_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
