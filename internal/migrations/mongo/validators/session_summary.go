package validators

import "go.mongodb.org/mongo-driver/bson"

var SessionSummaryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tenant_id",
			"pass_id",
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

			"session_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"locks_held": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"locks_waited": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"blocked_count": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"blocking_duration": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"severity": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  3,
			},

			"auto_kill_eligible": bson.M{
				"bsonType": "bool",
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
