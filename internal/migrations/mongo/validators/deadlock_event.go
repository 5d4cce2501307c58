package validators

import "go.mongodb.org/mongo-driver/bson"

var DeadlockEventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tenant_id",
			"pass_id",
			"cycle_key",
			"session_ids",
			"victim_session_id",
			"status",
			"detected_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
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

			"cycle_key": bson.M{
				"bsonType": "string",
				"pattern":  "^[0-9]+(-[0-9]+)+$",
			},

			"session_ids": bson.M{
				"bsonType": "array",
				"minItems": 2,
				"items": bson.M{
					"bsonType": []string{"int", "long"},
					"minimum":  1,
				},
			},

			"victim_session_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"status": bson.M{
				"enum": []string{"DETECTED", "RESOLVED"},
			},

			"resolution": bson.M{
				"enum": []string{"inferred", "manual"},
			},

			"detected_at": bson.M{
				"bsonType": "date",
			},

			"resolved_at": bson.M{
				"bsonType": "date",
			},

			"closed_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
