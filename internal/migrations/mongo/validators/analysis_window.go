package validators

import "go.mongodb.org/mongo-driver/bson"

var AnalysisWindowValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tenant_id",
			"pass_id",
			"period_start",
			"period_end",
			"efficiency_score",
			"trend_direction",
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

			"period_start": bson.M{
				"bsonType": "date",
			},

			"period_end": bson.M{
				"bsonType": "date",
			},

			"total_locks": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"blocking_events": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"deadlocks": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"peak_concurrent": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"hotspots": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"resource_id", "waiter_count"},
				},
			},

			"efficiency_score": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  100,
			},

			"trend_direction": bson.M{
				"enum": []string{"IMPROVING", "STABLE", "DEGRADING"},
			},

			"closed_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
