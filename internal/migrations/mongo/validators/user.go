package validators

import "go.mongodb.org/mongo-driver/bson"

var UserProfileValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"email",
			"last_login",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"name": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"last_login": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
