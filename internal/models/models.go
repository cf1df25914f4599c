package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSearchScore is stamped on every new restaurant.
const DefaultSearchScore = 10

// Restaurant is a restaurant document. Attributes holds any free-form fields
// stored alongside the known ones; they are flattened into the JSON output.
type Restaurant struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty"`
	Name        string                 `bson:"name,omitempty"`
	Cuisine     string                 `bson:"cuisine,omitempty"`
	Address     string                 `bson:"address,omitempty"`
	OwnerID     string                 `bson:"ownerId"`
	SearchScore float64                `bson:"searchScore"`
	PictureID   *string                `bson:"pictureId"`
	CreatedAt   time.Time              `bson:"createdAt"`
	Attributes  map[string]interface{} `bson:",inline"`
}

// MarshalJSON flattens Attributes next to the known fields.
func (r Restaurant) MarshalJSON() ([]byte, error) {
	out := flatten(r.Attributes)
	out["_id"] = r.ID.Hex()
	out["ownerId"] = r.OwnerID
	out["searchScore"] = r.SearchScore
	out["pictureId"] = r.PictureID
	out["createdAt"] = r.CreatedAt
	if r.Name != "" {
		out["name"] = r.Name
	}
	if r.Cuisine != "" {
		out["cuisine"] = r.Cuisine
	}
	if r.Address != "" {
		out["address"] = r.Address
	}
	return json.Marshal(out)
}

// User is a user document keyed by an external identity uid.
type User struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	UID             string                 `bson:"uid"`
	Email           string                 `bson:"email"`
	Name            string                 `bson:"name"`
	Role            string                 `bson:"role"`
	IsEmailVerified bool                   `bson:"isEmailVerified"`
	CreatedAt       time.Time              `bson:"createdAt"`
	UpdatedAt       time.Time              `bson:"updatedAt"`
	Attributes      map[string]interface{} `bson:",inline"`
}

// MarshalJSON flattens Attributes next to the known fields.
func (u User) MarshalJSON() ([]byte, error) {
	out := flatten(u.Attributes)
	out["_id"] = u.ID.Hex()
	out["uid"] = u.UID
	out["email"] = u.Email
	out["name"] = u.Name
	out["role"] = u.Role
	out["isEmailVerified"] = u.IsEmailVerified
	out["createdAt"] = u.CreatedAt
	out["updatedAt"] = u.UpdatedAt
	return json.Marshal(out)
}

func flatten(attrs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs)+8)
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
