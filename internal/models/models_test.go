package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restohub/backend/internal/models"
)

func TestRestaurant_MarshalJSON(t *testing.T) {
	id := primitive.NewObjectID()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := models.Restaurant{
		ID:          id,
		Name:        "Trattoria",
		Cuisine:     "italian",
		OwnerID:     "owner-1",
		SearchScore: 10,
		CreatedAt:   created,
		Attributes:  map[string]interface{}{"phone": "555-0100", "name": "shadowed"},
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got["_id"] != id.Hex() {
		t.Errorf("_id = %v, want %s", got["_id"], id.Hex())
	}
	if got["name"] != "Trattoria" {
		t.Errorf("known field should win over attribute, got name = %v", got["name"])
	}
	if got["phone"] != "555-0100" {
		t.Errorf("phone attribute missing: %v", got)
	}
	if got["pictureId"] != nil {
		t.Errorf("pictureId = %v, want null", got["pictureId"])
	}
	if _, ok := got["address"]; ok {
		t.Error("empty address should be omitted")
	}
	if got["searchScore"] != float64(10) {
		t.Errorf("searchScore = %v", got["searchScore"])
	}
}

func TestRestaurant_BSONInlineAttributes(t *testing.T) {
	doc := bson.M{
		"_id":         primitive.NewObjectID(),
		"name":        "Noodle Bar",
		"ownerId":     "owner-2",
		"searchScore": int32(12),
		"pictureId":   nil,
		"createdAt":   time.Now().UTC(),
		"openLate":    true,
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}

	var r models.Restaurant
	if err := bson.Unmarshal(raw, &r); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}

	if r.Name != "Noodle Bar" || r.OwnerID != "owner-2" || r.SearchScore != 12 {
		t.Errorf("unexpected decode: %+v", r)
	}
	if r.PictureID != nil {
		t.Errorf("PictureID = %v, want nil", *r.PictureID)
	}
	if r.Attributes["openLate"] != true {
		t.Errorf("openLate attribute not captured: %v", r.Attributes)
	}
}

func TestUser_MarshalJSON(t *testing.T) {
	u := models.User{
		ID:    primitive.NewObjectID(),
		UID:   "uid-1",
		Email: "a@example.com",
		Name:  "Ada",
		Role:  "user",
	}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["uid"] != "uid-1" || got["isEmailVerified"] != false {
		t.Errorf("unexpected JSON: %v", got)
	}
}
