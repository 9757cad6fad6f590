// Package storage persists room snapshots to MongoDB, keyed by room id. The
// store is a secondary path: gameplay correctness lives in the in-memory
// rooms, and writes here are reconciled best-effort.
package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/UsmanDevCraft/quick-doodle-backend/game"
)

type MongoRoomStore struct {
	collection *mongo.Collection
}

func NewMongoRoomStore(db *mongo.Database) *MongoRoomStore {
	collection := db.Collection("rooms")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "roomId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "mode", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "isActive", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "updatedAt", Value: 1}},
		},
	}
	collection.Indexes().CreateMany(context.Background(), indexes)

	return &MongoRoomStore{collection: collection}
}

type playerDoc struct {
	Username string    `bson:"username"`
	Score    int       `bson:"score"`
	IsHost   bool      `bson:"isHost"`
	JoinedAt time.Time `bson:"joinedAt"`
}

type roomDoc struct {
	RoomID       string              `bson:"roomId"`
	Host         string              `bson:"host"`
	Mode         string              `bson:"mode"`
	CurrentWord  string              `bson:"currentWord"`
	CurrentRound int                 `bson:"currentRound"`
	Players      []playerDoc         `bson:"players"`
	Rounds       []game.Round        `bson:"rounds"`
	Chats        []game.ChatMessage  `bson:"chats"`
	Banned       []string            `bson:"banned"`
	KickVotes    map[string][]string `bson:"kickVotes"`
	IsActive     bool                `bson:"isActive"`
	CreatedAt    time.Time           `bson:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt"`
}

func toDoc(snap game.RoomSnapshot) roomDoc {
	doc := roomDoc{
		RoomID:       snap.RoomID,
		Host:         snap.Host,
		Mode:         string(snap.Mode),
		CurrentWord:  snap.CurrentWord,
		CurrentRound: snap.CurrentRound,
		Players:      make([]playerDoc, 0, len(snap.Players)),
		Rounds:       snap.Rounds,
		Chats:        snap.Chats,
		Banned:       snap.Banned,
		KickVotes:    snap.KickVotes,
		IsActive:     snap.IsActive,
		CreatedAt:    snap.CreatedAt,
		UpdatedAt:    time.Now(),
	}
	for _, p := range snap.Players {
		doc.Players = append(doc.Players, playerDoc(p))
	}
	return doc
}

func fromDoc(doc roomDoc) game.RoomSnapshot {
	snap := game.RoomSnapshot{
		RoomID:       doc.RoomID,
		Host:         doc.Host,
		Mode:         game.RoomMode(doc.Mode),
		CurrentWord:  doc.CurrentWord,
		CurrentRound: doc.CurrentRound,
		Players:      make([]game.PlayerSnapshot, 0, len(doc.Players)),
		Rounds:       doc.Rounds,
		Chats:        doc.Chats,
		Banned:       doc.Banned,
		KickVotes:    doc.KickVotes,
		IsActive:     doc.IsActive,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	for _, p := range doc.Players {
		snap.Players = append(snap.Players, game.PlayerSnapshot(p))
	}
	return snap
}

func (s *MongoRoomStore) Upsert(ctx context.Context, snap game.RoomSnapshot) error {
	filter := bson.M{"roomId": snap.RoomID}
	update := bson.M{"$set": toDoc(snap)}

	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoRoomStore) Find(ctx context.Context, roomID string) (game.RoomSnapshot, bool, error) {
	var doc roomDoc
	err := s.collection.FindOne(ctx, bson.M{"roomId": roomID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.RoomSnapshot{}, false, nil
	}
	if err != nil {
		return game.RoomSnapshot{}, false, err
	}
	return fromDoc(doc), true, nil
}

func (s *MongoRoomStore) Delete(ctx context.Context, roomID string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"roomId": roomID})
	return err
}

// FindAvailableGlobal picks the least-recently-updated active global room
// with space, so joins fill rooms evenly instead of overfilling the newest.
func (s *MongoRoomStore) FindAvailableGlobal(ctx context.Context, capacity int) (string, bool, error) {
	filter := bson.M{
		"mode":     string(game.ModeGlobal),
		"isActive": true,
		"$expr":    bson.M{"$lt": bson.A{bson.M{"$size": "$players"}, capacity}},
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "updatedAt", Value: 1}}).
		SetProjection(bson.M{"roomId": 1})

	var doc struct {
		RoomID string `bson:"roomId"`
	}
	err := s.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.RoomID, true, nil
}
