// Package mongo stores chat conversations: the message history and the last address
// extracted from the customer's messages. One document per sender.
package mongo

import (
	"context"
	"errors"
	"time"

	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/chat"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding conversation documents.
const CollectionName = "conversations"

type conversationDocument struct {
	Phone            string            `bson:"phone"`
	Messages         []messageDocument `bson:"messages"`
	ExtractedAddress *addressDocument  `bson:"extractedAddress,omitempty"`
	LastInteraction  time.Time         `bson:"lastInteraction"`
}

type messageDocument struct {
	Content   string    `bson:"content"`
	Sender    string    `bson:"sender"`
	Timestamp time.Time `bson:"timestamp"`
}

type addressDocument struct {
	Street      string    `bson:"street"`
	Number      string    `bson:"number"`
	Complement  string    `bson:"complement,omitempty"`
	District    string    `bson:"district,omitempty"`
	City        string    `bson:"city,omitempty"`
	State       string    `bson:"state,omitempty"`
	PostalCode  string    `bson:"postalCode,omitempty"`
	Landmark    string    `bson:"landmark,omitempty"`
	ExtractedAt time.Time `bson:"extractedAt"`
}

// ConversationRepository implements ports.ConversationRepository on a MongoDB collection.
// History is capped on write with $push/$slice, so a document never holds more than
// chat.HistoryLimit messages.
type ConversationRepository struct {
	collection *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{collection: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique index on the sender phone.
func (r *ConversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("conversations_phone_key"),
	})
	return err
}

func (r *ConversationRepository) Append(ctx context.Context, sender string, msg chat.Message) error {
	doc := messageDocument{Content: msg.Content, Sender: string(msg.Author), Timestamp: msg.Timestamp.UTC()}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"phone": sender},
		bson.M{
			"$push": bson.M{"messages": bson.M{"$each": bson.A{doc}, "$slice": -chat.HistoryLimit}},
			"$set":  bson.M{"lastInteraction": doc.Timestamp},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ConversationRepository) History(ctx context.Context, sender string, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		return []chat.Message{}, nil
	}

	var doc conversationDocument
	err := r.collection.FindOne(ctx,
		bson.M{"phone": sender},
		options.FindOne().SetProjection(bson.M{"messages": bson.M{"$slice": -limit}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []chat.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	history := make([]chat.Message, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		history = append(history, chat.Message{
			Author:    chat.Author(m.Sender),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return history, nil
}

func (r *ConversationRepository) SaveAddress(ctx context.Context, sender string, addr address.ExtractedAddress) error {
	doc := addressDocument{
		Street:      addr.Street,
		Number:      addr.Number,
		Complement:  addr.Complement,
		District:    addr.District,
		City:        addr.City,
		State:       addr.State,
		PostalCode:  addr.PostalCode,
		Landmark:    addr.Landmark,
		ExtractedAt: addr.ExtractedAt.UTC(),
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"phone": sender},
		bson.M{
			"$set":         bson.M{"extractedAddress": doc},
			"$setOnInsert": bson.M{"messages": bson.A{}, "lastInteraction": doc.ExtractedAt},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ConversationRepository) Address(ctx context.Context, sender string) (address.ExtractedAddress, bool, error) {
	var doc conversationDocument
	err := r.collection.FindOne(ctx,
		bson.M{"phone": sender},
		options.FindOne().SetProjection(bson.M{"extractedAddress": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return address.ExtractedAddress{}, false, nil
	}
	if err != nil {
		return address.ExtractedAddress{}, false, err
	}
	if doc.ExtractedAddress == nil {
		return address.ExtractedAddress{}, false, nil
	}

	a := doc.ExtractedAddress
	return address.ExtractedAddress{
		Street:      a.Street,
		Number:      a.Number,
		Complement:  a.Complement,
		District:    a.District,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Landmark:    a.Landmark,
		ExtractedAt: a.ExtractedAt,
	}, true, nil
}
