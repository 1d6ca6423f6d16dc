package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// SecretCollection is the subset of *mongo.Collection used by Provider.
type SecretCollection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
}

// Provider keeps secrets as {_id: name, value: value} documents.
// It satisfies keymanager.Provider.
type Provider struct {
	coll SecretCollection
}

type secretDocument struct {
	Name  string `bson:"_id"`
	Value string `bson:"value"`
}

func NewProvider(coll SecretCollection) (*Provider, error) {
	if coll == nil {
		return nil, ErrNilCollection
	}
	return &Provider{coll: coll}, nil
}

// Get returns the stored value. A missing document is reported as absent.
func (p *Provider) Get(ctx context.Context, name string) (string, bool, error) {
	var doc secretDocument
	err := p.coll.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrProviderRead, err)
	}
	return doc.Value, true, nil
}

// Set upserts the document for name.
func (p *Provider) Set(ctx context.Context, name, value string) error {
	_, err := p.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "value", Value: value}}}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrProviderWrite, err)
	}
	return nil
}
