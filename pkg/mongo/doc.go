// Package mongo stores master secrets in a MongoDB collection.
//
// Each secret is one document keyed by its name. Provider satisfies
// keymanager.Provider, so a fleet of processes sharing the collection also
// shares the master secret of every domain.
//
// # Usage
//
//	client, coll, err := mongo.Collection(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//
//	provider, err := mongo.NewProvider(coll)
//	if err != nil {
//	    return err
//	}
//	store, err := securestore.New(ctx, "myapp", securestore.WithProvider(provider))
//
// # Configuration
//
// Config is read from MONGODB_* variables (usually with the SECURESTORE_
// prefix). The database and collection default to securestore.secrets.
//
// # Error Handling
//
// Connect returns ErrEmptyConnectionURL or ErrFailedToConnectToMongo.
// Provider failures are joined with ErrProviderRead or ErrProviderWrite; a
// missing document is not an error. Healthcheck failures wrap
// ErrHealthcheckFailed.
package mongo
