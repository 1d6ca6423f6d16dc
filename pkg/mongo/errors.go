package mongo

import "errors"

var (
	ErrEmptyConnectionURL     = errors.New("mongo: empty connection URL")
	ErrEmptyCollection        = errors.New("mongo: database and collection names are required")
	ErrFailedToConnectToMongo = errors.New("mongo: failed to connect")
	ErrHealthcheckFailed      = errors.New("mongo: healthcheck failed")
	ErrNilCollection          = errors.New("mongo: collection is nil")
	ErrProviderRead           = errors.New("mongo: failed to read secret")
	ErrProviderWrite          = errors.New("mongo: failed to write secret")
)
