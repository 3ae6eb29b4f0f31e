package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTxRunner executes a function inside a driver session so that
// multi-document mutations (note + ownership entry) commit or abort as
// one unit. Collection operations join the transaction through the
// session context they receive.
type MongoTxRunner struct {
	Client *mongo.Client
}

func NewMongoTxRunner(client *mongo.Client) *MongoTxRunner {
	return &MongoTxRunner{Client: client}
}

func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
