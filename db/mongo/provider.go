package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/sdg12/foodfacts-api/env"
)

const (
	duplicateError = 11000

	productsCollection = "products"
	usersCollection    = "users"
)

// Provider implements db.Provider on MongoDB: the product dataset in
// one database and the user accounts in another.
type Provider struct {
	connectionURI string
	databaseName  string
	usersDBName   string
	client        *mongo.Client

	// baseFilter is ANDed into every product search
	// (e.g. {"complete": 1} to only surface complete products)
	baseFilter bson.M
}

// NewProvider creates a new provider and loads values in from the environment
func NewProvider() (*Provider, error) {
	connectionURI, err := env.GetEnv("database connection URI", "MONGO_DB_URI")
	if err != nil {
		return nil, err
	}

	dbName, err := env.GetEnv("product database name", "MONGO_DB_NAME")
	if err != nil {
		return nil, err
	}

	usersDBName, err := env.GetEnv("user database name", "MONGO_USERS_DB_NAME")
	if err != nil {
		return nil, err
	}

	baseFilter := bson.M{}
	if onlyComplete, err := env.GetBoolEnv("complete-products filter", "ONLY_COMPLETE_PRODUCTS"); err == nil && onlyComplete {
		baseFilter["complete"] = 1
	}

	return &Provider{
		connectionURI: connectionURI,
		databaseName:  dbName,
		usersDBName:   usersDBName,
		client:        nil,
		baseFilter:    baseFilter,
	}, nil
}

// Connect establishes the client connection and pings the primary
func (p *Provider) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(p.connectionURI))
	if err != nil {
		return err
	}

	// Ping the primary
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return err
	}

	p.client = client

	// Initialize any collections/indices
	err = p.initialize(ctx)
	if err != nil {
		return err
	}

	return nil
}

// Disconnect tears down the client connection
func (p *Provider) Disconnect(ctx context.Context) error {
	err := p.client.Disconnect(ctx)
	if err != nil {
		return err
	}

	return nil
}

// Create anything needed for the database,
// like indices
func (p *Provider) initialize(ctx context.Context) error {
	log.Println("initializing the MongoDB database")

	_, err := p.products().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"code": 1},
	})
	if err != nil {
		return err
	}

	_, err = p.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	return nil
}

func (p *Provider) products() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection(productsCollection)
}

func (p *Provider) users() *mongo.Collection {
	return p.client.Database(p.usersDBName).Collection(usersCollection)
}

// majorityWrite returns the products collection with majority write
// concern, used for the vote tally update
func (p *Provider) majorityWrite(collection *mongo.Collection) *mongo.Collection {
	return collection.Database().Collection(collection.Name(),
		options.Collection().SetWriteConcern(writeconcern.New(writeconcern.WMajority())))
}

// Detects if the given write exception is caused by (in part)
// by a duplicate key error
func isDuplicate(writeException mongo.WriteException) bool {
	for _, writeError := range writeException.WriteErrors {
		if writeError.Code == duplicateError {
			return true
		}
	}

	return false
}

// withBase copies the base filter and lays the given conditions on top
func (p *Provider) withBase(conditions bson.M) bson.M {
	filter := bson.M{}
	for key, value := range p.baseFilter {
		filter[key] = value
	}
	for key, value := range conditions {
		filter[key] = value
	}

	return filter
}
