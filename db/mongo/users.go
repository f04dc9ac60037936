package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sdg12/foodfacts-api/db"
	"github.com/sdg12/foodfacts-api/types"
)

// GetUser finds a single user account by its username
func (p *Provider) GetUser(ctx context.Context, username string) (*types.User, error) {
	result := p.users().FindOne(ctx, bson.D{{Key: "username", Value: username}})
	if result.Err() == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError("user", username)
	}

	var user types.User
	err := result.Decode(&user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CreateUser inserts a new user account. The username doubles as the
// document ID so duplicates are rejected by the storage layer.
func (p *Provider) CreateUser(ctx context.Context, user types.User) error {
	document := bson.M{
		"_id":      user.Username,
		"username": user.Username,
		"hash":     user.Hash,
		"create_t": user.CreateT,
		"update_t": user.UpdateT,
		"conf":     user.Conf,
		"vot":      user.Vot,
	}

	_, err := p.majorityWrite(p.users()).InsertOne(ctx, document)
	if err != nil {
		// Handle known cases (such as when the username was duplicate)
		if writeException, ok := err.(mongo.WriteException); ok && isDuplicate(writeException) {
			return db.NewDuplicateIDError(user.Username)
		}

		return err
	}

	return nil
}

// SaveUserConf replaces the user's stored preferences document,
// leaving everything else untouched
func (p *Provider) SaveUserConf(ctx context.Context, username string,
	conf map[string]interface{}) error {

	update := bson.M{"$set": bson.M{
		"conf":     conf,
		"update_t": time.Now().Unix(),
	}}

	result, err := p.majorityWrite(p.users()).
		UpdateOne(ctx, bson.M{"_id": username}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return db.NewNotFoundError("user", username)
	}

	return nil
}

// SetUserVote records the user's current outcome for a
// (product, attribute) pair, overwriting any previous one.
// A nil outcome stores an explicit BSON null (a neutral vote),
// which stays distinguishable from an absent key.
func (p *Provider) SetUserVote(ctx context.Context, username string, code string,
	attribute string, outcome *bool) error {

	update := bson.M{"$set": bson.M{
		"vot." + code + "." + attribute: outcome,
		"update_t":                      time.Now().Unix(),
	}}

	result, err := p.majorityWrite(p.users()).
		UpdateOne(ctx, bson.M{"_id": username}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return db.NewNotFoundError("user", username)
	}

	return nil
}
