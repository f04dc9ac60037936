package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sdg12/foodfacts-api/db"
	"github.com/sdg12/foodfacts-api/types"
)

// GetProductByBarcode finds a product by a zero-padding-tolerant
// barcode match and attaches the default sustainability tally to
// products that predate voting (in memory only; nothing is persisted
// on read)
func (p *Provider) GetProductByBarcode(ctx context.Context, barcode string) (types.Product, error) {
	pattern := db.BarcodePattern(barcode)
	filter := p.withBase(bson.M{"code": bson.M{"$regex": pattern, "$options": "i"}})

	return p.findProduct(ctx, filter, barcode)
}

// GetProductByCode finds a product by its exact stored code
func (p *Provider) GetProductByCode(ctx context.Context, code string) (types.Product, error) {
	return p.findProduct(ctx, bson.M{"code": code}, code)
}

func (p *Provider) findProduct(ctx context.Context, filter bson.M, id string) (types.Product, error) {
	result := p.products().FindOne(ctx, filter)
	if result.Err() == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError("product", id)
	}

	var product types.Product
	err := result.Decode(&product)
	if err != nil {
		return nil, err
	}

	product.EnsureSustainability()
	return product, nil
}

// GetFacetValues returns the distinct values of the <facet>_tags field.
// The facet name must already be allowlisted by the caller.
func (p *Provider) GetFacetValues(ctx context.Context, facet string) ([]string, error) {
	field := facet + "_tags"

	raw, err := p.products().Distinct(ctx, field, p.withBase(bson.M{}))
	if err != nil {
		return nil, err
	}

	// Drop nulls and non-string oddities from the driver
	values := []string{}
	for _, value := range raw {
		if asString, ok := value.(string); ok && asString != "" {
			values = append(values, asString)
		}
	}

	return values, nil
}

// GetCategoryProducts returns the page of products whose
// <plural>_tags field contains the "<lang>:<facet>" value
func (p *Provider) GetCategoryProducts(ctx context.Context, plural string, facet string,
	queryOptions db.Options) ([]types.Product, error) {

	field := plural + "_tags"
	value := queryOptions.Lang + ":" + facet
	filter := p.withBase(bson.M{field: value})

	return p.findProducts(ctx, filter, queryOptions)
}

// SearchProducts runs the compiled filter fragments combined with
// logical AND; an empty fragment list matches everything
func (p *Provider) SearchProducts(ctx context.Context, fragments []bson.M,
	queryOptions db.Options) ([]types.Product, error) {

	filter := p.withBase(bson.M{})
	if len(fragments) > 0 {
		filter["$and"] = fragments
	}

	return p.findProducts(ctx, filter, queryOptions)
}

func (p *Provider) findProducts(ctx context.Context, filter bson.M,
	queryOptions db.Options) ([]types.Product, error) {

	findOptions := options.Find().
		SetSkip(queryOptions.Skip).
		SetLimit(queryOptions.PageSize)
	if queryOptions.SortBy != "" {
		findOptions.SetSort(bson.D{{Key: queryOptions.SortBy, Value: 1}})
	}

	cursor, err := p.products().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}

	var raw []types.Product
	err = cursor.All(ctx, &raw)
	if err != nil {
		return nil, err
	}

	// Drop null entries and return a non-nil slice so JSON
	// serialization is nice
	products := []types.Product{}
	for _, product := range raw {
		if product == nil {
			continue
		}

		product.EnsureSustainability()
		products = append(products, product)
	}

	return products, nil
}

// ApplyVote atomically increments the given sustainability counters and
// sets the derived level with majority durability. Atomic $inc keyed by
// the specific counter fields eliminates the read-modify-write race on
// the tally (though not the two-document atomicity gap with the user
// record, which the engine reports separately).
func (p *Provider) ApplyVote(ctx context.Context, code string,
	increments map[string]int, level float64) error {

	incDocument := bson.M{}
	for key, delta := range increments {
		incDocument["sustainability."+key] = delta
	}

	update := bson.M{
		"$inc": incDocument,
		"$set": bson.M{"sustainability." + types.LevelKey: level},
	}

	result, err := p.majorityWrite(p.products()).
		UpdateOne(ctx, bson.M{"code": code}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return db.NewNotFoundError("product", code)
	}

	return nil
}
