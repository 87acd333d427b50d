package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ekoseller/eko-seller-api/internal/model"
)

// OrderRepo provides access to the `orders` and `orderitems`
// collections. Line items are persisted individually and referenced
// from the order header; reads join user, items, products and
// categories application-side.
type OrderRepo struct {
	orders   *mongo.Collection
	items    *mongo.Collection
	products *ProductRepo
	users    *UserRepo
}

func NewOrderRepo(db *mongo.Database, products *ProductRepo, users *UserRepo) *OrderRepo {
	return &OrderRepo{
		orders:   db.Collection("orders"),
		items:    db.Collection("orderitems"),
		products: products,
		users:    users,
	}
}

// InsertItem persists one line item and fills in its generated id.
func (r *OrderRepo) InsertItem(ctx context.Context, item *model.OrderItem) error {
	res, err := r.items.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// DeleteItems removes the given line items. Used to compensate a
// partially persisted order when a later step fails.
func (r *OrderRepo) DeleteItems(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.items.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// InsertOrder persists the order header and fills in its generated id.
func (r *OrderRepo) InsertOrder(ctx context.Context, o *model.Order) error {
	res, err := r.orders.InsertOne(ctx, o)
	if err != nil {
		return err
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// List returns every order, newest first, fully joined.
func (r *OrderRepo) List(ctx context.Context) ([]model.PopulatedOrder, error) {
	return r.find(ctx, bson.M{})
}

// ByUser returns the given user's orders, newest first, fully joined.
func (r *OrderRepo) ByUser(ctx context.Context, userID primitive.ObjectID) ([]model.PopulatedOrder, error) {
	return r.find(ctx, bson.M{"user": userID})
}

// FindByID returns one fully joined order.
func (r *OrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.PopulatedOrder, error) {
	out, err := r.find(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// UpdateStatus sets an order's status and returns the new header.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*model.Order, error) {
	var o model.Order
	err := r.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Delete removes the order header together with its line items.
func (r *OrderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	var o model.Order
	err := r.orders.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return r.DeleteItems(ctx, o.OrderItems)
}

// TotalSales sums totalPrice across all orders with an aggregation
// pipeline.
func (r *OrderRepo) TotalSales(ctx context.Context) (float64, error) {
	cur, err := r.orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalSales": bson.M{"$sum": "$totalPrice"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	var rows []struct {
		TotalSales float64 `bson:"totalSales"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalSales, nil
}

// Count returns the total number of orders.
func (r *OrderRepo) Count(ctx context.Context) (int64, error) {
	return r.orders.CountDocuments(ctx, bson.M{})
}

// find loads matching orders newest first and joins user names, line
// items and their products in three batched queries.
func (r *OrderRepo) find(ctx context.Context, q bson.M) ([]model.PopulatedOrder, error) {
	cur, err := r.orders.Find(ctx, q,
		options.Find().SetSort(bson.D{{Key: "dateOrdered", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	headers := []model.Order{}
	if err := cur.All(ctx, &headers); err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []model.PopulatedOrder{}, nil
	}

	itemIDs := []primitive.ObjectID{}
	userIDs := []primitive.ObjectID{}
	seenUser := map[primitive.ObjectID]bool{}
	for _, h := range headers {
		itemIDs = append(itemIDs, h.OrderItems...)
		if !seenUser[h.User] {
			seenUser[h.User] = true
			userIDs = append(userIDs, h.User)
		}
	}

	itemByID := map[primitive.ObjectID]model.OrderItem{}
	if len(itemIDs) > 0 {
		icur, err := r.items.Find(ctx, bson.M{"_id": bson.M{"$in": itemIDs}})
		if err != nil {
			return nil, err
		}
		defer icur.Close(ctx)
		items := []model.OrderItem{}
		if err := icur.All(ctx, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			itemByID[it.ID] = it
		}
	}

	productIDs := []primitive.ObjectID{}
	seenProduct := map[primitive.ObjectID]bool{}
	for _, it := range itemByID {
		if !seenProduct[it.Product] {
			seenProduct[it.Product] = true
			productIDs = append(productIDs, it.Product)
		}
	}
	productByID := map[primitive.ObjectID]*model.PopulatedProduct{}
	if len(productIDs) > 0 {
		pcur, err := r.products.c.Find(ctx, bson.M{"_id": bson.M{"$in": productIDs}})
		if err != nil {
			return nil, err
		}
		defer pcur.Close(ctx)
		products := []model.Product{}
		if err := pcur.All(ctx, &products); err != nil {
			return nil, err
		}
		joined, err := r.products.populate(ctx, products)
		if err != nil {
			return nil, err
		}
		for i := range joined {
			productByID[joined[i].Product.ID] = &joined[i]
		}
	}

	nameByID := map[primitive.ObjectID]string{}
	if len(userIDs) > 0 {
		ucur, err := r.users.c.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}},
			options.Find().SetProjection(bson.M{"name": 1}))
		if err != nil {
			return nil, err
		}
		defer ucur.Close(ctx)
		names := []struct {
			ID   primitive.ObjectID `bson:"_id"`
			Name string             `bson:"name"`
		}{}
		if err := ucur.All(ctx, &names); err != nil {
			return nil, err
		}
		for _, n := range names {
			nameByID[n.ID] = n.Name
		}
	}

	out := make([]model.PopulatedOrder, len(headers))
	for i, h := range headers {
		po := model.PopulatedOrder{Order: h, UserName: nameByID[h.User]}
		for _, itemID := range h.OrderItems {
			it, ok := itemByID[itemID]
			if !ok {
				continue
			}
			po.OrderItems = append(po.OrderItems, model.PopulatedOrderItem{
				OrderItem: it,
				Product:   productByID[it.Product],
			})
		}
		out[i] = po
	}
	return out, nil
}
