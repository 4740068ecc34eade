package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/chocoblitz/storefront/internal/catalog"
	inErrors "github.com/chocoblitz/storefront/internal/errors"
	"github.com/chocoblitz/storefront/internal/store"
)

func seedCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Product{
		{ID: 1, Name: "Dark Elegance", Category: catalog.CategoryDark, Price: decimal.NewFromInt(10), Image: "images/dark-elegance.jpg", Description: "dark"},
		{ID: 2, Name: "Milk Dream", Category: catalog.CategoryMilk, Price: decimal.NewFromInt(5), Image: "images/milk-dream.jpg", Description: "milk"},
		{ID: 3, Name: "White Silk", Category: catalog.CategoryWhite, Price: decimal.NewFromFloat(22.99), Image: "images/white-silk.jpg", Description: "white"},
	})
}

func setupCart(t *testing.T) (*CartService, store.KVStore) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	kv := store.NewRedisStore(client)
	return NewCartService(seedCatalog(), kv), kv
}

func TestAddItemMergesSameProduct(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.AddItem(c, 1))

	items := cart.Items()
	assert.Len(t, items, 1)
	assert.EqualValues(t, 1, items[0].ProductID)
	assert.EqualValues(t, 2, items[0].Quantity)
}

func TestAddItemUnknownProductIsNoop(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 999))

	assert.Empty(t, cart.Items())
	assert.EqualValues(t, 0, cart.ItemCount())
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 3))

	items := cart.Items()
	assert.Len(t, items, 1)
	assert.EqualValues(t, "White Silk", items[0].Name)
	assert.True(t, items[0].Price.Equal(decimal.NewFromFloat(22.99)))
}

func TestUpdateQuantityRemovesAtZero(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.UpdateQuantity(c, 1, -1))

	assert.Empty(t, cart.Items())
}

func TestUpdateQuantityAppliesDelta(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.UpdateQuantity(c, 1, 3))

	items := cart.Items()
	assert.Len(t, items, 1)
	assert.EqualValues(t, 4, items[0].Quantity)
}

func TestUpdateQuantityAbsentProductIsNoop(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.UpdateQuantity(c, 2, 1))

	items := cart.Items()
	assert.Len(t, items, 1)
	assert.EqualValues(t, 1, items[0].ProductID)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.AddItem(c, 2))

	assert.NoError(t, cart.RemoveItem(c, 1))
	afterFirst := cart.Items()
	assert.NoError(t, cart.RemoveItem(c, 1))
	afterSecond := cart.Items()

	assert.EqualValues(t, afterFirst, afterSecond)
	assert.Len(t, afterSecond, 1)
	assert.EqualValues(t, 2, afterSecond[0].ProductID)
}

func TestTotals(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	// price=10 qty=2 and price=5 qty=1
	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.AddItem(c, 2))

	totals := cart.Totals()
	assert.EqualValues(t, "25.00", totals.Subtotal.StringFixed(2))
	assert.EqualValues(t, "2.50", totals.Tax.StringFixed(2))
	assert.EqualValues(t, "27.50", totals.Total.StringFixed(2))
}

func TestItemCountSumsQuantities(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.UpdateQuantity(c, 1, 1))
	assert.NoError(t, cart.AddItem(c, 2))
	assert.NoError(t, cart.UpdateQuantity(c, 2, 2))

	assert.EqualValues(t, 5, cart.ItemCount())
}

func TestHydrateRoundTrip(t *testing.T) {
	cart, kv := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 2))
	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.AddItem(c, 1))
	expected := cart.Items()

	reloaded := NewCartService(seedCatalog(), kv)
	assert.NoError(t, reloaded.Hydrate(c))

	actual := reloaded.Items()
	assert.Len(t, actual, len(expected))
	for i := range expected {
		assert.EqualValues(t, expected[i].ProductID, actual[i].ProductID)
		assert.EqualValues(t, expected[i].Name, actual[i].Name)
		assert.True(t, expected[i].Price.Equal(actual[i].Price))
		assert.EqualValues(t, expected[i].Quantity, actual[i].Quantity)
	}
}

func TestHydrateCorruptMirrorFails(t *testing.T) {
	cart, kv := setupCart(t)
	c := context.Background()

	assert.NoError(t, kv.Set(c, store.KeyCart, "{not json"))

	assert.Error(t, cart.Hydrate(c))
}

func TestClearEmptiesCart(t *testing.T) {
	cart, kv := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.Clear(c))

	assert.Empty(t, cart.Items())
	raw, ok, err := kv.Get(c, store.KeyCart)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, "[]", raw)
}

func TestCheckoutEmptyCartIsBlocked(t *testing.T) {
	cart, _ := setupCart(t)

	_, err := cart.Checkout(context.Background())

	assert.Error(t, err)
	assert.True(t, errors.Is(err, inErrors.ErrEmptyCart))
}

func TestCheckoutReportsTotalAndClears(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.AddItem(c, 1))

	totals, err := cart.Checkout(c)

	assert.NoError(t, err)
	assert.EqualValues(t, "22.00", totals.Total.StringFixed(2))
	assert.Empty(t, cart.Items())
}

func TestChangeHookFiresAfterMutation(t *testing.T) {
	cart, _ := setupCart(t)
	c := context.Background()

	counts := []int{}
	cart.OnChange(func(items []CartItem, count int) {
		counts = append(counts, count)
	})

	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.AddItem(c, 1))
	assert.NoError(t, cart.RemoveItem(c, 1))

	assert.EqualValues(t, []int{1, 2, 0}, counts)
}
