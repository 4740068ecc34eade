package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/chocoblitz/storefront/internal/catalog"
	inErrors "github.com/chocoblitz/storefront/internal/errors"
	"github.com/chocoblitz/storefront/internal/log"
	inOtel "github.com/chocoblitz/storefront/internal/otel"
	"github.com/chocoblitz/storefront/internal/store"
)

// TaxRate is applied on the cart subtotal at display and checkout time.
var TaxRate = decimal.RequireFromString("0.10")

// CartItem snapshots the product at add time: later catalog price changes do
// not affect items already in the cart.
type CartItem struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

type CartTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ChangeHook is called synchronously after every persisted mutation so
// dependent views (badge, cart panel, metrics) re-render from the snapshot.
type ChangeHook func(items []CartItem, count int)

type CartService struct {
	mu      sync.Mutex
	items   []CartItem
	catalog *catalog.Catalog
	kv      store.KVStore
	hooks   []ChangeHook
}

func NewCartService(catalog *catalog.Catalog, kv store.KVStore) *CartService {
	return &CartService{catalog: catalog, kv: kv}
}

func (s *CartService) OnChange(hook ChangeHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Hydrate loads the persisted cart mirror once at startup. A corrupt mirror is
// a hard error: there is no recovery path for it.
func (s *CartService) Hydrate(c context.Context) error {
	c, span := inOtel.Tracer.Start(c, "CartService Hydrate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Hydrate").
		Str(log.KeyCacheKey, store.KeyCart).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart in store").Logger()
	logger.Info().Msg("finding cart in store")
	raw, ok, err := s.kv.Get(c, store.KeyCart)
	if err != nil {
		err = fmt.Errorf("failed finding cart in store with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if !ok {
		logger.Info().Msg("no persisted cart, starting empty")
		return nil
	}
	logger.Info().Msg("found cart in store")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling cart").Logger()
	logger.Info().Msg("unmarshaling cart")
	items := []CartItem{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		err = fmt.Errorf("failed unmarshaling persisted cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger = logger.With().Int(log.KeyCartItemCount, len(items)).Logger()
	logger.Info().Msgf("unmarshaled cart with %d items", len(items))

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// AddItem merges by productId: an existing line item gains quantity 1,
// otherwise a snapshot line item is appended. Unknown ids are a no-op; the id
// always originates from the catalog itself.
func (s *CartService) AddItem(c context.Context, productID int) error {
	c, span := inOtel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Int(log.KeyProductID, productID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in catalog").Logger()
	logger.Info().Msg("finding product in catalog")
	product, err := s.catalog.FindById(productID)
	if err != nil {
		logger.Warn().Err(err).Msgf("productId=%d not in catalog, ignoring", productID)
		return nil
	}
	logger.Info().Msg("found product in catalog")

	logger = logger.With().Str(log.KeyProcess, "merging cart item").Logger()
	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity++
			logger.Info().
				Int(log.KeyQuantity, s.items[i].Quantity).
				Msg("merged cart item")
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  1,
		})
		logger.Info().Msg("appended cart item")
	}
	snapshot, count := s.snapshotLocked()
	s.mu.Unlock()

	return s.persistAndNotify(c, snapshot, count)
}

// RemoveItem is idempotent; removing an absent id changes nothing.
func (s *CartService) RemoveItem(c context.Context, productID int) error {
	c, span := inOtel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Int(log.KeyProductID, productID).
		Str(log.KeyProcess, "removing cart item").
		Logger()

	logger.Info().Msg("removing cart item")
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	snapshot, count := s.snapshotLocked()
	s.mu.Unlock()
	logger.Info().Int(log.KeyCartItemCount, count).Msg("removed cart item")

	return s.persistAndNotify(c, snapshot, count)
}

// UpdateQuantity applies a signed delta; a resulting quantity <= 0 removes the
// line item. An absent id is a no-op.
func (s *CartService) UpdateQuantity(c context.Context, productID int, delta int) error {
	c, span := inOtel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Int(log.KeyProductID, productID).
		Int(log.KeyDelta, delta).
		Str(log.KeyProcess, "updating quantity").
		Logger()

	logger.Info().Msg("updating quantity")
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		found = true
		s.items[i].Quantity += delta
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			logger.Info().Msg("quantity dropped to zero, removed cart item")
		} else {
			logger.Info().Int(log.KeyQuantity, s.items[i].Quantity).Msg("updated quantity")
		}
		break
	}
	snapshot, count := s.snapshotLocked()
	s.mu.Unlock()

	if !found {
		logger.Info().Msgf("productId=%d not in cart, ignoring", productID)
		return nil
	}
	return s.persistAndNotify(c, snapshot, count)
}

// Clear empties the cart. Confirmation is the boundary's responsibility.
func (s *CartService) Clear(c context.Context) error {
	c, span := inOtel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	logger.Info().Msg("cleared cart")

	return s.persistAndNotify(c, []CartItem{}, 0)
}

// Checkout is a simulated confirmation: it blocks on an empty cart, reports
// the grand total and clears the cart. No payment happens here.
func (s *CartService) Checkout(c context.Context) (CartTotals, error) {
	c, span := inOtel.Tracer.Start(c, "CartService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Checkout").
		Str(log.KeyProcess, "checking out cart").
		Logger()

	s.mu.Lock()
	empty := len(s.items) == 0
	totals := s.totalsLocked()
	s.mu.Unlock()

	if empty {
		err := fmt.Errorf("failed checking out with error=%w", inErrors.ErrEmptyCart)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return CartTotals{}, err
	}

	logger.Info().Msgf("checked out cart with total=%s", totals.Total.StringFixed(2))
	if err := s.Clear(c); err != nil {
		err = fmt.Errorf("failed clearing cart after checkout with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return CartTotals{}, err
	}
	return totals, nil
}

// Items returns a copy of the line items in first-add order.
func (s *CartService) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, _ := s.snapshotLocked()
	return snapshot
}

func (s *CartService) Totals() CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

// ItemCount is the badge value: the sum of all quantities.
func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, count := s.snapshotLocked()
	return count
}

func (s *CartService) totalsLocked() CartTotals {
	subtotal := decimal.Zero
	for _, item := range s.items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	tax := subtotal.Mul(TaxRate)
	return CartTotals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

func (s *CartService) snapshotLocked() ([]CartItem, int) {
	snapshot := make([]CartItem, len(s.items))
	copy(snapshot, s.items)
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return snapshot, count
}

// persistAndNotify overwrites the persisted mirror, then re-renders dependent
// views. A crash between mutation and persist loses that mutation only.
func (s *CartService) persistAndNotify(c context.Context, snapshot []CartItem, count int) error {
	c, span := inOtel.Tracer.Start(c, "CartService persistAndNotify")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService persistAndNotify").
		Str(log.KeyCacheKey, store.KeyCart).
		Int(log.KeyCartItemCount, count).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "marshaling cart").Logger()
	raw, err := json.Marshal(snapshot)
	if err != nil {
		err = fmt.Errorf("failed marshaling cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "persisting cart").Logger()
	logger.Info().Msg("persisting cart")
	if err := s.kv.Set(c, store.KeyCart, string(raw)); err != nil {
		err = fmt.Errorf("failed persisting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("persisted cart")

	s.mu.Lock()
	hooks := append([]ChangeHook{}, s.hooks...)
	s.mu.Unlock()
	for _, hook := range hooks {
		hook(snapshot, count)
	}
	return nil
}
