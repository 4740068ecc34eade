package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/chocoblitz/storefront/internal/common/validate"
	inErrors "github.com/chocoblitz/storefront/internal/errors"
	"github.com/chocoblitz/storefront/internal/log"
)

// Catalog is the static read-only product list. It is loaded once at startup
// and never mutated afterwards, so lookups need no locking.
type Catalog struct {
	products []Product
	byId     map[int]int
}

func New(products []Product) *Catalog {
	catalog := &Catalog{products: products, byId: make(map[int]int, len(products))}
	for i, product := range products {
		catalog.byId[product.ID] = i
	}
	return catalog
}

func Load(c context.Context, path string) (*Catalog, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "catalog Load").
		Str("path", path).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "reading catalog file").Logger()
	logger.Info().Msg("reading catalog file")
	raw, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed reading catalog file=%s with error=%w", path, err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("read catalog file")

	logger = logger.With().Str(log.KeyProcess, "decoding catalog").Logger()
	logger.Info().Msg("decoding catalog")
	decoded := []Product{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		err = fmt.Errorf("failed decoding catalog with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("decoded %d products", len(decoded))

	logger = logger.With().Str(log.KeyProcess, "validating catalog").Logger()
	logger.Info().Msg("validating catalog")
	validator := validate.New()
	products := make([]Product, 0, len(decoded))
	seen := map[int]bool{}
	for _, product := range decoded {
		if err := validator.StructCtx(c, product); err != nil {
			err = fmt.Errorf(
				"failed validating productId=%d with error=%w",
				product.ID,
				err,
			)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		// The source data carries duplicate ids; first occurrence wins.
		if seen[product.ID] {
			logger.Warn().
				Int(log.KeyProductID, product.ID).
				Msgf("skipping duplicate productId=%d name=%s", product.ID, product.Name)
			continue
		}
		seen[product.ID] = true
		products = append(products, product)
	}
	logger.Info().Msgf("validated %d products", len(products))

	return New(products), nil
}

func (cat *Catalog) FindById(id int) (Product, error) {
	i, ok := cat.byId[id]
	if !ok {
		return Product{}, fmt.Errorf(
			"failed finding productId=%d with error=%w",
			id,
			inErrors.ErrProductNotFound,
		)
	}
	return cat.products[i], nil
}

// Filter returns the products matching category in catalog order. FilterAll or
// an empty filter returns the whole catalog.
func (cat *Catalog) Filter(category string) []Product {
	if category == FilterAll || category == "" {
		return append([]Product{}, cat.products...)
	}
	filtered := []Product{}
	for _, product := range cat.products {
		if product.Category == Category(category) {
			filtered = append(filtered, product)
		}
	}
	return filtered
}

func (cat *Catalog) Len() int {
	return len(cat.products)
}
