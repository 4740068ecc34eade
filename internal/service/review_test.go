package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chocoblitz/storefront/internal/common/validate"
	"github.com/chocoblitz/storefront/pkg/request"
)

func TestSubmitPrependsNewestFirst(t *testing.T) {
	reviews := NewReviewService(validate.New())
	c := context.Background()

	first, err := reviews.Submit(c, request.Review{Name: "Ana", Rating: 5, Comment: "Wonderful truffles"})
	assert.NoError(t, err)
	second, err := reviews.Submit(c, request.Review{Name: "Ben", Rating: 4, Comment: "Great dark bars"})
	assert.NoError(t, err)

	listed := reviews.List()
	assert.Len(t, listed, 2)
	assert.EqualValues(t, second.ID, listed[0].ID)
	assert.EqualValues(t, first.ID, listed[1].ID)
	assert.NotEqualValues(t, first.ID, second.ID)
}

func TestSubmitRejectsRatingOutOfRange(t *testing.T) {
	reviews := NewReviewService(validate.New())
	c := context.Background()

	_, err := reviews.Submit(c, request.Review{Name: "Ana", Rating: 6, Comment: "too good"})
	assert.Error(t, err)
	_, err = reviews.Submit(c, request.Review{Name: "Ana", Rating: 0, Comment: "unrated"})
	assert.Error(t, err)

	assert.Empty(t, reviews.List())
}

func TestContactValidatesEmail(t *testing.T) {
	reviews := NewReviewService(validate.New())
	c := context.Background()

	assert.NoError(t, reviews.Contact(c, request.Contact{
		Name:    "Ana",
		Email:   "ana@example.test",
		Message: "Do you ship abroad?",
	}))
	assert.Error(t, reviews.Contact(c, request.Contact{
		Name:    "Ana",
		Email:   "not-an-email",
		Message: "Do you ship abroad?",
	}))
}
