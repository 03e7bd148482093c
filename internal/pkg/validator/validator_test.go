package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"artnexus/internal/pkg/apperr"
)

type priced struct {
	Title string          `json:"title" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"required,gt=0"`
}

func TestCheckAcceptsValid(t *testing.T) {
	assert.NoError(t, Check(priced{Title: "Dusk", Price: decimal.NewFromInt(100)}))
}

func TestCheckRejectsMissingTitleAndNonPositivePrice(t *testing.T) {
	errs := Validate(priced{Price: decimal.NewFromInt(-1)})
	assert.Equal(t, "required", errs["title"])
	assert.Equal(t, "gt", errs["price"])

	err := Check(priced{Title: "x"})
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "price")
}
