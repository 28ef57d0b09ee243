package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padec243-alt/Padec-Connect-sub000/services/catalog"
)

var (
	productA = catalog.Product{ID: "a", Name: "Product A", Price: 100}
	productB = catalog.Product{ID: "b", Name: "Product B", Price: 50}
)

func TestAddIncrementsExistingLine(t *testing.T) {
	s := NewStore()

	s.Add(productA)
	s.Add(productA)
	s.Add(productB)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, "a", items[0].Product.ID, "insertion order is kept")
}

func TestTotalsScenario(t *testing.T) {
	s := NewStore()

	s.Add(productA)
	s.Add(productA)
	s.Add(productB)

	assert.Equal(t, 250.0, s.Total())
	assert.Equal(t, 3, s.ItemCount())
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	viaUpdate := NewStore()
	viaRemove := NewStore()
	for _, s := range []*Store{viaUpdate, viaRemove} {
		s.Add(productA)
		s.Add(productB)
	}

	viaUpdate.UpdateQuantity("a", 0)
	viaRemove.Remove("a")

	assert.Equal(t, viaRemove.Items(), viaUpdate.Items())
	assert.Equal(t, viaRemove.Total(), viaUpdate.Total())
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	s := NewStore()
	s.Add(productA)

	s.UpdateQuantity("a", -3)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.ItemCount())
}

func TestUpdateQuantityUnknownProductIsNoOp(t *testing.T) {
	s := NewStore()
	s.Add(productA)

	s.UpdateQuantity("ghost", 5)

	require.Len(t, s.Items(), 1)
	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestInvariantAcrossOperationSequences(t *testing.T) {
	s := NewStore()

	s.Add(productA)
	s.Add(productB)
	s.Add(productA)
	s.UpdateQuantity("b", 4)
	s.Remove("a")
	s.Add(productA)
	s.UpdateQuantity("a", 0)
	s.Add(productB)

	// itemCount equals the sum of quantities and no zero-quantity line
	// survives, regardless of the operation order.
	sum := 0
	for _, item := range s.Items() {
		require.GreaterOrEqual(t, item.Quantity, 1)
		sum += item.Quantity
	}
	assert.Equal(t, sum, s.ItemCount())
	assert.Equal(t, 5, s.ItemCount())
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Add(productA)
	s.Add(productB)

	s.Clear()

	assert.Empty(t, s.Items())
	assert.Equal(t, 0.0, s.Total())
	assert.Equal(t, 0, s.ItemCount())
}
