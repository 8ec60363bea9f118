package cart

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	burger = Product{ID: "p-burger", Name: "Burger", Price: dec("8.99")}
	fries  = Product{ID: "p-fries", Name: "Fries", Price: dec("3.49")}
	water  = Product{ID: "p-water", Name: "Water", Price: decimal.Zero}
)

func assertConsistent(t *testing.T, o Order) {
	t.Helper()
	sum := decimal.Zero
	for _, item := range o.Items {
		require.GreaterOrEqual(t, item.Quantity, 1)
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	require.True(t, o.Totals.Subtotal.Equal(sum), "subtotal %s != %s", o.Totals.Subtotal, sum)
	require.True(t, o.Totals.Tax.Equal(sum.Mul(dec("0.0825"))), "tax %s", o.Totals.Tax)
	want := decimal.Max(decimal.Zero, sum.Add(o.Totals.Tax).Sub(o.Discount))
	require.True(t, o.Totals.Total.Equal(want), "total %s != %s", o.Totals.Total, want)
	require.False(t, o.Totals.Total.IsNegative())
}

func TestAddItemMergesByProduct(t *testing.T) {
	t.Parallel()
	c := New()

	first := c.AddItem(burger)
	require.Len(t, first.Items, 1)
	rowID := first.Items[0].ID

	second := c.AddItem(burger)
	require.Len(t, second.Items, 1)
	assert.Equal(t, 2, second.Items[0].Quantity)
	assert.Equal(t, rowID, second.Items[0].ID, "row id must survive merges")
	assert.NotEqual(t, uuid.Nil, rowID)
	assertConsistent(t, second)
}

func TestAddItemKeepsFirstPriceSnapshot(t *testing.T) {
	t.Parallel()
	c := New()
	c.AddItem(burger)

	repriced := burger
	repriced.Price = dec("12.00")
	o := c.AddItem(repriced)

	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].UnitPrice.Equal(dec("8.99")))
	assert.True(t, o.Totals.Subtotal.Equal(dec("17.98")))
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	t.Parallel()
	c := New()
	c.AddItem(fries)
	c.AddItem(burger)
	o := c.AddItem(fries)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "p-fries", o.Items[0].ProductID)
	assert.Equal(t, "p-burger", o.Items[1].ProductID)
	assert.Equal(t, 3, o.ItemCount())
}

func TestAddItemAcceptsZeroPriceAndDuplicateNames(t *testing.T) {
	t.Parallel()
	c := New()
	c.AddItem(water)
	o := c.AddItem(Product{ID: "p-water-2", Name: "Water", Price: dec("1.00")})

	require.Len(t, o.Items, 2)
	assertConsistent(t, o)
	assert.True(t, o.Totals.Subtotal.Equal(dec("1.00")))
}

func TestSetQuantity(t *testing.T) {
	t.Parallel()
	c := New()
	o := c.AddItem(burger)
	id := o.Items[0].ID

	o = c.SetQuantity(id, 5)
	assert.Equal(t, 5, o.Items[0].Quantity)
	assertConsistent(t, o)

	o = c.SetQuantity(uuid.New(), 9)
	assert.Equal(t, 5, o.Items[0].Quantity, "unknown id must be a no-op")
}

func TestSetQuantityNonPositiveMatchesRemove(t *testing.T) {
	t.Parallel()
	for _, qty := range []int{0, -1, -40} {
		viaQuantity := New()
		viaRemove := New()
		for _, c := range []*Cart{viaQuantity, viaRemove} {
			c.AddItem(burger)
			c.AddItem(fries)
		}
		burgerRow, _ := viaQuantity.Snapshot().ItemForProduct(burger.ID)
		removeRow, _ := viaRemove.Snapshot().ItemForProduct(burger.ID)

		a := viaQuantity.SetQuantity(burgerRow.ID, qty)
		b := viaRemove.RemoveItem(removeRow.ID)

		require.Len(t, a.Items, 1, "qty %d", qty)
		require.Len(t, b.Items, 1)
		assert.Equal(t, a.Items[0].ProductID, b.Items[0].ProductID)
		assert.True(t, a.Totals.Total.Equal(b.Totals.Total))
	}
}

func TestRemoveItemUnknownIsNoop(t *testing.T) {
	t.Parallel()
	c := New()
	c.AddItem(burger)
	o := c.RemoveItem(uuid.New())
	require.Len(t, o.Items, 1)
	assertConsistent(t, o)
}

func TestSetDiscount(t *testing.T) {
	t.Parallel()
	c := New()
	c.AddItem(burger)
	c.AddItem(burger)

	o, err := c.SetDiscount(dec("5"))
	require.NoError(t, err)
	assert.True(t, o.Totals.Total.Equal(dec("14.46335")), "total %s", o.Totals.Total)

	o, err = c.SetDiscount(dec("-1"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.True(t, o.Discount.Equal(dec("5")), "negative discount must not change state")

	o, err = c.SetDiscount(dec("500"))
	require.NoError(t, err)
	assert.True(t, o.Totals.Total.IsZero(), "total clamps at zero")
	assertConsistent(t, o)
}

func TestDiscountSurvivesItemChangesAndEmptyOrder(t *testing.T) {
	t.Parallel()
	c := New()
	_, err := c.SetDiscount(dec("2"))
	require.NoError(t, err)

	o := c.AddItem(fries)
	assert.True(t, o.Discount.Equal(dec("2")))
	o = c.RemoveItem(o.Items[0].ID)
	assert.True(t, o.Discount.Equal(dec("2")))
	assert.True(t, o.Totals.Total.IsZero())
}

func TestSetCustomerDoesNotAffectTotals(t *testing.T) {
	t.Parallel()
	c := New()
	before := c.AddItem(burger)
	after := c.SetCustomer("cust-1", "Ada")

	assert.Equal(t, "cust-1", after.CustomerID)
	assert.Equal(t, "Ada", after.CustomerName)
	assert.True(t, before.Totals.Total.Equal(after.Totals.Total))
}

func TestClear(t *testing.T) {
	t.Parallel()
	c := New()
	c.AddItem(burger)
	c.SetCustomer("cust-1", "Ada")
	_, err := c.SetDiscount(dec("3"))
	require.NoError(t, err)

	o := c.Clear()
	assert.True(t, o.IsEmpty())
	assert.Empty(t, o.CustomerID)
	assert.Empty(t, o.CustomerName)
	assert.True(t, o.Discount.IsZero())
	assert.True(t, o.Totals.Subtotal.IsZero())
	assert.True(t, o.Totals.Total.IsZero())
}

func TestSnapshotIsolation(t *testing.T) {
	t.Parallel()
	c := New()
	snap := c.AddItem(burger)
	snap.Items[0].Quantity = 99

	live := c.Snapshot()
	assert.Equal(t, 1, live.Items[0].Quantity)

	c.AddItem(burger)
	assert.Equal(t, 99, snap.Items[0].Quantity, "later mutations must not reach old snapshots")
}

func TestSettleClearsOnlyOnSuccess(t *testing.T) {
	t.Parallel()
	c := New()
	c.AddItem(burger)

	boom := pkgerrors.New(pkgerrors.CodeInternal, "boom")
	err := c.Settle(func(Order) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Len(t, c.Snapshot().Items, 1)

	var captured Order
	require.NoError(t, c.Settle(func(o Order) error {
		captured = o
		return nil
	}))
	assert.Len(t, captured.Items, 1)
	assert.True(t, c.Snapshot().IsEmpty())
}

func TestWithIDGenerator(t *testing.T) {
	t.Parallel()
	fixed := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	c := New(WithIDGenerator(func() uuid.UUID { return fixed }))
	o := c.AddItem(burger)
	assert.Equal(t, fixed, o.Items[0].ID)
	_, ok := o.Item(fixed)
	assert.True(t, ok)
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	t.Parallel()
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddItem(burger)
		}()
	}
	wg.Wait()

	o := c.Snapshot()
	require.Len(t, o.Items, 1)
	assert.Equal(t, 50, o.Items[0].Quantity)
	assertConsistent(t, o)
}
