package parcel_store

import (
	"context"
	"sync"
	"testing"
	"time"

	"parcel-payment/errs"
	"parcel-payment/models/parcel"
	"parcel-payment/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns a clock that advances one minute per call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Minute)
		return current
	}
}

func newStore(t *testing.T) *Store {
	return NewStore(testutil.NewDB(t)).WithClock(steppingClock())
}

func newParcel(email string, weight, cost string) *parcel.Parcel {
	return &parcel.Parcel{
		Email:  email,
		Weight: decimal.RequireFromString(weight),
		Cost:   decimal.RequireFromString(cost),
	}
}

func TestCreateAndGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, newParcel("a@b.com", "2.5", "150"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)
	assert.True(t, got.Weight.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, got.Cost.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, parcel.PaymentStatusUnpaid, got.PaymentStatus)
	assert.Nil(t, got.TransactionID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateIgnoresClientControlledFields(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	clientID := uuid.New()
	tx := "forged"
	p := newParcel("a@b.com", "1", "10")
	p.ID = clientID
	p.PaymentStatus = parcel.PaymentStatusPaid
	p.TransactionID = &tx

	id, err := store.Create(ctx, p)
	require.NoError(t, err)
	assert.NotEqual(t, clientID, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, parcel.PaymentStatusUnpaid, got.PaymentStatus)
	assert.Nil(t, got.TransactionID)
}

func TestCreateRequiresEmail(t *testing.T) {
	store := newStore(t)

	for _, email := range []string{"", "   "} {
		_, err := store.Create(context.Background(), newParcel(email, "1", "1"))
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	}
}

func TestGetMissing(t *testing.T) {
	store := newStore(t)

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestListFiltersAndOrdersNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, newParcel("a@b.com", "1", "10"))
	require.NoError(t, err)
	_, err = store.Create(ctx, newParcel("other@b.com", "1", "10"))
	require.NoError(t, err)
	third, err := store.Create(ctx, newParcel("a@b.com", "1", "10"))
	require.NoError(t, err)

	mine, err := store.List(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, third, mine[0].ID)
	assert.Equal(t, first, mine[1].ID)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	none, err := store.List(ctx, "nobody@b.com")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, newParcel("a@b.com", "1", "10"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, id), errs.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, uuid.New()), errs.ErrNotFound)
}

func TestMarkPaid(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, newParcel("a@b.com", "1", "10"))
	require.NoError(t, err)

	require.NoError(t, store.MarkPaid(ctx, id, "tx1", parcel.PaymentStatusUnpaid))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, parcel.PaymentStatusPaid, got.PaymentStatus)
	require.NotNil(t, got.TransactionID)
	assert.Equal(t, "tx1", *got.TransactionID)

	events, err := store.PaymentEvents(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, parcel.PaymentStatusUnpaid, events[0].FromStatus)
	assert.Equal(t, parcel.PaymentStatusPaid, events[0].ToStatus)
	assert.Equal(t, "tx1", events[0].TransactionID)
}

func TestMarkPaidAlreadyPaidConflicts(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, newParcel("a@b.com", "1", "10"))
	require.NoError(t, err)
	require.NoError(t, store.MarkPaid(ctx, id, "tx1", parcel.PaymentStatusUnpaid))

	err = store.MarkPaid(ctx, id, "tx2", parcel.PaymentStatusUnpaid)
	assert.ErrorIs(t, err, errs.ErrConflict)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tx1", *got.TransactionID)

	events, err := store.PaymentEvents(ctx, id)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestMarkPaidErrors(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	err := store.MarkPaid(ctx, uuid.New(), "tx1", parcel.PaymentStatusUnpaid)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	id, err := store.Create(ctx, newParcel("a@b.com", "1", "10"))
	require.NoError(t, err)

	assert.ErrorIs(t, store.MarkPaid(ctx, id, " ", parcel.PaymentStatusUnpaid), errs.ErrInvalidInput)
	assert.ErrorIs(t, store.MarkPaid(ctx, id, "tx1", parcel.PaymentStatusPaid), errs.ErrInvalidState)
	assert.ErrorIs(t, store.MarkPaid(ctx, id, "tx1", parcel.PaymentStatus("refunded")), errs.ErrInvalidInput)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, parcel.PaymentStatusUnpaid, got.PaymentStatus)
}

func TestMarkPaidConcurrentExactlyOneWins(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, newParcel("a@b.com", "1", "10"))
	require.NoError(t, err)

	const n = 8
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.MarkPaid(ctx, id, uuid.NewString(), parcel.PaymentStatusUnpaid)
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicts int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errs.ErrConflict)
		conflicts++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)

	events, err := store.PaymentEvents(ctx, id)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestDeleteKeepsPaymentEvents(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, newParcel("a@b.com", "1", "10"))
	require.NoError(t, err)
	require.NoError(t, store.MarkPaid(ctx, id, "tx1", parcel.PaymentStatusUnpaid))
	require.NoError(t, store.Delete(ctx, id))

	events, err := store.PaymentEvents(ctx, id)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
