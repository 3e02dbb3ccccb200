package database_test

import (
	"testing"

	"parcel-payment/database"
	"parcel-payment/models/payment"
	"parcel-payment/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsRepeatable(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.Migrate(db))

	for _, table := range []string{"parcels", "payment", "parcel_payment_events", "logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&payment.Record{}, "idx_payment_parcel_transaction"))
}
