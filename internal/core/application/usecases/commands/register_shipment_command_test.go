package commands_test

import (
	"testing"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegisterShipmentCommand(t *testing.T) {
	t.Run("valid command trims free-text fields", func(t *testing.T) {
		id := kernel.NewUUID()

		cmd, err := commands.NewRegisterShipmentCommand(
			id, " S-1042 ", " 0012345678 ", " ACS Courier ", " 2101234567 ", "",
		)

		require.NoError(t, err)
		assert.True(t, cmd.ShipmentID().IsEqual(id))
		assert.Equal(t, "S-1042", cmd.OrderNumber())
		assert.Equal(t, " 0012345678 ", cmd.RawVoucher())
		assert.Equal(t, "ACS Courier", cmd.ClaimedCourier())
		assert.Equal(t, "2101234567", cmd.BillingPhone())
		assert.Empty(t, cmd.ShippingPhone())
		assert.NoError(t, cmd.Validate())
	})

	t.Run("blank voucher is rejected", func(t *testing.T) {
		_, err := commands.NewRegisterShipmentCommand(kernel.NewUUID(), "S-1", "   ", "", "", "")
		require.ErrorIs(t, err, commands.ErrRawVoucherIsRequired)
	})

	t.Run("zero shipment id is rejected", func(t *testing.T) {
		_, err := commands.NewRegisterShipmentCommand(kernel.UUID{}, "S-1", "0012345678", "", "", "")
		require.Error(t, err)
	})

	t.Run("zero value fails the constructor guard", func(t *testing.T) {
		var cmd commands.RegisterShipmentCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrRegisterShipmentCommandIsNotConstructed)
	})
}
