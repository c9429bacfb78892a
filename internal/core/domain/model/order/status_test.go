package order_test

import (
	"testing"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []order.Status{
	order.Pending, order.Confirmed, order.Preparing, order.Ready, order.Delivered, order.Canceled,
}

func TestStatus_TransitionTo(t *testing.T) {
	tests := []struct {
		from, to order.Status
		ok       bool
	}{
		{order.Pending, order.Confirmed, true},
		{order.Confirmed, order.Preparing, true},
		{order.Preparing, order.Ready, true},
		{order.Ready, order.Delivered, true},
		{order.Pending, order.Delivered, true},
		{order.Confirmed, order.Ready, true},
		{order.Pending, order.Canceled, true},
		{order.Ready, order.Canceled, true},
		{order.Pending, order.Pending, false},
		{order.Ready, order.Preparing, false},
		{order.Confirmed, order.Pending, false},
		{order.Delivered, order.Canceled, false},
		{order.Canceled, order.Pending, false},
		{order.Canceled, order.Canceled, false},
		{order.Delivered, order.Delivered, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			next, err := tt.from.TransitionTo(tt.to)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next)
				return
			}
			require.ErrorIs(t, err, errs.ErrInvalidState)
			assert.Equal(t, order.UnknownStatus, next)
		})
	}
}

func TestStatus_TransitionToInvalidTarget(t *testing.T) {
	_, err := order.Pending.TransitionTo(order.UnknownStatus)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Cancel(t *testing.T) {
	for _, s := range allStatuses {
		next, err := s.Cancel()
		if s.IsTerminal() {
			require.ErrorIs(t, err, errs.ErrInvalidState, s.String())
			continue
		}
		require.NoError(t, err, s.String())
		assert.Equal(t, order.Canceled, next)
	}
}

func TestStatus_Predicates(t *testing.T) {
	for _, s := range allStatuses {
		assert.Equal(t, s == order.Delivered || s == order.Canceled, s.IsTerminal(), s.String())
		assert.Equal(t, s == order.Pending || s == order.Confirmed || s == order.Preparing,
			s.AllowsItemChanges(), s.String())
		require.NoError(t, s.Validate())
	}
	require.Error(t, order.UnknownStatus.Validate())
	require.Error(t, order.Status(42).Validate())
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		parsed, err := order.ParseStatus(" " + s.String() + " ")
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := order.ParseStatus("entregue")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, "unknown", order.UnknownStatus.String())
	assert.Equal(t, "Entregue", order.Delivered.Label())
}
