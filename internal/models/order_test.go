package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		status, err := ParseOrderStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, OrderStatus(s), status)
	}
}

func TestParseOrderStatusRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "refunded", "PENDING", "Pending ", "canceled"} {
		_, err := ParseOrderStatus(s)
		assert.Error(t, err, "valeur %q", s)
	}
}
