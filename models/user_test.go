package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_CanJoinSession(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		canJoin bool
	}{
		{name: "positive balance", balance: 100, canJoin: true},
		{name: "zero balance", balance: 0, canJoin: true},
		{name: "one above the floor", balance: MinJoinBalance + 1, canJoin: true},
		{name: "exactly at the floor", balance: MinJoinBalance, canJoin: false},
		{name: "below the floor", balance: MinJoinBalance - 1, canJoin: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{CreditBalance: tt.balance}
			assert.Equal(t, tt.canJoin, u.CanJoinSession())
		})
	}
}
