package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeCreate(t *testing.T) {
	spot := &Spot{ID: "s1", OwnerID: "owner"}

	assert.ErrorIs(t, AuthorizeCreate(spot, "owner"), ErrForbidden)
	assert.NoError(t, AuthorizeCreate(spot, "guest"))
}

func TestAuthorizeMutate(t *testing.T) {
	b := &Booking{
		ID:          "b1",
		SpotID:      "s1",
		UserID:      "guest",
		SpotOwnerID: "owner",
		StartDate:   mustDate("2024-01-05"),
		EndDate:     mustDate("2024-01-10"),
	}

	at := func(s string) time.Time { return mustDate(s).Add(15 * time.Hour) }

	tests := []struct {
		name      string
		requester string
		op        Operation
		now       time.Time
		wantErr   error
	}{
		// ==== Update ====
		{"Guest Updates Before Start", "guest", OpUpdate, at("2024-01-01"), nil},
		{"Guest Updates While In Progress", "guest", OpUpdate, at("2024-01-07"), nil},
		{"Guest Updates On End Date", "guest", OpUpdate, at("2024-01-10"), nil},
		{"Guest Updates Day After End", "guest", OpUpdate, mustDate("2024-01-11"), ErrPastBooking},
		{"Owner Cannot Update", "owner", OpUpdate, at("2024-01-01"), ErrForbidden},
		{"Stranger Cannot Update", "stranger", OpUpdate, at("2024-01-01"), ErrForbidden},
		{"Past Check Precedes Identity", "stranger", OpUpdate, at("2024-01-11"), ErrPastBooking},

		// ==== Delete ====
		{"Guest Deletes Before Start", "guest", OpDelete, at("2024-01-01"), nil},
		{"Owner Deletes Before Start", "owner", OpDelete, at("2024-01-04"), nil},
		{"Guest Deletes On Start Date", "guest", OpDelete, at("2024-01-05"), nil},
		{"Guest Deletes Day After Start", "guest", OpDelete, mustDate("2024-01-06"), ErrStarted},
		{"Owner Deletes After Start", "owner", OpDelete, at("2024-01-06"), ErrStarted},
		{"Stranger Cannot Delete", "stranger", OpDelete, at("2024-01-01"), ErrForbidden},
		{"Started Check Precedes Identity", "stranger", OpDelete, at("2024-01-08"), ErrStarted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := AuthorizeMutate(b, tc.requester, tc.op, tc.now)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("Unknown Operation", func(t *testing.T) {
		err := AuthorizeMutate(b, "guest", Operation(99), at("2024-01-01"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "operation(99)")
	})

	t.Run("Too Late Classification", func(t *testing.T) {
		assert.True(t, IsTooLate(ErrPastBooking))
		assert.True(t, IsTooLate(ErrStarted))
		assert.False(t, IsTooLate(ErrForbidden))
	})

	t.Run("Non UTC Clock Uses UTC Day", func(t *testing.T) {
		// 2024-01-10 22:00 at UTC-5 is 2024-01-11 in UTC.
		loc := time.FixedZone("UTC-5", -5*60*60)
		now := time.Date(2024, 1, 10, 22, 0, 0, 0, loc)
		assert.ErrorIs(t, AuthorizeMutate(b, "guest", OpUpdate, now), ErrPastBooking)
	})
}
