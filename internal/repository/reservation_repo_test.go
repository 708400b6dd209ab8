package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"hotelreserve/internal/database"
	"hotelreserve/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database shared across the
	// pool and serializes concurrent transactions
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedRoom(t *testing.T, db *gorm.DB, number string, roomType domain.RoomType, available bool) *domain.Room {
	t.Helper()

	room := &domain.Room{Number: number, Type: roomType, Available: available}
	require.NoError(t, NewRoomRepository(db).Create(context.Background(), room))
	return room
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()

	user := &domain.User{Username: username, PasswordHash: "x"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func dec(day int) time.Time {
	return time.Date(2025, 12, day, 0, 0, 0, 0, time.UTC)
}

func TestCreateIfNoOverlap_AdjacentBookingAllowed(t *testing.T) {
	db := openTestDB(t)
	repo := NewReservationRepository(db)
	room := seedRoom(t, db, "S-1", domain.RoomSingle, true)
	user := seedUser(t, db, "guest1")
	ctx := context.Background()

	created, err := repo.CreateIfNoOverlap(ctx, &domain.Reservation{
		Code: "code-a", UserID: user.ID, RoomID: room.ID, Checkin: dec(1), Checkout: dec(5),
	})
	require.NoError(t, err)
	require.True(t, created)

	// existing checkout == requested checkin: half-open ranges do not overlap
	created, err = repo.CreateIfNoOverlap(ctx, &domain.Reservation{
		Code: "code-b", UserID: user.ID, RoomID: room.ID, Checkin: dec(5), Checkout: dec(8),
	})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCreateIfNoOverlap_OverlapRejected(t *testing.T) {
	db := openTestDB(t)
	repo := NewReservationRepository(db)
	room := seedRoom(t, db, "S-1", domain.RoomSingle, true)
	user := seedUser(t, db, "guest1")
	ctx := context.Background()

	created, err := repo.CreateIfNoOverlap(ctx, &domain.Reservation{
		Code: "code-a", UserID: user.ID, RoomID: room.ID, Checkin: dec(1), Checkout: dec(5),
	})
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.CreateIfNoOverlap(ctx, &domain.Reservation{
		Code: "code-b", UserID: user.ID, RoomID: room.ID, Checkin: dec(3), Checkout: dec(7),
	})
	require.NoError(t, err)
	assert.False(t, created)

	// the rejected attempt left no partial state
	cnt, err := repo.CountOverlapping(ctx, room.ID, dec(1), dec(31))
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
}

func TestCreateIfNoOverlap_OtherRoomUnaffected(t *testing.T) {
	db := openTestDB(t)
	repo := NewReservationRepository(db)
	roomA := seedRoom(t, db, "S-1", domain.RoomSingle, true)
	roomB := seedRoom(t, db, "S-2", domain.RoomSingle, true)
	user := seedUser(t, db, "guest1")
	ctx := context.Background()

	created, err := repo.CreateIfNoOverlap(ctx, &domain.Reservation{
		Code: "code-a", UserID: user.ID, RoomID: roomA.ID, Checkin: dec(1), Checkout: dec(5),
	})
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.CreateIfNoOverlap(ctx, &domain.Reservation{
		Code: "code-b", UserID: user.ID, RoomID: roomB.ID, Checkin: dec(1), Checkout: dec(5),
	})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCreateIfNoOverlap_RoomOutOfService(t *testing.T) {
	db := openTestDB(t)
	repo := NewReservationRepository(db)
	room := seedRoom(t, db, "S-1", domain.RoomSingle, false)
	user := seedUser(t, db, "guest1")

	_, err := repo.CreateIfNoOverlap(context.Background(), &domain.Reservation{
		Code: "code-a", UserID: user.ID, RoomID: room.ID, Checkin: dec(1), Checkout: dec(5),
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateIfNoOverlap_ConcurrentOneWinner(t *testing.T) {
	db := openTestDB(t)
	repo := NewReservationRepository(db)
	room := seedRoom(t, db, "S-1", domain.RoomSingle, true)
	user := seedUser(t, db, "guest1")

	var wg sync.WaitGroup
	results := make([]bool, 2)
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = repo.CreateIfNoOverlap(context.Background(), &domain.Reservation{
				Code:    []string{"code-a", "code-b"}[i],
				UserID:  user.ID,
				RoomID:  room.ID,
				Checkin: dec(1), Checkout: dec(5),
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, results[0], results[1], "exactly one of two concurrent reserves must win")

	cnt, err := repo.CountOverlapping(context.Background(), room.ID, dec(1), dec(5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
}

func TestListByUserID_NewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewReservationRepository(db)
	room := seedRoom(t, db, "S-1", domain.RoomSingle, true)
	user := seedUser(t, db, "guest1")
	ctx := context.Background()

	for i, code := range []string{"code-a", "code-b"} {
		created, err := repo.CreateIfNoOverlap(ctx, &domain.Reservation{
			Code: code, UserID: user.ID, RoomID: room.ID,
			Checkin: dec(1 + 10*i), Checkout: dec(5 + 10*i),
		})
		require.NoError(t, err)
		require.True(t, created)
	}

	out, err := repo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "code-b", out[0].Code)
	assert.Equal(t, "code-a", out[1].Code)
}
