package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/innkeep/innkeep/internal/migration"
	"github.com/innkeep/innkeep/internal/reservation/domain"
	reservationrepo "github.com/innkeep/innkeep/internal/reservation/repository"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	roomrepo "github.com/innkeep/innkeep/internal/room/repository"
	staydomain "github.com/innkeep/innkeep/internal/stay/domain"
	stayrepo "github.com/innkeep/innkeep/internal/stay/repository"
	stayservice "github.com/innkeep/innkeep/internal/stay/service"
	"github.com/innkeep/innkeep/pkg/flextime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.Run(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	staySvc := stayservice.New(stayservice.Params{
		DB: db, Log: log, GenID: node, Repo: stayrepo.Provide(),
	})
	svc := New(Params{
		DB:       db,
		Log:      log,
		GenID:    node,
		Repo:     reservationrepo.Provide(),
		RoomRepo: roomrepo.Provide(),
		StaySvc:  staySvc,
	})
	return svc, db, node
}

func seedRoom(t *testing.T, db *gorm.DB, node *snowflake.Node, number string, status roomdomain.RoomStatus) {
	t.Helper()
	require.NoError(t, db.Create(&roomdomain.Room{
		ID: node.Generate(), RoomNumber: number, RoomType: "standard", Status: status,
	}).Error)
}

func createBooked(t *testing.T, svc domain.Service, rooms ...string) domain.Reservation {
	t.Helper()
	res, err := svc.Create(context.Background(), domain.CreateReservationRequest{
		CheckInDate:  flextime.Time{Time: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		CheckOutDate: flextime.Time{Time: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
		RoomNumbers:  rooms,
		Channel:      "direct",
		Adults:       2,
	})
	require.NoError(t, err)
	return res
}

func TestCreate_InvalidDates(t *testing.T) {
	svc, db, node := setupService(t)
	seedRoom(t, db, node, "101", roomdomain.RoomStatusAvailable)

	_, err := svc.Create(context.Background(), domain.CreateReservationRequest{
		CheckInDate:  flextime.Time{Time: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
		CheckOutDate: flextime.Time{Time: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		RoomNumbers:  []string{"101"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDates)
}

func TestCreate_UnknownRoom(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Create(context.Background(), domain.CreateReservationRequest{
		RoomNumbers: []string{"999"},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownRoom)
}

func TestCheckIn_OpensStaysAndOccupiesRooms(t *testing.T) {
	svc, db, node := setupService(t)
	seedRoom(t, db, node, "101", roomdomain.RoomStatusAvailable)
	seedRoom(t, db, node, "102", roomdomain.RoomStatusVacantClean)
	res := createBooked(t, svc, "101", "102")

	checked, err := svc.CheckIn(context.Background(), res.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, checked.Status)

	var rooms []roomdomain.Room
	require.NoError(t, db.Order("room_number asc").Find(&rooms).Error)
	require.Len(t, rooms, 2)
	assert.Equal(t, roomdomain.RoomStatusOccupied, rooms[0].Status)
	assert.Equal(t, roomdomain.RoomStatusOccupied, rooms[1].Status)

	var stays []staydomain.Stay
	require.NoError(t, db.Find(&stays).Error)
	require.Len(t, stays, 2)
	for _, stay := range stays {
		assert.Equal(t, staydomain.StayStatusOpen, stay.Status)
		require.NotNil(t, stay.ReservationID)
		assert.Equal(t, res.ID, *stay.ReservationID)
	}
}

func TestCheckIn_RejectsOccupiedRoom(t *testing.T) {
	svc, db, node := setupService(t)
	seedRoom(t, db, node, "101", roomdomain.RoomStatusOccupied)
	res := createBooked(t, svc, "101")

	_, err := svc.CheckIn(context.Background(), res.ID.String())
	assert.ErrorIs(t, err, domain.ErrRoomUnavailable)

	// The transaction rolled back: still booked, no stays.
	got, err := svc.GetByID(context.Background(), res.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, got.Status)

	var stayCount int64
	require.NoError(t, db.Model(&staydomain.Stay{}).Count(&stayCount).Error)
	assert.Zero(t, stayCount)
}

func TestCheckIn_RequiresBookedStatus(t *testing.T) {
	svc, db, node := setupService(t)
	seedRoom(t, db, node, "101", roomdomain.RoomStatusAvailable)
	res := createBooked(t, svc, "101")

	_, err := svc.Cancel(context.Background(), res.ID.String())
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), res.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotBooked)
}

func TestCheckOut_ClosesStaysAndDirtiesRooms(t *testing.T) {
	svc, db, node := setupService(t)
	seedRoom(t, db, node, "101", roomdomain.RoomStatusAvailable)
	res := createBooked(t, svc, "101")

	_, err := svc.CheckIn(context.Background(), res.ID.String())
	require.NoError(t, err)

	checkedOut, err := svc.CheckOut(context.Background(), res.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedOut, checkedOut.Status)

	var room roomdomain.Room
	require.NoError(t, db.Where("room_number = ?", "101").First(&room).Error)
	assert.Equal(t, roomdomain.RoomStatusVacantDirty, room.Status)

	var stay staydomain.Stay
	require.NoError(t, db.First(&stay).Error)
	assert.Equal(t, staydomain.StayStatusClosed, stay.Status)
	assert.NotNil(t, stay.ClosedAt)
}

func TestCheckOut_RequiresCheckedIn(t *testing.T) {
	svc, db, node := setupService(t)
	seedRoom(t, db, node, "101", roomdomain.RoomStatusAvailable)
	res := createBooked(t, svc, "101")

	_, err := svc.CheckOut(context.Background(), res.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotCheckedIn)
}

func TestCancel_OnlyFromBooked(t *testing.T) {
	svc, db, node := setupService(t)
	seedRoom(t, db, node, "101", roomdomain.RoomStatusAvailable)
	res := createBooked(t, svc, "101")

	cancelled, err := svc.Cancel(context.Background(), res.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	_, err = svc.Cancel(context.Background(), res.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestList_FiltersByStatus(t *testing.T) {
	svc, db, node := setupService(t)
	seedRoom(t, db, node, "101", roomdomain.RoomStatusAvailable)
	seedRoom(t, db, node, "102", roomdomain.RoomStatusAvailable)
	first := createBooked(t, svc, "101")
	createBooked(t, svc, "102")

	_, err := svc.Cancel(context.Background(), first.ID.String())
	require.NoError(t, err)

	resp, err := svc.List(context.Background(), domain.ListReservationRequest{Status: "booked"})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, domain.StatusBooked, resp.Reservations[0].Status)
}
