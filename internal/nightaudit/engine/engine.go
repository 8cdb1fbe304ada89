// Package engine implements the night-audit reconciliation checks. It is
// pure: it reads a loaded snapshot, emits typed issues and a summary, and
// never touches storage, so running it twice over the same snapshot yields
// the same result.
package engine

import (
	"fmt"
	"math"
	"time"

	foliodomain "github.com/innkeep/innkeep/internal/folio/domain"
	"github.com/innkeep/innkeep/internal/nightaudit/domain"
	reservationdomain "github.com/innkeep/innkeep/internal/reservation/domain"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	staydomain "github.com/innkeep/innkeep/internal/stay/domain"
	"gorm.io/datatypes"
)

// MismatchTolerance is the band within which a postings/payments
// difference is not flagged. Carried over from the historical audit
// process; changing it changes audit outcomes.
const MismatchTolerance = 0.5

// Reconcile runs the full battery of consistency checks over the snapshot
// for the given business day. Issues come back in check order; callers
// compare them as a set keyed by IssueKey.
func Reconcile(snap *domain.LoadedSnapshot, businessDay time.Time, runAt time.Time) ([]domain.Issue, domain.Summary) {
	dayKey := domain.BusinessDayKey(businessDay)

	reservationsByID := make(map[string]*reservationdomain.Reservation, len(snap.Reservations))
	for i := range snap.Reservations {
		r := &snap.Reservations[i]
		reservationsByID[r.ID.String()] = r
	}
	roomsByNumber := make(map[string]*roomdomain.Room, len(snap.Rooms))
	for i := range snap.Rooms {
		room := &snap.Rooms[i]
		roomsByNumber[room.RoomNumber] = room
	}
	postingsByReservation := make(map[string][]foliodomain.Posting)
	for _, p := range snap.Postings {
		key := p.ReservationID.String()
		postingsByReservation[key] = append(postingsByReservation[key], p)
	}
	paymentsByReservation := make(map[string][]foliodomain.Payment)
	for _, p := range snap.Payments {
		key := p.ReservationID.String()
		paymentsByReservation[key] = append(paymentsByReservation[key], p)
	}
	openStaysByRoom := make(map[string]int)
	for _, stay := range snap.Stays {
		if stay.Status == staydomain.StayStatusOpen {
			openStaysByRoom[stay.RoomNumber]++
		}
	}

	var issues []domain.Issue
	add := func(issueType domain.IssueType, message, reservationID, stayID, roomNumber string, context datatypes.JSONMap) {
		issues = append(issues, domain.Issue{
			IssueKey:      domain.Key(issueType, reservationID, stayID, roomNumber),
			Type:          issueType,
			Message:       message,
			ReservationID: reservationID,
			StayID:        stayID,
			RoomNumber:    roomNumber,
			BusinessDay:   dayKey,
			Context:       context,
		})
	}

	// Open stays against their reservations.
	for _, stay := range snap.Stays {
		if stay.Status != staydomain.StayStatusOpen {
			continue
		}
		stayID := stay.ID.String()

		if stay.ReservationID == nil {
			add(domain.IssueStayWithoutReservation,
				fmt.Sprintf("open stay in room %s has no reservation link", stay.RoomNumber),
				"", stayID, stay.RoomNumber, nil)
			continue
		}

		resID := stay.ReservationID.String()
		reservation, ok := reservationsByID[resID]
		if !ok {
			add(domain.IssueStayReservationMissing,
				fmt.Sprintf("open stay in room %s references missing reservation %s", stay.RoomNumber, resID),
				resID, stayID, stay.RoomNumber, nil)
			continue
		}

		switch {
		case reservation.CheckOutDate == nil:
			add(domain.IssueStayMissingCheckout,
				fmt.Sprintf("open stay in room %s: reservation has no checkout date", stay.RoomNumber),
				resID, stayID, stay.RoomNumber, nil)
		case reservation.CheckOutDate.Before(businessDay):
			add(domain.IssueStayPastCheckout,
				fmt.Sprintf("open stay in room %s: reservation checkout %s already passed",
					stay.RoomNumber, reservation.CheckOutDate.Format("2006-01-02")),
				resID, stayID, stay.RoomNumber, nil)
		}
	}

	// One pass over reservations: checks 5-7 plus the revenue, channel and
	// room-type aggregates.
	var totalRoomRevenue float64
	channelCounts := make(map[string]int)
	roomTypeCounts := make(map[string]int)

	for i := range snap.Reservations {
		reservation := &snap.Reservations[i]
		resID := reservation.ID.String()

		postings := postingsByReservation[resID]
		for _, p := range postings {
			totalRoomRevenue += p.Total()
		}

		channel := reservation.Channel
		if channel == "" {
			channel = "unknown"
		}
		channelCounts[channel]++

		roomType := "unknown"
		if len(reservation.RoomNumbers) > 0 {
			if room, ok := roomsByNumber[reservation.RoomNumbers[0]]; ok {
				roomType = room.RoomType
			}
		}
		roomTypeCounts[roomType]++

		firstRoom := ""
		if len(reservation.RoomNumbers) > 0 {
			firstRoom = reservation.RoomNumbers[0]
		}

		if reservation.Status == reservationdomain.StatusCheckedIn &&
			reservation.CheckInDate != nil && reservation.CheckInDate.Before(businessDay) {
			add(domain.IssueCheckedInPastCheckin,
				fmt.Sprintf("reservation %s is checked-in with check-in date %s before the business day",
					resID, reservation.CheckInDate.Format("2006-01-02")),
				resID, "", firstRoom, nil)
		}

		if reservation.Status == reservationdomain.StatusBooked &&
			reservation.CheckInDate != nil && reservation.CheckInDate.Before(businessDay) {
			add(domain.IssuePossibleNoShow,
				fmt.Sprintf("reservation %s was due to check in on %s and is still booked",
					resID, reservation.CheckInDate.Format("2006-01-02")),
				resID, "", firstRoom, nil)
		}

		totals := foliodomain.ComputeTotals(resID, postings, paymentsByReservation[resID])
		diff := math.Abs(totals.ChargeTotal - totals.PaymentTotal)
		if diff > MismatchTolerance && (totals.ChargeTotal != 0 || totals.PaymentTotal != 0) {
			add(domain.IssuePaymentsMismatch,
				fmt.Sprintf("reservation %s: postings %.2f vs payments %.2f", resID, totals.ChargeTotal, totals.PaymentTotal),
				resID, "", firstRoom, datatypes.JSONMap{
					"postings_total": totals.ChargeTotal,
					"payments_total": totals.PaymentTotal,
				})
		}
	}

	// Rooms marked occupied must have an open stay.
	roomsOccupied := 0
	for _, room := range snap.Rooms {
		if room.Status != roomdomain.RoomStatusOccupied {
			continue
		}
		roomsOccupied++
		if openStaysByRoom[room.RoomNumber] == 0 {
			add(domain.IssueRoomOccupiedNoStay,
				fmt.Sprintf("room %s is marked occupied but has no open stay", room.RoomNumber),
				"", "", room.RoomNumber, nil)
		}
	}

	summary := domain.Summary{
		RunAt:            runAt.UTC().Format(time.RFC3339),
		BusinessDay:      dayKey,
		RoomsTotal:       len(snap.Rooms),
		RoomsOccupied:    roomsOccupied,
		TotalRoomRevenue: math.Round(totalRoomRevenue),
		ChannelCounts:    channelCounts,
		RoomTypeCounts:   roomTypeCounts,
	}
	if summary.RoomsTotal > 0 {
		summary.OccupancyPct = math.Round(float64(roomsOccupied)/float64(summary.RoomsTotal)*10000) / 100
		summary.RevPAR = math.Round(totalRoomRevenue / float64(summary.RoomsTotal))
	}
	if roomsOccupied > 0 {
		summary.ADR = math.Round(totalRoomRevenue / float64(roomsOccupied))
	}

	return issues, summary
}

// Dedupe drops issues whose key an operator has already acknowledged.
// Acknowledged recurring problems stay invisible until the noticed flag is
// reset, which keeps repeated runs from re-alerting on known findings.
func Dedupe(issues []domain.Issue, noticedKeys map[string]bool) []domain.Issue {
	if len(noticedKeys) == 0 {
		return issues
	}
	fresh := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		if noticedKeys[issue.IssueKey] {
			continue
		}
		fresh = append(fresh, issue)
	}
	return fresh
}
