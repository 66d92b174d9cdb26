package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/model"
)

// BookingRepo provides persistence for bookings. Reference allocation and
// the insert happen inside one transaction so the scan-then-insert pattern
// cannot observe a stale maximum; the unique index on booking_reference
// still backstops the rare race between two transactions, which surfaces as
// ErrConflict for the caller to retry. All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, booking_reference, user_id, name, username, email, destination,
	start_date, end_date, duration, people, price_per_person, total_amount,
	payment_screenshot, verification_status, verified_by, verified_at,
	rejection_reason, suspension_reason, refunded_by, refunded_at, refund_reason, created_at`

// CreateWithReference allocates the next booking reference for the given
// year and inserts the booking in the same transaction. On success the
// generated ID, reference and creation time are populated on b. A duplicate
// reference (two transactions racing past the FOR UPDATE scan) is reported
// as ErrConflict; callers retry the whole allocation+insert as one unit.
func (r *BookingRepo) CreateWithReference(ctx context.Context, b *model.Booking, year int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Highest existing reference for the year. Fixed-width zero padding
	// makes lexicographic DESC equal to numeric DESC. FOR UPDATE serializes
	// concurrent allocators that reach the same gap.
	var last string
	err = tx.QueryRowContext(ctx,
		`SELECT booking_reference FROM bookings
		 WHERE booking_reference LIKE ?
		 ORDER BY booking_reference DESC LIMIT 1 FOR UPDATE`,
		booking.YearPrefix(year)+"%").Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	ref, err := booking.NextReference(last, year)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (booking_reference, user_id, name, username, email, destination,
			start_date, end_date, duration, people, price_per_person, total_amount,
			payment_screenshot, verification_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref, b.UserID, b.Name, b.Username, b.Email, b.Destination,
		b.StartDate, b.EndDate, b.Duration, b.People, b.PricePerPerson, b.TotalAmount,
		b.PaymentScreenshot, string(booking.StatusPending))
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	b.ID = uint64(id)
	b.BookingReference = ref
	b.Status = booking.StatusPending
	b.CreatedAt = time.Now().UTC()
	return nil
}

// GetByID returns a single booking or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListAll returns every booking, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC, id DESC`)
}

// ListByUser returns the bookings owned by userID, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
}

// UpdateStatus applies a verification transition as a compare-and-swap on
// the current status: only the columns carried by eff are written, and only
// when the row still holds the expected source status. Zero rows affected
// means the booking changed (or vanished) under the caller and is reported
// as ErrConflict.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to booking.Status, eff booking.Effects) error {
	sets := []string{"verification_status = ?"}
	args := []interface{}{string(to)}
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if eff.VerifiedBy != nil {
		add("verified_by", *eff.VerifiedBy)
	}
	if eff.VerifiedAt != nil {
		add("verified_at", *eff.VerifiedAt)
	}
	if eff.RejectionReason != nil {
		add("rejection_reason", *eff.RejectionReason)
	}
	if eff.SuspensionReason != nil {
		add("suspension_reason", *eff.SuspensionReason)
	}
	if eff.RefundedBy != nil {
		add("refunded_by", *eff.RefundedBy)
	}
	if eff.RefundedAt != nil {
		add("refunded_at", *eff.RefundedAt)
	}
	if eff.RefundReason != nil {
		add("refund_reason", *eff.RefundReason)
	}
	args = append(args, id, string(from))

	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id = ? AND verification_status = ?`,
		args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// AttachScreenshot stores the payment evidence for a pending booking owned
// by userID. Zero rows affected (wrong owner, wrong status, missing row) is
// reported as ErrConflict; callers that need finer-grained errors load the
// booking first.
func (r *BookingRepo) AttachScreenshot(ctx context.Context, id, userID uint64, screenshot string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_screenshot = ?
		 WHERE id = ? AND user_id = ? AND verification_status = ?`,
		screenshot, id, userID, string(booking.StatusPending))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Delete hard-removes a booking. Authorization and the refunded-state rule
// are enforced by the service before this is called.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(rs rowScanner) (*model.Booking, error) {
	var (
		b          model.Booking
		status     string
		screenshot sql.NullString
		verBy      sql.NullInt64
		verAt      sql.NullTime
		rejReason  sql.NullString
		susReason  sql.NullString
		refBy      sql.NullInt64
		refAt      sql.NullTime
		refReason  sql.NullString
	)
	err := rs.Scan(
		&b.ID, &b.BookingReference, &b.UserID, &b.Name, &b.Username, &b.Email, &b.Destination,
		&b.StartDate, &b.EndDate, &b.Duration, &b.People, &b.PricePerPerson, &b.TotalAmount,
		&screenshot, &status, &verBy, &verAt,
		&rejReason, &susReason, &refBy, &refAt, &refReason, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = booking.Status(status)
	if screenshot.Valid {
		s := screenshot.String
		b.PaymentScreenshot = &s
	}
	if verBy.Valid {
		v := uint64(verBy.Int64)
		b.VerifiedBy = &v
	}
	if verAt.Valid {
		t := verAt.Time.UTC()
		b.VerifiedAt = &t
	}
	if rejReason.Valid {
		s := rejReason.String
		b.RejectionReason = &s
	}
	if susReason.Valid {
		s := susReason.String
		b.SuspensionReason = &s
	}
	if refBy.Valid {
		v := uint64(refBy.Int64)
		b.RefundedBy = &v
	}
	if refAt.Valid {
		t := refAt.Time.UTC()
		b.RefundedAt = &t
	}
	if refReason.Valid {
		s := refReason.String
		b.RefundReason = &s
	}
	return &b, nil
}

// isDuplicate matches MySQL error 1062 (duplicate entry for a unique key).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
