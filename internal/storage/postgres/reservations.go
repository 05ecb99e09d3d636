package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

const reservationColumns = "id, account_id, contact_name, contact_email, contact_phone, reserved_for, party_size, status, special_requests, created_at, updated_at"

type reservationRepository struct {
	storage *Storage
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var r model.Reservation
	if err := row.Scan(
		&r.ID,
		&r.AccountID,
		&r.Contact.Name,
		&r.Contact.Email,
		&r.Contact.Phone,
		&r.ReservedFor,
		&r.PartySize,
		&r.Status,
		&r.SpecialRequests,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *reservationRepository) Create(ctx context.Context, reservation model.Reservation) (*model.Reservation, error) {
	row := r.storage.db(ctx).QueryRow(ctx,
		`INSERT INTO reservations (account_id, contact_name, contact_email, contact_phone, reserved_for, party_size, status, special_requests)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, created_at, updated_at`,
		reservation.AccountID,
		reservation.Contact.Name,
		reservation.Contact.Email,
		reservation.Contact.Phone,
		reservation.ReservedFor,
		reservation.PartySize,
		reservation.Status,
		reservation.SpecialRequests,
	)
	if err := row.Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &reservation, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	reservation, err := scanReservation(r.storage.db(ctx).QueryRow(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=$1", id))
	if err != nil {
		return nil, mapError(err)
	}
	return reservation, nil
}

func (r *reservationRepository) ListByAccount(ctx context.Context, accountID int64) ([]model.Reservation, error) {
	rows, err := r.storage.db(ctx).Query(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE account_id=$1 ORDER BY reserved_for, id", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []model.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int64, from, to model.ReservationStatus) (*model.Reservation, error) {
	reservation, err := scanReservation(r.storage.db(ctx).QueryRow(ctx,
		"UPDATE reservations SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2 RETURNING "+reservationColumns,
		id, from, to,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domainErrors.ErrInvalidTransition
	}
	if err != nil {
		return nil, mapError(err)
	}
	return reservation, nil
}
