package spot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines data access methods for spots.
//
// available_slots is only ever moved relative to its stored value:
// ReserveSlot and ReleaseSlot shift it by one conditionally, and Update
// shifts it by a resize delta. Reading the counter and writing it back
// would reintroduce the race the conditional update exists to prevent.
type Repository interface {
	Create(ctx context.Context, s *Spot) error
	GetByID(ctx context.Context, id string) (*Spot, error)
	List(ctx context.Context, filter Filter) ([]*Spot, int, error)
	ListWithin(ctx context.Context, box BoundingBox) ([]*Spot, error)
	// Update writes every editable field except available_slots, which is
	// never taken from s: it is shifted by slotsDelta in the same
	// statement, clamped into [0, total_slots], so a concurrent reserve or
	// release is not overwritten. Pass 0 when total_slots is unchanged.
	Update(ctx context.Context, s *Spot, slotsDelta int) error
	Delete(ctx context.Context, id string) error
	SetImageURL(ctx context.Context, id, url string) error

	// ReserveSlot atomically decrements available_slots if it is > 0 and
	// returns the post-update spot. Returns ErrSlotsSoldOut when no row
	// matched the condition, ErrNotFound when the spot does not exist.
	ReserveSlot(ctx context.Context, id string) (*Spot, error)

	// ReleaseSlot increments available_slots by one, capped at total_slots.
	ReleaseSlot(ctx context.Context, id string) error
}

const spotColumns = `id, name, parking_type,
	full_address, locality, landmark, city, state, pincode,
	latitude, longitude, total_slots, available_slots, operating_hours,
	currency, hourly_rate, daily_rate, monthly_rate,
	amenities, allowed_vehicle_types, image_url, special_instructions,
	created_at, updated_at`

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanSpot(row pgx.Row) (*Spot, error) {
	var s Spot
	var amenityValues, vehicleValues []string
	err := row.Scan(
		&s.ID, &s.Name, &s.ParkingType,
		&s.Address.FullAddress, &s.Address.Locality, &s.Address.Landmark,
		&s.Address.City, &s.Address.State, &s.Address.Pincode,
		&s.Latitude, &s.Longitude, &s.TotalSlots, &s.AvailableSlots, &s.OperatingHours,
		&s.Pricing.Currency, &s.Pricing.HourlyRate, &s.Pricing.DailyRate, &s.Pricing.MonthlyRate,
		&amenityValues, &vehicleValues, &s.ImageURL, &s.SpecialInstructions,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, a := range amenityValues {
		s.Amenities = append(s.Amenities, Amenity(a))
	}
	for _, v := range vehicleValues {
		s.AllowedVehicleTypes = append(s.AllowedVehicleTypes, VehicleType(v))
	}
	return &s, nil
}

func amenityStrings(in []Amenity) []string {
	out := make([]string, len(in))
	for i, a := range in {
		out[i] = string(a)
	}
	return out
}

func vehicleStrings(in []VehicleType) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func (r *pgxRepository) Create(ctx context.Context, s *Spot) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.spots").
		Columns(
			"name", "parking_type",
			"full_address", "locality", "landmark", "city", "state", "pincode",
			"latitude", "longitude", "total_slots", "available_slots", "operating_hours",
			"currency", "hourly_rate", "daily_rate", "monthly_rate",
			"amenities", "allowed_vehicle_types", "image_url", "special_instructions",
		).
		Values(
			s.Name, s.ParkingType,
			s.Address.FullAddress, s.Address.Locality, s.Address.Landmark,
			s.Address.City, s.Address.State, s.Address.Pincode,
			s.Latitude, s.Longitude, s.TotalSlots, s.AvailableSlots, s.OperatingHours,
			s.Pricing.Currency, s.Pricing.HourlyRate, s.Pricing.DailyRate, s.Pricing.MonthlyRate,
			amenityStrings(s.Amenities), vehicleStrings(s.AllowedVehicleTypes),
			s.ImageURL, s.SpecialInstructions,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create spot query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("create spot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Spot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(spotColumns).
		From("public.spots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get spot query failed: %w", err)
	}

	s, err := scanSpot(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get spot failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Spot, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(spotColumns + ", count(*) OVER() as total_count").
		From("public.spots")

	if filter.City != "" {
		query = query.Where(squirrel.ILike{"city": filter.City})
	}
	if filter.ParkingType != "" {
		query = query.Where(squirrel.Eq{"parking_type": filter.ParkingType})
	}
	if filter.VehicleType != "" {
		// Empty allowed set means every vehicle type is admitted.
		query = query.Where(squirrel.Or{
			squirrel.Expr("allowed_vehicle_types = '{}'"),
			squirrel.Expr("? = ANY(allowed_vehicle_types)", filter.VehicleType),
		})
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"full_address": pattern},
		})
	}

	query = query.OrderBy("created_at DESC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list spots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list spots failed: %w", err)
	}
	defer rows.Close()

	var spots []*Spot
	var total int

	for rows.Next() {
		var s Spot
		var amenityValues, vehicleValues []string
		if err := rows.Scan(
			&s.ID, &s.Name, &s.ParkingType,
			&s.Address.FullAddress, &s.Address.Locality, &s.Address.Landmark,
			&s.Address.City, &s.Address.State, &s.Address.Pincode,
			&s.Latitude, &s.Longitude, &s.TotalSlots, &s.AvailableSlots, &s.OperatingHours,
			&s.Pricing.Currency, &s.Pricing.HourlyRate, &s.Pricing.DailyRate, &s.Pricing.MonthlyRate,
			&amenityValues, &vehicleValues, &s.ImageURL, &s.SpecialInstructions,
			&s.CreatedAt, &s.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan spot failed: %w", err)
		}
		for _, a := range amenityValues {
			s.Amenities = append(s.Amenities, Amenity(a))
		}
		for _, v := range vehicleValues {
			s.AllowedVehicleTypes = append(s.AllowedVehicleTypes, VehicleType(v))
		}
		spots = append(spots, &s)
	}

	return spots, total, nil
}

func (r *pgxRepository) ListWithin(ctx context.Context, box BoundingBox) ([]*Spot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(spotColumns).
		From("public.spots").
		Where(squirrel.GtOrEq{"latitude": box.MinLat}).
		Where(squirrel.LtOrEq{"latitude": box.MaxLat}).
		Where(squirrel.GtOrEq{"longitude": box.MinLng}).
		Where(squirrel.LtOrEq{"longitude": box.MaxLng}).
		OrderBy("created_at DESC").
		Limit(100).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build nearby spots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("nearby spots failed: %w", err)
	}
	defer rows.Close()

	var spots []*Spot
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan spot failed: %w", err)
		}
		spots = append(spots, s)
	}
	return spots, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *Spot, slotsDelta int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.spots").
		Set("name", s.Name).
		Set("parking_type", s.ParkingType).
		Set("full_address", s.Address.FullAddress).
		Set("locality", s.Address.Locality).
		Set("landmark", s.Address.Landmark).
		Set("city", s.Address.City).
		Set("state", s.Address.State).
		Set("pincode", s.Address.Pincode).
		Set("latitude", s.Latitude).
		Set("longitude", s.Longitude).
		Set("total_slots", s.TotalSlots).
		// Resize moves the live counter by the delta instead of writing a
		// previously-read value back over concurrent reservations.
		Set("available_slots", squirrel.Expr(
			"LEAST(GREATEST(available_slots + ?, 0), ?)", slotsDelta, s.TotalSlots)).
		Set("operating_hours", s.OperatingHours).
		Set("currency", s.Pricing.Currency).
		Set("hourly_rate", s.Pricing.HourlyRate).
		Set("daily_rate", s.Pricing.DailyRate).
		Set("monthly_rate", s.Pricing.MonthlyRate).
		Set("amenities", amenityStrings(s.Amenities)).
		Set("allowed_vehicle_types", vehicleStrings(s.AllowedVehicleTypes)).
		Set("special_instructions", s.SpecialInstructions).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update spot query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update spot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.spots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete spot query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete spot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetImageURL(ctx context.Context, id, url string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.spots").
		Set("image_url", url).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set image url query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set image url failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ReserveSlot(ctx context.Context, id string) (*Spot, error) {
	// The RETURNING row is the proof that this request won a slot; no
	// separate read happens after the decrement.
	query := `UPDATE public.spots
		SET available_slots = available_slots - 1, updated_at = now()
		WHERE id = $1 AND available_slots > 0
		RETURNING ` + spotColumns

	s, err := scanSpot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the spot vanished or a concurrent request consumed
			// the last slot. Distinguish for the caller.
			if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, ErrSlotsSoldOut
		}
		return nil, fmt.Errorf("reserve slot failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) ReleaseSlot(ctx context.Context, id string) error {
	// LEAST keeps 0 <= available_slots <= total_slots even if a release
	// races with an admin resize.
	query := `UPDATE public.spots
		SET available_slots = LEAST(available_slots + 1, total_slots), updated_at = now()
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("release slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
