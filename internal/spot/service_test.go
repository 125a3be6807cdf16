package spot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
)

type fakeSpotRepo struct {
	spots  map[string]*Spot
	nextID int

	// beforeUpdate runs at the start of Update, after the service has
	// already read the spot, to interleave concurrent counter traffic.
	beforeUpdate func()
}

func newFakeSpotRepo() *fakeSpotRepo {
	return &fakeSpotRepo{spots: make(map[string]*Spot)}
}

func (r *fakeSpotRepo) Create(_ context.Context, s *Spot) error {
	r.nextID++
	s.ID = fmt.Sprintf("spot-%d", r.nextID)
	cp := *s
	r.spots[s.ID] = &cp
	return nil
}

func (r *fakeSpotRepo) GetByID(_ context.Context, id string) (*Spot, error) {
	s, ok := r.spots[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSpotRepo) List(_ context.Context, _ Filter) ([]*Spot, int, error) {
	var out []*Spot
	for _, s := range r.spots {
		cp := *s
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeSpotRepo) ListWithin(_ context.Context, box BoundingBox) ([]*Spot, error) {
	var out []*Spot
	for _, s := range r.spots {
		if s.Latitude >= box.MinLat && s.Latitude <= box.MaxLat &&
			s.Longitude >= box.MinLng && s.Longitude <= box.MaxLng {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSpotRepo) Update(_ context.Context, s *Spot, slotsDelta int) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	stored, ok := r.spots[s.ID]
	if !ok {
		return ErrNotFound
	}
	// Mirror the SQL: every field comes from s except available_slots,
	// which is shifted from its stored value and clamped.
	available := stored.AvailableSlots + slotsDelta
	if available < 0 {
		available = 0
	}
	if available > s.TotalSlots {
		available = s.TotalSlots
	}
	cp := *s
	cp.AvailableSlots = available
	r.spots[s.ID] = &cp
	return nil
}

func (r *fakeSpotRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.spots[id]; !ok {
		return ErrNotFound
	}
	delete(r.spots, id)
	return nil
}

func (r *fakeSpotRepo) SetImageURL(_ context.Context, id, url string) error {
	s, ok := r.spots[id]
	if !ok {
		return ErrNotFound
	}
	s.ImageURL = &url
	return nil
}

func (r *fakeSpotRepo) ReserveSlot(_ context.Context, id string) (*Spot, error) {
	s, ok := r.spots[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.AvailableSlots <= 0 {
		return nil, ErrSlotsSoldOut
	}
	s.AvailableSlots--
	cp := *s
	return &cp, nil
}

func (r *fakeSpotRepo) ReleaseSlot(_ context.Context, id string) error {
	s, ok := r.spots[id]
	if !ok {
		return ErrNotFound
	}
	if s.AvailableSlots < s.TotalSlots {
		s.AvailableSlots++
	}
	return nil
}

func fullRate(v float64) *float64 { return &v }

func validSpotCreateRequest() CreateRequest {
	return CreateRequest{
		Name:        "Central Garage",
		ParkingType: "garage",
		Address: Address{
			FullAddress: "12 MG Road",
			Locality:    "Shivajinagar",
			Landmark:    "Opposite metro station",
			City:        "Bengaluru",
			State:       "Karnataka",
			Pincode:     "560001",
		},
		Latitude:   12.9766,
		Longitude:  77.5993,
		TotalSlots: 10,
		Pricing: Pricing{
			Currency:   "INR",
			HourlyRate: fullRate(50),
		},
	}
}

func TestCreateSpot(t *testing.T) {
	t.Run("new spot starts fully available", func(t *testing.T) {
		svc := NewService(newFakeSpotRepo())

		sp, err := svc.Create(context.Background(), validSpotCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, 10, sp.TotalSlots)
		assert.Equal(t, 10, sp.AvailableSlots)
	})

	t.Run("missing address fields named in error", func(t *testing.T) {
		svc := NewService(newFakeSpotRepo())

		req := validSpotCreateRequest()
		req.Address.City = ""
		req.Address.Pincode = ""

		_, err := svc.Create(context.Background(), req)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.ElementsMatch(t, []string{"city", "pincode"}, appErr.Fields)
	})

	t.Run("unknown parking type rejected", func(t *testing.T) {
		svc := NewService(newFakeSpotRepo())

		req := validSpotCreateRequest()
		req.ParkingType = "rooftop"

		_, err := svc.Create(context.Background(), req)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("negative rate rejected", func(t *testing.T) {
		svc := NewService(newFakeSpotRepo())

		req := validSpotCreateRequest()
		req.Pricing.DailyRate = fullRate(-1)

		_, err := svc.Create(context.Background(), req)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Contains(t, appErr.Message, "daily_rate")
	})

	t.Run("unknown amenity and vehicle type rejected", func(t *testing.T) {
		svc := NewService(newFakeSpotRepo())

		req := validSpotCreateRequest()
		req.Amenities = []string{"cctv", "helipad"}
		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)

		req = validSpotCreateRequest()
		req.AllowedVehicleTypes = []string{"cars", "scooters"}
		_, err = svc.Create(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestUpdateSpotResize(t *testing.T) {
	setup := func(t *testing.T, reserve int) (Service, string) {
		repo := newFakeSpotRepo()
		svc := NewService(repo)
		sp, err := svc.Create(context.Background(), validSpotCreateRequest())
		require.NoError(t, err)
		for i := 0; i < reserve; i++ {
			_, err := svc.ReserveSlot(context.Background(), sp.ID)
			require.NoError(t, err)
		}
		return svc, sp.ID
	}

	intp := func(v int) *int { return &v }

	t.Run("growing adds to available", func(t *testing.T) {
		svc, id := setup(t, 4) // 6 of 10 available

		sp, err := svc.Update(context.Background(), id, UpdateRequest{TotalSlots: intp(15)})
		require.NoError(t, err)
		assert.Equal(t, 15, sp.TotalSlots)
		assert.Equal(t, 11, sp.AvailableSlots)
	})

	t.Run("shrinking clamps available at zero", func(t *testing.T) {
		svc, id := setup(t, 8) // 2 of 10 available

		sp, err := svc.Update(context.Background(), id, UpdateRequest{TotalSlots: intp(3)})
		require.NoError(t, err)
		assert.Equal(t, 3, sp.TotalSlots)
		assert.Equal(t, 0, sp.AvailableSlots)
	})

	t.Run("negative total rejected", func(t *testing.T) {
		svc, id := setup(t, 0)

		_, err := svc.Update(context.Background(), id, UpdateRequest{TotalSlots: intp(-1)})
		assert.Error(t, err)
	})
}

func TestUpdateDoesNotClobberCounter(t *testing.T) {
	setup := func(t *testing.T) (Service, *fakeSpotRepo, string) {
		repo := newFakeSpotRepo()
		svc := NewService(repo)
		sp, err := svc.Create(context.Background(), validSpotCreateRequest())
		require.NoError(t, err)
		return svc, repo, sp.ID
	}

	strp := func(v string) *string { return &v }
	intp := func(v int) *int { return &v }

	t.Run("rename racing a reservation keeps the reserved slot", func(t *testing.T) {
		svc, repo, id := setup(t) // 10 of 10 available

		// A booking wins a slot between the service's read and the write.
		repo.beforeUpdate = func() {
			_, err := svc.ReserveSlot(context.Background(), id)
			require.NoError(t, err)
		}

		sp, err := svc.Update(context.Background(), id, UpdateRequest{Name: strp("Renamed Garage")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed Garage", sp.Name)
		assert.Equal(t, 9, sp.AvailableSlots)
	})

	t.Run("resize racing a reservation applies the delta to the live counter", func(t *testing.T) {
		svc, repo, id := setup(t) // 10 of 10 available

		repo.beforeUpdate = func() {
			_, err := svc.ReserveSlot(context.Background(), id)
			require.NoError(t, err)
		}

		sp, err := svc.Update(context.Background(), id, UpdateRequest{TotalSlots: intp(12)})
		require.NoError(t, err)
		assert.Equal(t, 12, sp.TotalSlots)
		// 9 live + delta of 2, not the stale 10 + 2.
		assert.Equal(t, 11, sp.AvailableSlots)
	})
}

func TestReserveAndReleaseSlot(t *testing.T) {
	repo := newFakeSpotRepo()
	svc := NewService(repo)

	req := validSpotCreateRequest()
	req.TotalSlots = 1
	sp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	reserved, err := svc.ReserveSlot(context.Background(), sp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reserved.AvailableSlots)

	_, err = svc.ReserveSlot(context.Background(), sp.ID)
	assert.ErrorIs(t, err, ErrSlotsSoldOut)

	require.NoError(t, svc.ReleaseSlot(context.Background(), sp.ID))
	// A second release must not push available past total.
	require.NoError(t, svc.ReleaseSlot(context.Background(), sp.ID))

	got, err := svc.GetByID(context.Background(), sp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableSlots)
}

func TestNearby(t *testing.T) {
	svc := NewService(newFakeSpotRepo())

	_, err := svc.Nearby(context.Background(), BoundingBox{MinLat: 10, MaxLat: 5})
	assert.Error(t, err)

	_, err = svc.Nearby(context.Background(), BoundingBox{MinLat: 5, MaxLat: 10, MinLng: 5, MaxLng: 10})
	assert.NoError(t, err)
}
