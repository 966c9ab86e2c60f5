package services

import (
	"context"
	"errors"
	"strings"

	"hotel-booking/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB     *gorm.DB
	Hotels *HotelService
}

func NewRoomService(db *gorm.DB, hotels *HotelService) *RoomService {
	return &RoomService{DB: db, Hotels: hotels}
}

type RoomInput struct {
	Title          string   `json:"title" binding:"required,min=3"`
	Description    string   `json:"description" binding:"required,min=10"`
	Image          string   `json:"image" binding:"required"`
	BedCount       int      `json:"bedCount" binding:"min=1"`
	BathroomCount  int      `json:"bathroomCount" binding:"min=1"`
	GuestCount     int      `json:"guestCount" binding:"min=1"`
	KingBed        int      `json:"kingBed" binding:"min=0"`
	QueenBed       int      `json:"queenBed" binding:"min=0"`
	RoomPrice      float64  `json:"roomPrice" binding:"required,gte=1"`
	BreakfastPrice *float64 `json:"breakfastPrice" binding:"omitempty,gte=0"`
	Amenities      []string `json:"amenities"`
}

func (in RoomInput) apply(r *models.Room) {
	r.Title = strings.TrimSpace(in.Title)
	r.Description = strings.TrimSpace(in.Description)
	r.Image = strings.TrimSpace(in.Image)
	r.BedCount = in.BedCount
	r.BathroomCount = in.BathroomCount
	r.GuestCount = in.GuestCount
	r.KingBed = in.KingBed
	r.QueenBed = in.QueenBed
	r.RoomPrice = in.RoomPrice
	r.BreakfastPrice = in.BreakfastPrice
	if r.BreakfastPrice != nil && *r.BreakfastPrice == 0 {
		r.BreakfastPrice = nil
	}
	r.Amenities = amenitiesJSON(in.Amenities)
}

func (s *RoomService) Create(ctx context.Context, owner models.Identity, hotelID uint, in RoomInput) (*models.Room, error) {
	if _, err := s.Hotels.owned(ctx, owner, hotelID); err != nil {
		return nil, err
	}
	room := &models.Room{HotelID: hotelID}
	in.apply(room)
	if err := s.DB.WithContext(ctx).Create(room).Error; err != nil {
		return nil, newPersistence("failed to create room", err)
	}
	return room, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFound("error.roomNotFound", "room not found")
		}
		return nil, newPersistence("failed to load room", err)
	}
	return &room, nil
}

func (s *RoomService) ownedRoom(ctx context.Context, owner models.Identity, id uint) (*models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Hotels.owned(ctx, owner, room.HotelID); err != nil {
		return nil, err
	}
	return room, nil
}

// Update changes listing fields. Rates apply to new intents only; existing
// bookings keep the total they were priced at.
func (s *RoomService) Update(ctx context.Context, owner models.Identity, id uint, in RoomInput) (*models.Room, error) {
	room, err := s.ownedRoom(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	in.apply(room)
	if err := s.DB.WithContext(ctx).Save(room).Error; err != nil {
		return nil, newPersistence("failed to update room", err)
	}
	return room, nil
}

func (s *RoomService) Delete(ctx context.Context, owner models.Identity, id uint) error {
	if _, err := s.ownedRoom(ctx, owner, id); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNoUpcomingPaid(tx, "room_id = ?", id); err != nil {
			return err
		}
		if err := tx.Delete(&models.Room{}, id).Error; err != nil {
			return newPersistence("failed to delete room", err)
		}
		return nil
	})
}
