package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-booking/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HotelService manages hotel listings. Only the owner may change a hotel.
type HotelService struct {
	DB *gorm.DB
}

func NewHotelService(db *gorm.DB) *HotelService {
	return &HotelService{DB: db}
}

type HotelInput struct {
	Title               string   `json:"title" binding:"required,min=3"`
	Description         string   `json:"description" binding:"required,min=10"`
	Image               string   `json:"image" binding:"required"`
	Country             string   `json:"country" binding:"required"`
	State               string   `json:"state"`
	City                string   `json:"city"`
	LocationDescription string   `json:"locationDescription" binding:"required,min=10"`
	Amenities           []string `json:"amenities"`
}

type HotelFilter struct {
	Title   string `form:"title"`
	Country string `form:"country"`
	State   string `form:"state"`
	City    string `form:"city"`
}

func amenitiesJSON(list []string) datatypes.JSON {
	if len(list) == 0 {
		return datatypes.JSON("[]")
	}
	clean := make([]string, 0, len(list))
	for _, a := range list {
		if a = strings.TrimSpace(a); a != "" {
			clean = append(clean, a)
		}
	}
	raw, _ := json.Marshal(clean)
	return datatypes.JSON(raw)
}

func (s *HotelService) Create(ctx context.Context, owner models.Identity, in HotelInput) (*models.Hotel, error) {
	if strings.TrimSpace(owner.UserID) == "" {
		return nil, newAuthorization("error.unauthenticated", "please sign in")
	}
	h := &models.Hotel{
		OwnerID:             owner.UserID,
		Title:               strings.TrimSpace(in.Title),
		Description:         strings.TrimSpace(in.Description),
		Image:               strings.TrimSpace(in.Image),
		Country:             strings.TrimSpace(in.Country),
		State:               strings.TrimSpace(in.State),
		City:                strings.TrimSpace(in.City),
		LocationDescription: strings.TrimSpace(in.LocationDescription),
		Amenities:           amenitiesJSON(in.Amenities),
	}
	if err := s.DB.WithContext(ctx).Create(h).Error; err != nil {
		return nil, newPersistence("failed to create hotel", err)
	}
	return h, nil
}

// List filters by exact location fields and a case-insensitive title match.
func (s *HotelService) List(ctx context.Context, f HotelFilter) ([]models.Hotel, error) {
	var list []models.Hotel
	q := s.DB.WithContext(ctx).Preload("Rooms")
	if t := strings.ToLower(strings.TrimSpace(f.Title)); t != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+t+"%")
	}
	if f.Country != "" {
		q = q.Where("country = ?", f.Country)
	}
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, newPersistence("failed to list hotels", err)
	}
	return list, nil
}

func (s *HotelService) Get(ctx context.Context, id uint) (*models.Hotel, error) {
	var h models.Hotel
	if err := s.DB.WithContext(ctx).Preload("Rooms").First(&h, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFound("error.hotelNotFound", "hotel not found")
		}
		return nil, newPersistence("failed to load hotel", err)
	}
	return &h, nil
}

func (s *HotelService) owned(ctx context.Context, owner models.Identity, id uint) (*models.Hotel, error) {
	if strings.TrimSpace(owner.UserID) == "" {
		return nil, newAuthorization("error.unauthenticated", "please sign in")
	}
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.OwnerID != owner.UserID {
		return nil, newForbidden("error.notHotelOwner", "only the hotel owner can change this hotel")
	}
	return h, nil
}

func (s *HotelService) Update(ctx context.Context, owner models.Identity, id uint, in HotelInput) (*models.Hotel, error) {
	h, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"title":                strings.TrimSpace(in.Title),
		"description":          strings.TrimSpace(in.Description),
		"image":                strings.TrimSpace(in.Image),
		"country":              strings.TrimSpace(in.Country),
		"state":                strings.TrimSpace(in.State),
		"city":                 strings.TrimSpace(in.City),
		"location_description": strings.TrimSpace(in.LocationDescription),
		"amenities":            amenitiesJSON(in.Amenities),
	}
	if err := s.DB.WithContext(ctx).Model(h).Updates(updates).Error; err != nil {
		return nil, newPersistence("failed to update hotel", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a hotel and its rooms unless a paid stay is still ahead.
func (s *HotelService) Delete(ctx context.Context, owner models.Identity, id uint) error {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNoUpcomingPaid(tx, "hotel_id = ?", id); err != nil {
			return err
		}
		if err := tx.Where("hotel_id = ?", id).Delete(&models.Room{}).Error; err != nil {
			return newPersistence("failed to delete rooms", err)
		}
		if err := tx.Delete(&models.Hotel{}, id).Error; err != nil {
			return newPersistence("failed to delete hotel", err)
		}
		return nil
	})
}

func ensureNoUpcomingPaid(tx *gorm.DB, where string, id uint) error {
	var count int64
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if err := tx.Model(&models.Booking{}).
		Where(where, id).
		Where("payment_status = ? AND end_date >= ?", true, today).
		Count(&count).Error; err != nil {
		return newPersistence("failed to check bookings", err)
	}
	if count > 0 {
		return newConflict("error.hasUpcomingBookings", fmt.Sprintf("cannot delete: %d paid booking(s) are still upcoming", count))
	}
	return nil
}
