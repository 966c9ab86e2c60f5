package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type PaymentIntentPayload struct {
	RoomID            uint   `json:"roomId"`
	HotelID           uint   `json:"hotelId"`
	HotelOwnerID      string `json:"hotelOwnerId"`
	StartDate         string `json:"startDate" binding:"required"`
	EndDate           string `json:"endDate" binding:"required"`
	BreakfastIncluded bool   `json:"breakfastIncluded"`
	PaymentIntentID   string `json:"paymentIntentId"`
}

type ConfirmPaymentPayload struct {
	RoomID    uint   `json:"roomId"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	Bookings *services.BookingService
	Drafts   *services.DraftStore
	Export   *services.ExportService
	log      zerolog.Logger
}

func NewBookingController(bookings *services.BookingService, drafts *services.DraftStore, export *services.ExportService, log zerolog.Logger) *BookingController {
	return &BookingController{Bookings: bookings, Drafts: drafts, Export: export, log: log}
}

func parseStay(c *gin.Context, startRaw, endRaw string) (time.Time, time.Time, bool) {
	start, err := utils.ParseDate(startRaw)
	if err != nil {
		respondBadDate(c, err)
		return time.Time{}, time.Time{}, false
	}
	end, err := utils.ParseDate(endRaw)
	if err != nil {
		respondBadDate(c, err)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// ---------------------------
// POST /api/payment-intents
// ---------------------------

func (ctrl *BookingController) RequestIntent(c *gin.Context) {
	var payload PaymentIntentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	start, end, ok := parseStay(c, payload.StartDate, payload.EndDate)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	req := services.IntentRequest{
		User:              user,
		RoomID:            payload.RoomID,
		HotelID:           payload.HotelID,
		HotelOwnerID:      strings.TrimSpace(payload.HotelOwnerID),
		StartDate:         start,
		EndDate:           end,
		BreakfastIncluded: payload.BreakfastIncluded,
		PaymentIntentID:   strings.TrimSpace(payload.PaymentIntentID),
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if req.PaymentIntentID == "" {
		// a client that lost its state resumes the draft's intent for the same room
		if draft, err := ctrl.Drafts.Get(ctx, user.UserID); err != nil {
			ctrl.log.Warn().Err(err).Str("user_id", user.UserID).Msg("could not read booking draft")
		} else if draft != nil && draft.RoomID == payload.RoomID {
			req.PaymentIntentID = draft.PaymentIntentID
		}
	}

	res, err := ctrl.Bookings.RequestIntent(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	draft := &models.BookingDraft{
		UserID:            user.UserID,
		RoomID:            payload.RoomID,
		HotelID:           payload.HotelID,
		StartDate:         start,
		EndDate:           end,
		BreakfastIncluded: payload.BreakfastIncluded,
		TotalPrice:        res.Booking.TotalPrice,
		PaymentIntentID:   res.PaymentIntentID,
		ClientSecret:      res.ClientSecret,
	}
	if err := ctrl.Drafts.Save(ctx, draft); err != nil {
		ctrl.log.Warn().Err(err).Str("user_id", user.UserID).Msg("could not save booking draft")
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	utils.JSONSuccess(c, status, res)
}

// ---------------------------
// PATCH /api/bookings/:intentId/confirm
// ---------------------------

func (ctrl *BookingController) ConfirmPayment(c *gin.Context) {
	var payload ConfirmPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	start, end, ok := parseStay(c, payload.StartDate, payload.EndDate)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	res, err := ctrl.Bookings.ConfirmPayment(c.Request.Context(), services.ConfirmRequest{
		RoomID:          payload.RoomID,
		StartDate:       start,
		EndDate:         end,
		PaymentIntentID: strings.TrimSpace(c.Param("intentId")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctrl.Drafts.Clear(c.Request.Context(), user.UserID); err != nil {
		ctrl.log.Warn().Err(err).Str("user_id", user.UserID).Msg("could not clear booking draft")
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// GET /api/bookings/mine
func (ctrl *BookingController) MyBookings(c *gin.Context) {
	list, err := ctrl.Bookings.UserBookings(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/bookings/owner
func (ctrl *BookingController) OwnerBookings(c *gin.Context) {
	list, err := ctrl.Bookings.OwnerBookings(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/bookings/owner/export
func (ctrl *BookingController) ExportOwnerBookings(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctrl.Export.WriteOwnerBookings(c.Request.Context(), middleware.CurrentUser(c), &buf); err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
