package controllers

import (
	"net/http"

	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
)

type DraftPayload struct {
	RoomID            uint    `json:"roomId" binding:"required"`
	HotelID           uint    `json:"hotelId" binding:"required"`
	StartDate         string  `json:"startDate" binding:"required"`
	EndDate           string  `json:"endDate" binding:"required"`
	BreakfastIncluded bool    `json:"breakfastIncluded"`
	TotalPrice        float64 `json:"totalPrice"`
	PaymentIntentID   string  `json:"paymentIntentId"`
	ClientSecret      string  `json:"clientSecret"`
}

type DraftController struct {
	Drafts *services.DraftStore
}

func NewDraftController(drafts *services.DraftStore) *DraftController {
	return &DraftController{Drafts: drafts}
}

func (ctrl *DraftController) Get(c *gin.Context) {
	draft, err := ctrl.Drafts.Get(c.Request.Context(), middleware.CurrentUser(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if draft == nil {
		utils.JSONError(c, http.StatusNotFound, "error.draftNotFound", "No booking in progress")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, draft)
}

func (ctrl *DraftController) Put(c *gin.Context) {
	var payload DraftPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	start, end, ok := parseStay(c, payload.StartDate, payload.EndDate)
	if !ok {
		return
	}
	draft := &models.BookingDraft{
		UserID:            middleware.CurrentUser(c).UserID,
		RoomID:            payload.RoomID,
		HotelID:           payload.HotelID,
		StartDate:         start,
		EndDate:           end,
		BreakfastIncluded: payload.BreakfastIncluded,
		TotalPrice:        payload.TotalPrice,
		PaymentIntentID:   payload.PaymentIntentID,
		ClientSecret:      payload.ClientSecret,
	}
	if err := ctrl.Drafts.Save(c.Request.Context(), draft); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, draft)
}

func (ctrl *DraftController) Delete(c *gin.Context) {
	if err := ctrl.Drafts.Clear(c.Request.Context(), middleware.CurrentUser(c).UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
