package controllers

import (
	"net/http"
	"strconv"

	"hotel-booking/middleware"
	"hotel-booking/services"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms    *services.RoomService
	Bookings *services.BookingService
}

func NewRoomController(rooms *services.RoomService, bookings *services.BookingService) *RoomController {
	return &RoomController{Rooms: rooms, Bookings: bookings}
}

// ----------------------------------------------------
// POST /api/hotels/:id/rooms
// ----------------------------------------------------

func (ctrl *RoomController) Create(c *gin.Context) {
	hotelID, ok := utils.ParseIDParam(c, "id")
	if !ok {
		respondBadID(c, "hotel")
		return
	}
	var in services.RoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	room, err := ctrl.Rooms.Create(c.Request.Context(), middleware.CurrentUser(c), hotelID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// ----------------------------------------------------
// PATCH /api/rooms/:id
// ----------------------------------------------------

func (ctrl *RoomController) Update(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		respondBadID(c, "room")
		return
	}
	var in services.RoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	room, err := ctrl.Rooms.Update(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// DELETE /api/rooms/:id
// ----------------------------------------------------

func (ctrl *RoomController) Delete(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		respondBadID(c, "room")
		return
	}
	if err := ctrl.Rooms.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ----------------------------------------------------
// GET /api/rooms/:id/bookings
// ----------------------------------------------------

func (ctrl *RoomController) BookedRanges(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		respondBadID(c, "room")
		return
	}
	ranges, err := ctrl.Bookings.RoomBookedRanges(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ranges)
}

// ----------------------------------------------------
// GET /api/rooms/:id/availability?start=&end=
// ----------------------------------------------------

func (ctrl *RoomController) Availability(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		respondBadID(c, "room")
		return
	}
	start, end, ok := parseStay(c, c.Query("start"), c.Query("end"))
	if !ok {
		return
	}
	available, err := ctrl.Bookings.CheckAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"available": available})
}

// ----------------------------------------------------
// GET /api/rooms/:id/quote?start=&end=&breakfast=
// ----------------------------------------------------

func (ctrl *RoomController) Quote(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		respondBadID(c, "room")
		return
	}
	start, end, ok := parseStay(c, c.Query("start"), c.Query("end"))
	if !ok {
		return
	}
	breakfast, _ := strconv.ParseBool(c.DefaultQuery("breakfast", "false"))
	quote, err := ctrl.Bookings.QuoteStay(c.Request.Context(), id, start, end, breakfast)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}
