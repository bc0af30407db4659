package meeting

import (
	"github.com/shahkeval/lead-management-sub000/internal/common/api"
	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/internal/middleware"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type MeetingController struct {
	MeetingService MeetingService
}

func NewMeetingController(meetingService MeetingService) *MeetingController {
	return &MeetingController{
		MeetingService: meetingService,
	}
}

type MeetingRequest struct {
	Date          string `json:"date" validate:"required"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
	AttendeeName  string `json:"attendee_name" validate:"required"`
	RepresentorID string `json:"representor_name"`
	Agenda        string `json:"agenda"`
	Status        string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

func (req *MeetingRequest) toInput() *MeetingInput {
	return &MeetingInput{
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		AttendeeName:  req.AttendeeName,
		RepresentorID: req.RepresentorID,
		Agenda:        req.Agenda,
		Status:        common_models.Status(req.Status),
	}
}

// Create godoc
// @Summary      Schedule a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        input body MeetingRequest true "Meeting Input"
// @Success      201 {object} map[string]interface{}
// @Router       /api/meetings/add [post]
func (ctrl *MeetingController) Create(c *fiber.Ctx) error {
	var req MeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	meeting, err := ctrl.MeetingService.CreateMeeting(c.Context(), claims, req.toInput())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"meeting": meeting,
	})
}

// List godoc
// @Summary      List meetings visible to the requester's role
// @Tags         meetings
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /api/meetings/get [get]
func (ctrl *MeetingController) List(c *fiber.Ctx) error {
	return ctrl.list(c, false)
}

func (ctrl *MeetingController) ListOwn(c *fiber.Ctx) error {
	return ctrl.list(c, true)
}

func (ctrl *MeetingController) list(c *fiber.Ctx, ownOnly bool) error {
	params, err := api.ParseListParams(c)
	if err != nil {
		return err
	}

	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	meetings, total, err := ctrl.MeetingService.ListMeetings(c.Context(), claims, params, ownOnly)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"meetings":    meetings,
		"total":       total,
		"page":        params.Page,
		"total_pages": params.TotalPages(total),
	})
}

func (ctrl *MeetingController) Get(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	meeting, err := ctrl.MeetingService.GetMeeting(c.Context(), claims, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"meeting": meeting,
	})
}

func (ctrl *MeetingController) Update(c *fiber.Ctx) error {
	var req MeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	meeting, err := ctrl.MeetingService.UpdateMeeting(c.Context(), claims, c.Params("id"), req.toInput())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"meeting": meeting,
	})
}

func (ctrl *MeetingController) Delete(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	if err := ctrl.MeetingService.DeleteMeeting(c.Context(), claims, c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Meeting deleted",
	})
}

func (ctrl *MeetingController) Export(c *fiber.Ctx) error {
	params, err := api.ParseListParams(c)
	if err != nil {
		return err
	}

	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	data, filename, err := ctrl.MeetingService.ExportMeetings(c.Context(), claims, params)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
