package lead

import (
	"github.com/shahkeval/lead-management-sub000/internal/common/api"
	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	"github.com/shahkeval/lead-management-sub000/internal/middleware"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type LeadController struct {
	LeadService LeadService
}

func NewLeadController(leadService LeadService) *LeadController {
	return &LeadController{
		LeadService: leadService,
	}
}

type LeadRequest struct {
	EmpID              string `json:"emp_id"`
	ClientName         string `json:"client_name" validate:"required"`
	ClientMobileNumber string `json:"client_mobile_number" validate:"required"`
	ClientEmail        string `json:"client_email" validate:"omitempty,email"`
	SourceOfInquiry    string `json:"source_of_inquiry"`
	CompanyName        string `json:"company_name"`
	LeadStatus         string `json:"lead_status" validate:"required"`
	DateTime           string `json:"date_time"`
}

func (req *LeadRequest) toInput() *LeadInput {
	return &LeadInput{
		EmpID:              req.EmpID,
		ClientName:         req.ClientName,
		ClientMobileNumber: req.ClientMobileNumber,
		ClientEmail:        req.ClientEmail,
		SourceOfInquiry:    req.SourceOfInquiry,
		CompanyName:        req.CompanyName,
		LeadStatus:         LeadStatus(req.LeadStatus),
		DateTime:           req.DateTime,
	}
}

// Create godoc
// @Summary      Create a lead with a generated sequential lead id
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        input body LeadRequest true "Lead Input"
// @Success      201 {object} map[string]interface{}
// @Router       /api/leads/add [post]
func (ctrl *LeadController) Create(c *fiber.Ctx) error {
	var req LeadRequest
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

	lead, err := ctrl.LeadService.CreateLead(c.Context(), claims, req.toInput())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"lead":    lead,
	})
}

// List godoc
// @Summary      List leads visible to the requester's role
// @Tags         leads
// @Produce      json
// @Param        page query int false "Page"
// @Param        limit query int false "Limit"
// @Param        search query string false "Search"
// @Param        filters query string false "JSON filter array"
// @Success      200 {object} map[string]interface{}
// @Router       /api/leads/get [get]
func (ctrl *LeadController) List(c *fiber.Ctx) error {
	return ctrl.list(c, false)
}

// ListOwn always scopes to the requester's own leads, regardless of role
// visibility.
func (ctrl *LeadController) ListOwn(c *fiber.Ctx) error {
	return ctrl.list(c, true)
}

func (ctrl *LeadController) list(c *fiber.Ctx, ownOnly bool) error {
	params, err := api.ParseListParams(c)
	if err != nil {
		return err
	}

	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	leads, total, err := ctrl.LeadService.ListLeads(c.Context(), claims, params, ownOnly)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"leads":       leads,
		"total":       total,
		"page":        params.Page,
		"total_pages": params.TotalPages(total),
	})
}

func (ctrl *LeadController) Get(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	lead, err := ctrl.LeadService.GetLead(c.Context(), claims, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"lead":    lead,
	})
}

func (ctrl *LeadController) Update(c *fiber.Ctx) error {
	var req LeadRequest
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

	lead, err := ctrl.LeadService.UpdateLead(c.Context(), claims, c.Params("id"), req.toInput())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"lead":    lead,
	})
}

func (ctrl *LeadController) Delete(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	if err := ctrl.LeadService.DeleteLead(c.Context(), claims, c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lead deleted",
	})
}

// Export godoc
// @Summary      Export visible leads as an XLSX workbook
// @Tags         leads
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} binary
// @Router       /api/leads/export [get]
func (ctrl *LeadController) Export(c *fiber.Ctx) error {
	params, err := api.ParseListParams(c)
	if err != nil {
		return err
	}

	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	data, filename, err := ctrl.LeadService.ExportLeads(c.Context(), claims, params)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
