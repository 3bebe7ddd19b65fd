package opportunityController

import (
	"time"

	"portal/controllers"
	"portal/middleware"
	"portal/models"
	"portal/services"
	"portal/utils"
	"portal/validators"
	opportunityValidator "portal/validators/opportunity"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type Controller struct {
	opportunities *services.Opportunities
}

func New(svc *services.Services) *Controller {
	return &Controller{opportunities: svc.Opportunities}
}

// listing is an opportunity with its remaining days to apply.
type listing struct {
	models.Opportunity
	DaysLeft int `json:"daysLeft"`
}

func withDaysLeft(opportunity models.Opportunity, now time.Time) listing {
	return listing{Opportunity: opportunity, DaysLeft: utils.DaysLeft(opportunity.ApplicationDeadline, now)}
}

func (ctrl *Controller) List(c *fiber.Ctx) error {
	reqData, ok := c.Locals(opportunityValidator.ListKey).(*opportunityValidator.ListRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}

	page, err := ctrl.opportunities.List(c.UserContext(), services.OpportunityQuery{
		Category: models.Category(reqData.Category),
		Search:   reqData.Search,
		Page:     reqData.Page,
		Limit:    reqData.Limit,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	now := time.Now()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Opportunities fetched successfully!", fiber.Map{
		"opportunities": lo.Map(page.Items, func(o models.Opportunity, _ int) listing { return withDaysLeft(o, now) }),
		"total":         page.Total,
		"currentPage":   page.CurrentPage,
		"totalPages":    page.TotalPages,
	})
}

func (ctrl *Controller) Upcoming(c *fiber.Ctx) error {
	upcoming, err := ctrl.opportunities.UpcomingDeadlines(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Upcoming deadlines fetched successfully!", fiber.Map{
		"opportunities": upcoming,
	})
}

func (ctrl *Controller) Get(c *fiber.Ctx) error {
	opportunity, err := ctrl.opportunities.Get(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Opportunity fetched successfully!", withDaysLeft(*opportunity, time.Now()))
}

func input(reqData *opportunityValidator.OpportunityRequest) services.OpportunityInput {
	in := services.OpportunityInput{
		Title:              reqData.Title,
		Description:        reqData.Description,
		Category:           reqData.Category,
		Field:              reqData.Field,
		Provider:           reqData.Provider,
		Location:           reqData.Location,
		Eligibility:        reqData.Eligibility,
		Funding:            reqData.Funding,
		ApplicationProcess: reqData.ApplicationProcess,
		ApplyMethod:        reqData.ApplyMethod,
		DocumentsRequired:  reqData.DocumentsRequired,
		Contact:            reqData.Contact,
		Rating:             reqData.Rating,
		IsActive:           reqData.IsActive,
	}
	if reqData.ApplicationDeadline != nil {
		in.ApplicationDeadline = reqData.ApplicationDeadline.UTC()
	}
	return in
}

func (ctrl *Controller) Create(c *fiber.Ctx) error {
	reqData, ok := c.Locals(opportunityValidator.OpportunityKey).(*opportunityValidator.OpportunityRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	opportunity, err := ctrl.opportunities.Create(c.UserContext(), input(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Opportunity created successfully!", opportunity)
}

func (ctrl *Controller) Update(c *fiber.Ctx) error {
	reqData, ok := c.Locals(opportunityValidator.OpportunityKey).(*opportunityValidator.OpportunityRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	opportunity, err := ctrl.opportunities.Update(c.UserContext(), validators.ID(c, "id"), input(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Opportunity updated successfully!", opportunity)
}

func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	if err := ctrl.opportunities.Delete(c.UserContext(), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Opportunity removed", nil)
}
