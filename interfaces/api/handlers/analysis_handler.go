package handlers

import (
	"github.com/gofiber/fiber/v2"

	"todoai/domain/dto"
	"todoai/domain/services"
	"todoai/pkg/logger"
	"todoai/pkg/utils"
)

type AnalysisHandler struct {
	analysisService services.AnalysisService
}

func NewAnalysisHandler(analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// Analyze ตอบ 200 เสมอเมื่ออ่าน tasks ได้ (AI ล่มทั้งหมดจะได้ fallback)
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		logger.WarnContext(ctx, "Unauthorized access attempt")
		return utils.UnauthorizedResponse(c, "")
	}

	refresh := c.QueryBool("refresh", false)

	result, cached, err := h.analysisService.AnalyzeTasks(ctx, user.ID, refresh)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.AnalysisToAnalysisResponse(result, cached))
}
