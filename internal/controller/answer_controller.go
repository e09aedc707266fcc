package controller

import (
	"assessment_backend/internal/service"
	"assessment_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	AnswerService *service.AnswerService
}

func NewAnswerController(answerService *service.AnswerService) *AnswerController {
	return &AnswerController{AnswerService: answerService}
}

// Upsert godoc
// @Summary 保存作答
// @Description 写入或覆盖某题的作答，仅限作答进行中
// @Tags 作答内容
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答记录ID"
// @Param   body body service.UpsertAnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=model.Answer} "成功"
// @Failure 403 {object} util.Response "非本人记录"
// @Failure 404 {object} util.Response "记录或题目不存在"
// @Failure 409 {object} util.Response "作答未在进行中"
// @Router /api/attempts/{id}/answers [put]
func (c *AnswerController) Upsert(ctx *gin.Context) {
	var req service.UpsertAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	answer, err := c.AnswerService.Upsert(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound), errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotAttemptOwner):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrAttemptNotActive):
			util.Conflict(ctx, "作答未在进行中")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, answer)
}

// ListForAttempt godoc
// @Summary 本次作答的全部答案
// @Tags 作答内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答记录ID"
// @Success 200 {object} util.Response{data=[]model.Answer} "成功"
// @Failure 403 {object} util.Response "非本人记录"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/attempts/{id}/answers [get]
func (c *AnswerController) ListForAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	answers, err := c.AnswerService.GetForAttempt(claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotAttemptOwner):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, answers)
}

// GetForQuestion godoc
// @Summary 某题的作答
// @Tags 作答内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答记录ID"
// @Param   questionId path string true "题目ID"
// @Success 200 {object} util.Response{data=model.Answer} "成功"
// @Failure 403 {object} util.Response "非本人记录"
// @Failure 404 {object} util.Response "未找到作答"
// @Router /api/attempts/{id}/answers/{questionId} [get]
func (c *AnswerController) GetForQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	answer, err := c.AnswerService.GetForQuestion(claims.UserID, ctx.Param("id"), ctx.Param("questionId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound), errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotAttemptOwner):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, answer)
}

// ListByExam godoc
// @Summary 某考试下全部作答
// @Description 教师端跨学生查看某考试的全部作答内容
// @Tags 作答内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "考试ID"
// @Success 200 {object} util.Response{data=[]model.Answer} "成功"
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/exams/{id}/answers [get]
func (c *AnswerController) ListByExam(ctx *gin.Context) {
	answers, err := c.AnswerService.ListByExam(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, answers)
}
