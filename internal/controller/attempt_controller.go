package controller

import (
	"assessment_backend/internal/service"
	"assessment_backend/internal/util"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
	Sweeper        *service.ExpirySweeper
}

func NewAttemptController(attemptService *service.AttemptService, sweeper *service.ExpirySweeper) *AttemptController {
	return &AttemptController{
		AttemptService: attemptService,
		Sweeper:        sweeper,
	}
}

// Assign godoc
// @Summary 指派考试
// @Description 教师把已发布的考试指派给学生，生成 ASSIGNED 记录
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.AssignAttemptRequest true "指派信息"
// @Success 201 {object} util.Response{data=model.StudentAttempt} "创建成功"
// @Failure 400 {object} util.Response "考试未发布"
// @Failure 404 {object} util.Response "考试不存在"
// @Failure 409 {object} util.Response "已有未完成的作答记录"
// @Router /api/attempts [post]
func (c *AttemptController) Assign(ctx *gin.Context) {
	var req service.AssignAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.Assign(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrExamNotPublished):
			util.BadRequest(ctx, "考试尚未发布")
		case errors.Is(err, util.ErrAlreadyAssigned):
			util.Conflict(ctx, "该学生已有未完成的作答记录")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, attempt)
}

// Start godoc
// @Summary 开始作答
// @Description 学生进入考试，仅在考试窗口开放期间允许
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答记录ID"
// @Success 200 {object} util.Response{data=model.StudentAttempt} "成功"
// @Failure 400 {object} util.Response "窗口未开放或状态不允许"
// @Failure 403 {object} util.Response "非本人记录"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/attempts/{id}/start [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Start(claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound), errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotAttemptOwner):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrExamNotStartedYet):
			util.BadRequest(ctx, "考试尚未开始")
		case errors.Is(err, util.ErrExamEnded):
			util.BadRequest(ctx, "考试已结束")
		case errors.Is(err, util.ErrExamNotPublished):
			util.BadRequest(ctx, "考试尚未发布")
		case errors.Is(err, util.ErrInvalidTransition):
			util.Conflict(ctx, "当前状态不允许开始作答")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// Submit godoc
// @Summary 交卷
// @Description 学生提交作答；窗口已结束的迟到提交会被记为过期
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答记录ID"
// @Param   body body service.SubmitAttemptRequest true "交卷信息"
// @Success 200 {object} util.Response{data=model.StudentAttempt} "成功"
// @Failure 403 {object} util.Response "非本人记录"
// @Failure 404 {object} util.Response "记录不存在"
// @Failure 409 {object} util.Response "当前状态不允许交卷"
// @Router /api/attempts/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Submit(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound), errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotAttemptOwner):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrInvalidTransition):
			util.Conflict(ctx, "当前状态不允许交卷")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// Grade godoc
// @Summary 评分
// @Description 教师对已交卷或已过期的记录评分
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答记录ID"
// @Param   body body service.GradeAttemptRequest true "评分信息"
// @Success 200 {object} util.Response{data=model.StudentAttempt} "成功"
// @Failure 404 {object} util.Response "记录不存在"
// @Failure 409 {object} util.Response "当前状态不允许评分"
// @Router /api/attempts/{id}/grade [post]
func (c *AttemptController) Grade(ctx *gin.Context) {
	var req service.GradeAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.Grade(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidTransition):
			util.Conflict(ctx, "当前状态不允许评分")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// ListMy godoc
// @Summary 我的作答记录
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.StudentAttempt} "成功"
// @Router /api/attempts/my [get]
func (c *AttemptController) ListMy(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempts, err := c.AttemptService.ListForStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// GetMyForExam godoc
// @Summary 我在某考试下的最新作答记录
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   examId path string true "考试ID"
// @Success 200 {object} util.Response{data=model.StudentAttempt} "成功"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/attempts/my/exam/{examId} [get]
func (c *AttemptController) GetMyForExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.GetForStudent(claims.UserID, ctx.Param("examId"))
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, attempt)
}

// RunSweep godoc
// @Summary 手动触发过期清理
// @Description 管理端立即执行一轮过期清理，不等定时器
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/attempts/sweep [post]
func (c *AttemptController) RunSweep(ctx *gin.Context) {
	if err := c.Sweeper.Run(time.Now()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
