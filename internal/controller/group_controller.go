package controller

import (
	"assessment_backend/internal/service"
	"assessment_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

// CreateGroup godoc
// @Summary 创建学生分组
// @Tags 分组
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.GroupRequest true "分组信息"
// @Success 201 {object} util.Response{data=model.StudentGroup} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req service.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	group, err := c.GroupService.CreateGroup(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, group)
}

// ListGroups godoc
// @Summary 分组列表
// @Tags 分组
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/groups [get]
func (c *GroupController) ListGroups(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	groups, total, err := c.GroupService.ListGroups(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  groups,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// AddMember godoc
// @Summary 添加组成员
// @Tags 分组
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "分组ID"
// @Param   body body service.AddMemberRequest true "成员信息"
// @Success 201 {object} util.Response{data=model.GroupMember} "创建成功"
// @Failure 404 {object} util.Response "分组不存在"
// @Failure 409 {object} util.Response "学生已在组内"
// @Router /api/groups/{id}/members [post]
func (c *GroupController) AddMember(ctx *gin.Context) {
	var req service.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	member, err := c.GroupService.AddMember(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGroupNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyMember):
			util.Conflict(ctx, "该学生已在组内")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, member)
}

// ListMembers godoc
// @Summary 组成员列表
// @Tags 分组
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "分组ID"
// @Success 200 {object} util.Response{data=[]model.GroupMember} "成功"
// @Failure 404 {object} util.Response "分组不存在"
// @Router /api/groups/{id}/members [get]
func (c *GroupController) ListMembers(ctx *gin.Context) {
	members, err := c.GroupService.ListMembers(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, members)
}

type GroupAssignRequest struct {
	ExamID string `json:"examId" binding:"required"`
}

// AssignExam godoc
// @Summary 按组指派考试
// @Description 把已发布的考试指派给组内全部成员，已有未完成记录的成员跳过
// @Tags 分组
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "分组ID"
// @Param   body body GroupAssignRequest true "考试信息"
// @Success 200 {object} util.Response{data=service.GroupAssignResult} "成功"
// @Failure 400 {object} util.Response "考试未发布"
// @Failure 404 {object} util.Response "分组或考试不存在"
// @Router /api/groups/{id}/assign [post]
func (c *GroupController) AssignExam(ctx *gin.Context) {
	var req GroupAssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GroupService.AssignExam(ctx.Param("id"), req.ExamID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGroupNotFound), errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrExamNotPublished):
			util.BadRequest(ctx, "考试尚未发布")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
