package controller

import (
	"errors"
	"strconv"

	"spider_edu_backend/internal/model"
	"spider_edu_backend/internal/repository"
	"spider_edu_backend/internal/service"
	"spider_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	ExerciseService *service.ExerciseService
}

func NewExerciseController(exerciseService *service.ExerciseService) *ExerciseController {
	return &ExerciseController{ExerciseService: exerciseService}
}

// ListExercises godoc
// @Summary 题目列表
// @Description 分页浏览已发布的练习题目，支持难度筛选和关键词搜索
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   skip query int false "跳过条数" default(0)
// @Param   limit query int false "返回条数" default(20)
// @Param   difficulty query string false "难度" Enums(beginner, intermediate, advanced, hard, hell)
// @Param   search query string false "标题或描述关键词"
// @Param   sort_by query string false "排序字段" Enums(sort_order, points, difficulty)
// @Success 200 {object} util.Response{data=service.ExerciseList} "成功"
// @Router /api/v1/exercises [get]
func (c *ExerciseController) ListExercises(ctx *gin.Context) {
	skip, _ := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, err := c.ExerciseService.List(repository.ExerciseFilter{
		Skip:       skip,
		Limit:      limit,
		Difficulty: ctx.Query("difficulty"),
		Search:     ctx.Query("search"),
		SortBy:     ctx.Query("sort_by"),
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, list)
}

// GetExercise godoc
// @Summary 题目详情
// @Description 查看单个题目，未发布的题目仅管理员可见
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.Exercise} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/v1/exercises/{id} [get]
func (c *ExerciseController) GetExercise(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	claims := util.GetUserFromContext(ctx)
	isSuperuser := claims != nil && claims.IsSuperuser

	exercise, err := c.ExerciseService.Get(uint(id), isSuperuser)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, exercise)
}

// ExerciseRequest 题目创建与更新请求
// swagger:model ExerciseRequest
type ExerciseRequest struct {
	Title           string `json:"title" binding:"required,max=200"`
	Description     string `json:"description" binding:"required"`
	TargetURL       string `json:"target_url"`
	Difficulty      string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced hard hell"`
	Status          string `json:"status" binding:"omitempty,oneof=draft published archived"`
	ChallengePoints string `json:"challenge_points"`
	Tags            string `json:"tags"`
	Points          int    `json:"points"`
	TimeLimit       int    `json:"time_limit"`
	Hints           string `json:"hints"`
	Solution        string `json:"solution"`
	SortOrder       int    `json:"sort_order"`
}

// CreateExercise godoc
// @Summary 创建题目
// @Description 管理员创建新的练习题目
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ExerciseRequest true "题目内容"
// @Success 201 {object} util.Response{data=model.Exercise} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/v1/exercises [post]
func (c *ExerciseController) CreateExercise(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise := &model.Exercise{
		Title:           req.Title,
		Description:     req.Description,
		TargetURL:       req.TargetURL,
		Difficulty:      model.DifficultyLevel(req.Difficulty),
		Status:          model.ExerciseStatus(req.Status),
		ChallengePoints: req.ChallengePoints,
		Tags:            req.Tags,
		Points:          req.Points,
		TimeLimit:       req.TimeLimit,
		Hints:           req.Hints,
		Solution:        req.Solution,
		SortOrder:       req.SortOrder,
		CreatedBy:       claims.UserID,
	}

	if err := c.ExerciseService.Create(exercise); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, exercise)
}

// UpdateExercise godoc
// @Summary 更新题目
// @Description 管理员更新题目内容或状态
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body ExerciseRequest true "题目内容"
// @Success 200 {object} util.Response{data=model.Exercise} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "权限不足"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/v1/exercises/{id} [put]
func (c *ExerciseController) UpdateExercise(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	var req ExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ExerciseService.Update(uint(id), func(e *model.Exercise) {
		e.Title = req.Title
		e.Description = req.Description
		e.TargetURL = req.TargetURL
		if req.Difficulty != "" {
			e.Difficulty = model.DifficultyLevel(req.Difficulty)
		}
		if req.Status != "" {
			e.Status = model.ExerciseStatus(req.Status)
		}
		e.ChallengePoints = req.ChallengePoints
		e.Tags = req.Tags
		e.Points = req.Points
		e.TimeLimit = req.TimeLimit
		e.Hints = req.Hints
		if req.Solution != "" {
			e.Solution = req.Solution
		}
		e.SortOrder = req.SortOrder
	})
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, exercise)
}

// ExerciseStats godoc
// @Summary 题目统计
// @Description 已发布题目按难度的数量分布
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]repository.DifficultyCount} "成功"
// @Router /api/v1/exercises/stats [get]
func (c *ExerciseController) ExerciseStats(ctx *gin.Context) {
	stats, err := c.ExerciseService.CountByDifficulty()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
