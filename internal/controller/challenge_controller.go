package controller

import (
	"errors"
	"strconv"

	"spider_edu_backend/internal/service"
	"spider_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChallengeController struct {
	ChallengeService   *service.ChallengeService
	LeaderboardService *service.LeaderboardService
}

func NewChallengeController(challengeService *service.ChallengeService, leaderboardService *service.LeaderboardService) *ChallengeController {
	return &ChallengeController{
		ChallengeService:   challengeService,
		LeaderboardService: leaderboardService,
	}
}

func exerciseIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("exerciseId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return 0, false
	}
	return uint(id), true
}

func (c *ChallengeController) handleChallengeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, util.ErrExerciseNotFound):
		util.NotFound(ctx, util.ErrExerciseNotFound.Error())
	case errors.Is(err, util.ErrPageOutOfRange):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// GetChallenge godoc
// @Summary 挑战概览
// @Description 获取当前用户在某题下的挑战状态，首次访问自动开启挑战。
// @Description total_sum 为该用户数字表的期望总和，按需计算。
// @Tags 挑战
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "题目ID"
// @Success 200 {object} util.Response{data=service.ChallengeMeta} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/v1/challenges/{exerciseId} [get]
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exerciseID, ok := exerciseIDParam(ctx)
	if !ok {
		return
	}

	meta, err := c.ChallengeService.Meta(claims.UserID, exerciseID)
	if err != nil {
		c.handleChallengeError(ctx, err)
		return
	}

	util.Success(ctx, meta)
}

// GetChallengePage godoc
// @Summary 数字表分页
// @Description 获取该用户数字表的一页，共100页，每页10个数字。
// @Description 数字由用户与题目组合确定，刷新不变。
// @Tags 挑战
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "题目ID"
// @Param   pageNumber path int true "页码"
// @Success 200 {object} util.Response{data=service.ChallengePage} "成功"
// @Failure 400 {object} util.Response "页码超出范围"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/v1/challenges/{exerciseId}/page/{pageNumber} [get]
func (c *ChallengeController) GetChallengePage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exerciseID, ok := exerciseIDParam(ctx)
	if !ok {
		return
	}

	page, err := strconv.Atoi(ctx.Param("pageNumber"))
	if err != nil {
		util.BadRequest(ctx, util.ErrPageOutOfRange.Error())
		return
	}

	result, err := c.ChallengeService.Page(claims.UserID, exerciseID, page)
	if err != nil {
		c.handleChallengeError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetChallengeParams godoc
// @Summary 题目校验参数
// @Description 下发该题提交时要求携带的反爬校验参数，无校验要求的题目返回空对象
// @Tags 挑战
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "题目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/v1/challenges/{exerciseId}/params [get]
func (c *ChallengeController) GetChallengeParams(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exerciseID, ok := exerciseIDParam(ctx)
	if !ok {
		return
	}

	params, err := c.ChallengeService.PublicParams(claims.UserID, exerciseID)
	if err != nil {
		c.handleChallengeError(ctx, err)
		return
	}

	util.Success(ctx, params)
}

// SubmitRequest 答案提交请求
// swagger:model SubmitRequest
type SubmitRequest struct {
	ExerciseID uint `json:"exercise_id" binding:"required"`
	Answer     int  `json:"answer" binding:"required"`
	TimeSpent  int  `json:"time_spent" binding:"min=0"`
	// 题目要求的附加校验参数，如 timestamp 与 md5 签名
	Params map[string]interface{} `json:"params"`
}

// SubmitChallenge godoc
// @Summary 提交答案
// @Description 校验1000个数字的总和。首次答对记分并冻结完成状态，
// @Description 重复提交正确答案只返回确认，不会二次加分。
// @Tags 挑战
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitRequest true "答案"
// @Success 200 {object} util.Response{data=service.ChallengeSubmitResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/v1/challenges/submit [post]
func (c *ChallengeController) SubmitChallenge(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ChallengeService.Submit(claims.UserID, service.ChallengeSubmitInput{
		ExerciseID: req.ExerciseID,
		Answer:     req.Answer,
		TimeSpent:  req.TimeSpent,
		Payload:    req.Params,
	})
	if err != nil {
		c.handleChallengeError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetProgress godoc
// @Summary 用户进度
// @Description 当前用户已完成的挑战、总分和答题统计
// @Tags 挑战
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ChallengeProgress} "成功"
// @Router /api/v1/challenges/progress [get]
func (c *ChallengeController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ChallengeService.Progress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// GetLeaderboard godoc
// @Summary 排行榜
// @Description 按总分或完成数排名，附带荣誉称号
// @Tags 排行榜
// @Produce  json
// @Param   sort_by query string false "排序依据" Enums(score, solved) default(score)
// @Param   limit query int false "返回条数" default(50)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry} "成功"
// @Router /api/v1/challenges/leaderboard [get]
func (c *ChallengeController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	entries, err := c.LeaderboardService.Leaderboard(ctx.Request.Context(), ctx.DefaultQuery("sort_by", "score"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// GetRecentCompletions godoc
// @Summary 最近完成动态
// @Description 全站最近完成挑战的记录
// @Tags 排行榜
// @Produce  json
// @Param   limit query int false "返回条数" default(10)
// @Success 200 {object} util.Response{data=[]repository.RecentCompletionRow} "成功"
// @Router /api/v1/challenges/recent-completions [get]
func (c *ChallengeController) GetRecentCompletions(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	rows, err := c.LeaderboardService.RecentCompletions(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}
