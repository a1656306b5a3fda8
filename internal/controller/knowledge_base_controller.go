package controller

import (
	"errors"
	"strconv"

	"spider_edu_backend/internal/model"
	"spider_edu_backend/internal/service"
	"spider_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type KnowledgeBaseController struct {
	KBService *service.KnowledgeBaseService
}

func NewKnowledgeBaseController(kbService *service.KnowledgeBaseService) *KnowledgeBaseController {
	return &KnowledgeBaseController{KBService: kbService}
}

func (c *KnowledgeBaseController) handleKBError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrBankNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrWrongQuestionNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrSessionCompleted),
		errors.Is(err, util.ErrNotEnoughQuestions):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// ---- 题库 ----

// BankRequest 题库创建与更新请求
// swagger:model BankRequest
type BankRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// CreateBank godoc
// @Summary 创建题库
// @Tags 知识库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BankRequest true "题库信息"
// @Success 201 {object} util.Response{data=model.QuestionBank} "创建成功"
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/v1/knowledge/banks [post]
func (c *KnowledgeBaseController) CreateBank(ctx *gin.Context) {
	var req BankRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	bank := &model.QuestionBank{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := c.KBService.CreateBank(bank); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, bank)
}

// ListBanks godoc
// @Summary 题库列表
// @Description 全部可用题库，附带题目数量
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   skip query int false "跳过条数" default(0)
// @Param   limit query int false "返回条数" default(100)
// @Success 200 {object} util.Response{data=[]model.QuestionBank} "成功"
// @Router /api/v1/knowledge/banks [get]
func (c *KnowledgeBaseController) ListBanks(ctx *gin.Context) {
	skip, _ := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	banks, err := c.KBService.ListBanks(skip, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, banks)
}

// GetBank godoc
// @Summary 题库详情
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Success 200 {object} util.Response{data=model.QuestionBank} "成功"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/v1/knowledge/banks/{id} [get]
func (c *KnowledgeBaseController) GetBank(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题库ID")
		return
	}

	bank, err := c.KBService.GetBank(uint(id))
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, bank)
}

// UpdateBank godoc
// @Summary 更新题库
// @Tags 知识库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Param   body body BankRequest true "题库信息"
// @Success 200 {object} util.Response{data=model.QuestionBank} "成功"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/v1/knowledge/banks/{id} [put]
func (c *KnowledgeBaseController) UpdateBank(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题库ID")
		return
	}

	var req BankRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	bank, err := c.KBService.UpdateBank(uint(id), func(b *model.QuestionBank) {
		b.Name = req.Name
		b.Description = req.Description
	})
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, bank)
}

// DeleteBank godoc
// @Summary 删除题库
// @Description 软删除，题库置为不可用
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/v1/knowledge/banks/{id} [delete]
func (c *KnowledgeBaseController) DeleteBank(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题库ID")
		return
	}

	if err := c.KBService.DeleteBank(uint(id)); err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "题库已删除"})
}

// ---- 题目 ----

// QuestionRequest 题目创建与更新请求
// swagger:model QuestionRequest
type QuestionRequest struct {
	BankID      uint   `json:"bank_id" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=单选题 多选题 判断题 填空题 问答题"`
	Question    string `json:"question" binding:"required"`
	Options     string `json:"options"`
	Answer      string `json:"answer" binding:"required"`
	Explanation string `json:"explanation"`
	Score       int    `json:"score"`
	Difficulty  string `json:"difficulty" binding:"omitempty,oneof=简单 中等 困难"`
}

// CreateQuestion godoc
// @Summary 创建题目
// @Tags 知识库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body QuestionRequest true "题目内容"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/v1/knowledge/questions [post]
func (c *KnowledgeBaseController) CreateQuestion(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := &model.Question{
		BankID:      req.BankID,
		Type:        req.Type,
		Question:    req.Question,
		Options:     req.Options,
		Answer:      req.Answer,
		Explanation: req.Explanation,
		Score:       req.Score,
	}
	if req.Difficulty != "" {
		question.Difficulty = req.Difficulty
	}

	if err := c.KBService.CreateQuestion(question); err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// ListQuestions godoc
// @Summary 题库下的题目列表
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Param   skip query int false "跳过条数" default(0)
// @Param   limit query int false "返回条数" default(100)
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/v1/knowledge/banks/{id}/questions [get]
func (c *KnowledgeBaseController) ListQuestions(ctx *gin.Context) {
	bankID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题库ID")
		return
	}

	skip, _ := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	questions, err := c.KBService.ListQuestions(uint(bankID), skip, limit)
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 知识库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body QuestionRequest true "题目内容"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/v1/knowledge/questions/{id} [put]
func (c *KnowledgeBaseController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.KBService.UpdateQuestion(uint(id), func(q *model.Question) {
		q.Type = req.Type
		q.Question = req.Question
		q.Options = req.Options
		q.Answer = req.Answer
		q.Explanation = req.Explanation
		if req.Score > 0 {
			q.Score = req.Score
		}
		if req.Difficulty != "" {
			q.Difficulty = req.Difficulty
		}
	})
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Description 软删除，题目置为不可用
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/v1/knowledge/questions/{id} [delete]
func (c *KnowledgeBaseController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	if err := c.KBService.DeleteQuestion(uint(id)); err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "题目已删除"})
}

// ---- 考试与刷题 ----

// SetupExam godoc
// @Summary 开始考试
// @Description 按题型配比随机组卷并创建考试会话
// @Tags 知识库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ExamSetupInput true "组卷参数"
// @Success 201 {object} util.Response{data=model.ExamSession} "创建成功"
// @Failure 400 {object} util.Response "题目不足"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/v1/knowledge/exam/setup [post]
func (c *KnowledgeBaseController) SetupExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.ExamSetupInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.KBService.SetupExam(claims.UserID, input)
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// SetupPractice godoc
// @Summary 开始刷题
// @Description 创建覆盖题库全部题目的刷题会话，支持顺序、逆序、随机
// @Tags 知识库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.PracticeSetupInput true "刷题参数"
// @Success 201 {object} util.Response{data=model.ExamSession} "创建成功"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/v1/knowledge/practice/setup [post]
func (c *KnowledgeBaseController) SetupPractice(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.PracticeSetupInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.KBService.SetupPractice(claims.UserID, input)
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// GetSessionQuestions godoc
// @Summary 会话题目列表
// @Description 取会话要作答的题目，仅会话所有者可访问
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "会话ID"
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Failure 403 {object} util.Response "会话不属于当前用户"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/v1/knowledge/sessions/{sessionId}/questions [get]
func (c *KnowledgeBaseController) GetSessionQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	questions, err := c.KBService.SessionQuestions(claims.UserID, ctx.Param("sessionId"))
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// SubmitAnswer godoc
// @Summary 提交答题
// @Description 判分并记录，答错自动计入错题集，已结束的会话拒绝提交
// @Tags 知识库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "会话ID"
// @Param   body body service.AnswerInput true "答案"
// @Success 200 {object} util.Response{data=model.UserAnswer} "成功"
// @Failure 400 {object} util.Response "会话已结束"
// @Failure 403 {object} util.Response "会话不属于当前用户"
// @Failure 404 {object} util.Response "会话或题目不存在"
// @Router /api/v1/knowledge/sessions/{sessionId}/submit [post]
func (c *KnowledgeBaseController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.AnswerInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.KBService.SubmitAnswer(claims.UserID, ctx.Param("sessionId"), input)
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// CompleteSession godoc
// @Summary 结束会话
// @Description 结算考试或刷题会话并返回成绩，重复结束被拒绝
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "会话ID"
// @Success 200 {object} util.Response{data=service.ExamResult} "成功"
// @Failure 400 {object} util.Response "会话已结束"
// @Failure 403 {object} util.Response "会话不属于当前用户"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/v1/knowledge/sessions/{sessionId}/complete [post]
func (c *KnowledgeBaseController) CompleteSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.KBService.CompleteSession(claims.UserID, ctx.Param("sessionId"))
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ---- 错题集 ----

// ListWrongQuestions godoc
// @Summary 错题集
// @Description 当前用户未掌握的错题，可按题库过滤
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   bank_id query int false "题库ID"
// @Success 200 {object} util.Response{data=[]model.WrongQuestion} "成功"
// @Router /api/v1/knowledge/wrong-questions [get]
func (c *KnowledgeBaseController) ListWrongQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var bankID *uint
	if raw := ctx.Query("bank_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			util.BadRequest(ctx, "无效的题库ID")
			return
		}
		v := uint(id)
		bankID = &v
	}

	wrongs, err := c.KBService.ListWrongQuestions(claims.UserID, bankID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, wrongs)
}

// MasterWrongQuestion godoc
// @Summary 标记错题已掌握
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "错题记录ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "错题不属于当前用户"
// @Failure 404 {object} util.Response "错题不存在"
// @Router /api/v1/knowledge/wrong-questions/{id}/master [post]
func (c *KnowledgeBaseController) MasterWrongQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的错题ID")
		return
	}

	if err := c.KBService.MasterWrongQuestion(claims.UserID, uint(id)); err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "已标记为掌握"})
}

// DeleteWrongQuestion godoc
// @Summary 删除错题记录
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "错题记录ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "错题不属于当前用户"
// @Failure 404 {object} util.Response "错题不存在"
// @Router /api/v1/knowledge/wrong-questions/{id} [delete]
func (c *KnowledgeBaseController) DeleteWrongQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的错题ID")
		return
	}

	if err := c.KBService.DeleteWrongQuestion(claims.UserID, uint(id)); err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "错题已删除"})
}

// ---- 学习统计 ----

// GetUserStats godoc
// @Summary 学习统计总览
// @Description 当前用户跨题库的答题统计、正确率和错题数
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.UserStudyStats} "成功"
// @Router /api/v1/knowledge/stats [get]
func (c *KnowledgeBaseController) GetUserStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.KBService.UserStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// GetBankStats godoc
// @Summary 单题库学习统计
// @Tags 知识库
// @Produce  json
// @Security ApiKeyAuth
// @Param   bankId path int true "题库ID"
// @Success 200 {object} util.Response{data=model.StudyStats} "成功"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/v1/knowledge/stats/banks/{bankId} [get]
func (c *KnowledgeBaseController) GetBankStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	bankID, err := strconv.ParseUint(ctx.Param("bankId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题库ID")
		return
	}

	stats, err := c.KBService.BankStats(claims.UserID, uint(bankID))
	if err != nil {
		c.handleKBError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
