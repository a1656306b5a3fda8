package controller

import (
	"errors"
	"strconv"

	"spider_edu_backend/internal/service"
	"spider_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudyNoteController struct {
	NoteService *service.StudyNoteService
}

func NewStudyNoteController(noteService *service.StudyNoteService) *StudyNoteController {
	return &StudyNoteController{NoteService: noteService}
}

func noteIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的笔记ID")
		return 0, false
	}
	return uint(id), true
}

// CreateNote godoc
// @Summary 创建学习笔记
// @Description 创建富文本学习笔记，纯文本摘要由服务端生成
// @Tags 笔记
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.StudyNoteInput true "笔记内容"
// @Success 201 {object} util.Response{data=model.StudyNote} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/v1/notes [post]
func (c *StudyNoteController) CreateNote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.StudyNoteInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	note, err := c.NoteService.Create(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, note)
}

// ListNotes godoc
// @Summary 笔记列表
// @Description 分页查看当前用户的笔记，按更新时间倒序
// @Tags 笔记
// @Produce  json
// @Security ApiKeyAuth
// @Param   skip query int false "跳过条数" default(0)
// @Param   limit query int false "返回条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/v1/notes [get]
func (c *StudyNoteController) ListNotes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	skip, _ := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	notes, total, err := c.NoteService.List(claims.UserID, skip, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  notes,
		Total: total,
		Page:  skip/limit + 1,
		Limit: limit,
	})
}

// GetNote godoc
// @Summary 笔记详情
// @Description 查看笔记内容并累计浏览次数，仅作者可见
// @Tags 笔记
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "笔记ID"
// @Success 200 {object} util.Response{data=model.StudyNote} "成功"
// @Failure 404 {object} util.Response "笔记不存在"
// @Router /api/v1/notes/{id} [get]
func (c *StudyNoteController) GetNote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := noteIDParam(ctx)
	if !ok {
		return
	}

	note, err := c.NoteService.Get(claims.UserID, id)
	if err != nil {
		if errors.Is(err, util.ErrNoteNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, note)
}

// UpdateNote godoc
// @Summary 更新笔记
// @Description 更新笔记标题、内容或可见性，仅作者可操作
// @Tags 笔记
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "笔记ID"
// @Param   body body service.StudyNoteInput true "笔记内容"
// @Success 200 {object} util.Response{data=model.StudyNote} "成功"
// @Failure 404 {object} util.Response "笔记不存在"
// @Router /api/v1/notes/{id} [put]
func (c *StudyNoteController) UpdateNote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := noteIDParam(ctx)
	if !ok {
		return
	}

	var input service.StudyNoteInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	note, err := c.NoteService.Update(claims.UserID, id, input)
	if err != nil {
		if errors.Is(err, util.ErrNoteNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, note)
}

// DeleteNote godoc
// @Summary 删除笔记
// @Description 删除当前用户的笔记
// @Tags 笔记
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "笔记ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "笔记不存在"
// @Router /api/v1/notes/{id} [delete]
func (c *StudyNoteController) DeleteNote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := noteIDParam(ctx)
	if !ok {
		return
	}

	if err := c.NoteService.Delete(claims.UserID, id); err != nil {
		if errors.Is(err, util.ErrNoteNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "笔记已删除"})
}
