package controller

import (
	"errors"
	"strconv"

	"spider_edu_backend/internal/service"
	"spider_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateProfileRequest 资料更新请求
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

// UpdateProfile godoc
// @Summary 更新用户资料
// @Description 更新昵称和个人简介，缺省字段不变。只有本人或管理员可以修改。
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body UpdateProfileRequest true "资料字段"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "没有权限修改此用户信息"
// @Router /api/v1/users/{id} [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的用户ID")
		return
	}
	if uint(id) != claims.UserID && !claims.IsSuperuser {
		util.Forbidden(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(uint(id), service.UserProfileUpdate{
		FullName: req.FullName,
		Bio:      req.Bio,
	})
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Description 上传当前用户头像图片，最大2MB
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "头像文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件缺失或过大"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/v1/users/me/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "请上传头像文件")
		return
	}
	if file.Size > 2<<20 {
		util.BadRequest(ctx, "头像文件不能超过2MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), claims.UserID,
		file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar_url": url})
}

// GetUser godoc
// @Summary 查看用户公开资料
// @Description 按ID查看用户的公开信息和在线状态
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/v1/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的用户ID")
		return
	}

	user, err := c.UserService.GetByID(uint(id))
	if err != nil {
		util.NotFound(ctx, util.ErrUserNotFound.Error())
		return
	}

	util.Success(ctx, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"full_name":  user.FullName,
		"avatar_url": user.AvatarURL,
		"bio":        user.Bio,
		"is_online":  service.IsOnline(user),
		"created_at": user.CreatedAt,
	})
}

// ListUsers godoc
// @Summary 用户列表
// @Description 管理员分页查看全部用户
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   skip query int false "跳过条数" default(0)
// @Param   limit query int false "返回条数" default(20)
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/v1/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	skip, _ := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	users, err := c.UserService.List(skip, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, users)
}
