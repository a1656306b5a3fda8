package controller

import (
	"errors"

	"spider_edu_backend/internal/model"
	"spider_edu_backend/internal/service"
	"spider_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	// Cookie是否带Secure标记，生产环境开启
	CookieSecure bool
	CookieMaxAge int // 秒
}

func NewAuthController(authService *service.AuthService, cookieSecure bool, cookieMaxAge int) *AuthController {
	return &AuthController{
		AuthService:  authService,
		CookieSecure: cookieSecure,
		CookieMaxAge: cookieMaxAge,
	}
}

// RegisterRequest 注册请求
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// Register godoc
// @Summary 注册新用户
// @Description 使用用户名、邮箱和密码注册新账号
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名或邮箱已存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/v1/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	}

	if err := c.AuthService.Register(user); err != nil {
		if errors.Is(err, util.ErrUsernameTaken) || errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, 409, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID, "username": user.Username})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 验证用户身份，签发JWT并写入HttpOnly Cookie
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "用户登录凭据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, 401, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	// 登录态走HttpOnly Cookie，脚本读不到；token同时下发给非浏览器客户端
	ctx.SetCookie(util.AuthCookieName, token, c.CookieMaxAge, "/", "", c.CookieSecure, true)

	util.Success(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"email":        user.Email,
			"full_name":    user.FullName,
			"avatar_url":   user.AvatarURL,
			"is_superuser": user.IsSuperuser,
		},
	})
}

// Logout godoc
// @Summary 退出登录
// @Description 清除登录Cookie
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response "成功"
// @Router /api/v1/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(util.AuthCookieName, "", -1, "/", "", c.CookieSecure, true)
	util.Success(ctx, gin.H{"message": "已退出登录"})
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Description 获取当前已认证用户的个人资料
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/v1/auth/me [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, user)
}
