package public

import (
	"github.com/dpit-cms/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCaptchaConfig 验证码公开配置
func (h *Handler) GetCaptchaConfig(c *gin.Context) {
	response.Success(c, h.CaptchaService.PublicSetting())
}

// GetImageCaptcha 生成图片验证码
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_unavailable")
		return
	}
	response.Success(c, challenge)
}
