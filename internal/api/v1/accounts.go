package v1

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"cryptidwatch/internal/auth"
	"cryptidwatch/internal/repository"
	"cryptidwatch/pkg/utils"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

type registerRequest struct {
	Username         string `json:"username" validate:"required,username"`
	Email            string `json:"email" validate:"required,email,max=100"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	FirstName        string `json:"first_name" validate:"omitempty,max=60"`
	LastName         string `json:"last_name" validate:"omitempty,max=60"`
	AboutMe          string `json:"about_me" validate:"omitempty,max=2000"`
	Birthday         string `json:"birthday" validate:"omitempty"`
	SecurityQuestion string `json:"security_question" validate:"omitempty,max=255"`
	SecurityAnswer   string `json:"security_answer" validate:"omitempty,max=255"`
}

// Register creates a new account. The caller must be at least 13 years
// old; the 13th birthday itself is old enough.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	var birthday *time.Time
	if req.Birthday != "" {
		parsed, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return utils.HandleError(c, utils.ValidationError("Birthday must be in YYYY-MM-DD format"))
		}
		if !oldEnough(parsed, time.Now()) {
			return utils.HandleError(c, utils.ValidationError("You must be at least 13 years old to register"))
		}
		birthday = &parsed
	}

	user, err := h.Accounts.Register(c.UserContext(), repository.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		FullName:         strings.TrimSpace(req.FirstName + " " + req.LastName),
		AboutMe:          req.AboutMe,
		Birthday:         birthday,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// oldEnough reports whether someone born on birthday has had their 13th
// birthday as of now, comparing dates, not instants.
func oldEnough(birthday, now time.Time) bool {
	cutoff := birthday.AddDate(13, 0, 0)
	y1, m1, d1 := cutoff.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 <= d2
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a session token. Attempts are
// rate limited per client IP when a cache is configured.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if err := h.checkLoginRate(c); err != nil {
		return utils.HandleError(c, err)
	}

	var req loginRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	user, err := h.Accounts.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return utils.HandleError(c, err)
	}

	token, err := auth.GenerateSessionToken(user.ID)
	if err != nil {
		return utils.HandleError(c, utils.InternalError("Failed to issue token").WithCause(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func (h *Handlers) checkLoginRate(c *fiber.Ctx) error {
	if h.Cache == nil {
		return nil
	}
	ctx := c.UserContext()
	key := "login_attempts:" + c.IP()

	count, err := h.Cache.Incr(ctx, key).Result()
	if err != nil {
		h.Log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Login rate check failed")
		return nil
	}
	if count == 1 {
		h.Cache.Expire(ctx, key, loginAttemptWindow)
	}
	if count > loginAttemptLimit {
		return utils.NewError(fiber.StatusTooManyRequests, "Too many login attempts, try again later")
	}
	return nil
}

// Me returns the authenticated caller's account.
func (h *Handlers) Me(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	user, err := h.Accounts.GetByID(c.UserContext(), uid)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"last_login_at": user.LastLoginAt,
	})
}

// PublicUser returns the minimal public view of any account.
func (h *Handlers) PublicUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}
	user, err := h.Accounts.GetByID(c.UserContext(), id)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}

type forgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Forgot starts password recovery by returning the account's security
// question. Accounts without one look the same as missing accounts.
func (h *Handlers) Forgot(c *fiber.Ctx) error {
	var req forgotRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	question, err := h.Accounts.SecurityQuestion(c.UserContext(), req.Email)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"security_question": question})
}

type forgotVerifyRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Username       string `json:"username" validate:"required"`
	SecurityAnswer string `json:"security_answer" validate:"required"`
}

// ForgotVerify checks the recovery answer and hands out a short-lived
// reset-scoped token.
func (h *Handlers) ForgotVerify(c *fiber.Ctx) error {
	var req forgotVerifyRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	user, err := h.Accounts.VerifySecurityAnswer(c.UserContext(), req.Email, req.SecurityAnswer)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if user.Username != req.Username {
		return utils.HandleError(c, utils.AuthError("Incorrect answer"))
	}

	token, err := auth.GenerateResetToken(user.ID)
	if err != nil {
		return utils.HandleError(c, utils.InternalError("Failed to issue reset token").WithCause(err))
	}
	return c.JSON(fiber.Map{"reset_token": token})
}

type resetRequest struct {
	ResetToken     string `json:"reset_token" validate:"required"`
	SecurityAnswer string `json:"security_answer" validate:"required"`
	NewPassword    string `json:"new_password" validate:"required,min=8,max=72"`
}

// Reset finishes recovery: the reset token names the account, the answer
// is checked once more, and the new hash replaces the old one.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	var req resetRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	claims, err := auth.VerifyResetToken(req.ResetToken)
	if err != nil {
		return utils.HandleError(c, utils.AuthError("Invalid or expired reset token"))
	}
	uid, err := claims.UserID()
	if err != nil {
		return utils.HandleError(c, utils.AuthError("Invalid or expired reset token"))
	}

	user, err := h.Accounts.GetByID(c.UserContext(), uid)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if _, err := h.Accounts.VerifySecurityAnswer(c.UserContext(), user.Email, req.SecurityAnswer); err != nil {
		return utils.HandleError(c, err)
	}

	if err := h.Accounts.UpdatePassword(c.UserContext(), uid, req.NewPassword); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, utils.ValidationError("Invalid id parameter")
	}
	return uint(id), nil
}
