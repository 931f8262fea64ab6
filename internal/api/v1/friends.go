package v1

import (
	"github.com/gofiber/fiber/v2"

	"cryptidwatch/internal/auth"
	"cryptidwatch/pkg/utils"
)

// ListFriends returns the caller's outbound friends.
func (h *Handlers) ListFriends(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	friends, err := h.Friends.List(c.UserContext(), uid)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"friends": friends})
}

// ToggleFriend adds the edge to :id when absent and removes it when
// present.
func (h *Handlers) ToggleFriend(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	friendID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	action, err := h.Friends.Toggle(c.UserContext(), uid, friendID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"action": action, "friend_id": friendID})
}
