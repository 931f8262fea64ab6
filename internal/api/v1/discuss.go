package v1

import (
	"github.com/gofiber/fiber/v2"

	"cryptidwatch/internal/auth"
	"cryptidwatch/internal/models"
	"cryptidwatch/internal/repository"
	"cryptidwatch/internal/storage"
	"cryptidwatch/pkg/utils"
)

// ListPosts serves the discussion board. Query params: creature (name,
// case-insensitive), location (substring), photos=1 to resolve image keys
// into presigned URLs.
func (h *Handlers) ListPosts(c *fiber.Ctx) error {
	var filter repository.PostFilter
	if name := c.Query("creature"); name != "" {
		id, ok := models.CreatureIDByName(name)
		if !ok {
			return utils.HandleError(c, utils.ValidationError("Unknown creature: "+name))
		}
		filter.CreatureID = id
	}
	filter.Location = c.Query("location")

	posts, err := h.Discuss.ListPosts(c.UserContext(), filter)
	if err != nil {
		return utils.HandleError(c, err)
	}

	if c.Query("photos") == "1" {
		withPhotos, err := h.attachPostPhotos(c, posts)
		if err != nil {
			return utils.HandleError(c, err)
		}
		return c.JSON(fiber.Map{"posts": withPhotos})
	}
	return c.JSON(fiber.Map{"posts": posts})
}

type postWithPhotos struct {
	repository.PostView
	PhotoURLs []string `json:"photo_urls"`
}

// attachPostPhotos resolves every post's image keys through the presigner.
// One failed key fails the whole listing; partial photo sets are worse
// than an honest 502.
func (h *Handlers) attachPostPhotos(c *fiber.Ctx, posts []repository.PostView) ([]postWithPhotos, error) {
	out := make([]postWithPhotos, 0, len(posts))
	for _, post := range posts {
		sighting, err := h.Sightings.Get(c.UserContext(), post.SightingID)
		if err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(sighting.Images))
		for _, img := range sighting.Images {
			keys = append(keys, img.ObjectKey)
		}
		urls, err := storage.PresignAll(c.UserContext(), h.Presigner, keys)
		if err != nil {
			return nil, err
		}
		out = append(out, postWithPhotos{PostView: post, PhotoURLs: urls})
	}
	return out, nil
}

type commentRequest struct {
	Comment string `json:"comment" validate:"required,min=1,max=2000"`
}

// AddComment attaches a comment to the sighting in :id. The author is the
// token holder.
func (h *Handlers) AddComment(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	sightingID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req commentRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	comment, err := h.Discuss.AddComment(c.UserContext(), sightingID, uid, req.Comment)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// Upvote casts an upvote on the sighting in :id.
func (h *Handlers) Upvote(c *fiber.Ctx) error {
	return h.vote(c, repository.VoteUp)
}

// Downvote casts a downvote on the sighting in :id.
func (h *Handlers) Downvote(c *fiber.Ctx) error {
	return h.vote(c, repository.VoteDown)
}

func (h *Handlers) vote(c *fiber.Ctx, direction string) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	sightingID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	result, err := h.Discuss.Vote(c.UserContext(), sightingID, uid, direction)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(result)
}
