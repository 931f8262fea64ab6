package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cryptidwatch/internal/models"
	"cryptidwatch/pkg/logger"
	"cryptidwatch/pkg/utils"
)

// Vote directions.
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// DiscussRepo serves the discussion board: sighting posts with their
// comments and vote tallies.
type DiscussRepo struct {
	DB    *gorm.DB
	Flags *FlagRepo
	Log   *logger.Logger
}

func NewDiscussRepo(db *gorm.DB, flags *FlagRepo, log *logger.Logger) *DiscussRepo {
	return &DiscussRepo{DB: db, Flags: flags, Log: log}
}

// CommentView is one comment with its author's username resolved.
type CommentView struct {
	CommentID uint      `json:"comment_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is one sighting as shown on the board.
type PostView struct {
	SightingID   uint          `json:"sighting_id"`
	UserID       uint          `json:"user_id"`
	Username     string        `json:"username"`
	CreatureID   int           `json:"creature_id"`
	CreatureName string        `json:"creature_name"`
	LocationName string        `json:"location_name"`
	Description  string        `json:"description"`
	SightingDate time.Time     `json:"sighting_date"`
	CreatedAt    time.Time     `json:"created_at"`
	Upvotes      int           `json:"upvotes"`
	Downvotes    int           `json:"downvotes"`
	Comments     []CommentView `json:"comments"`
}

// PostFilter narrows the board listing. Zero values mean no filter.
type PostFilter struct {
	CreatureID int
	Location   string
}

// ListPosts returns visible sightings newest first, each with comments and
// vote totals. Sightings at or past the suppression threshold never appear.
func (r *DiscussRepo) ListPosts(ctx context.Context, filter PostFilter) ([]PostView, error) {
	suppressed, err := r.Flags.SuppressedSightingIDs(ctx)
	if err != nil {
		return nil, err
	}

	type postRow struct {
		models.Sighting
		Username string
	}

	q := r.DB.WithContext(ctx).
		Table("sightings").
		Select("sightings.*, users.username").
		Joins("JOIN users ON users.id = sightings.user_id").
		Order("sightings.created_at DESC")
	if len(suppressed) > 0 {
		q = q.Where("sightings.id NOT IN ?", suppressed)
	}
	if filter.CreatureID != 0 {
		q = q.Where("sightings.creature_id = ?", filter.CreatureID)
	}
	if filter.Location != "" {
		q = q.Where("LOWER(sightings.location_name) LIKE ?", "%"+lower(filter.Location)+"%")
	}

	var rows []postRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, utils.InternalError("Failed to list posts").WithCause(err)
	}

	posts := make([]PostView, 0, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
		posts = append(posts, PostView{
			SightingID:   row.ID,
			UserID:       row.UserID,
			Username:     row.Username,
			CreatureID:   row.CreatureID,
			CreatureName: models.CreatureName(row.CreatureID),
			LocationName: row.LocationName,
			Description:  row.Description,
			SightingDate: row.SightingDate,
			CreatedAt:    row.CreatedAt,
			Comments:     []CommentView{},
		})
	}
	if len(posts) == 0 {
		return posts, nil
	}

	comments, err := r.commentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	votes, err := r.votesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		id := posts[i].SightingID
		if cs, ok := comments[id]; ok {
			posts[i].Comments = cs
		}
		if v, ok := votes[id]; ok {
			posts[i].Upvotes = v[0]
			posts[i].Downvotes = v[1]
		}
	}
	return posts, nil
}

func (r *DiscussRepo) commentsFor(ctx context.Context, sightingIDs []uint) (map[uint][]CommentView, error) {
	type commentRow struct {
		CommentView
		SightingID uint
	}
	var rows []commentRow
	err := r.DB.WithContext(ctx).
		Table("comments").
		Select("comments.id AS comment_id, comments.sighting_id, comments.user_id, users.username, comments.body, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.sighting_id IN ?", sightingIDs).
		Order("comments.created_at, comments.id").
		Scan(&rows).Error
	if err != nil {
		return nil, utils.InternalError("Failed to fetch comments").WithCause(err)
	}

	out := make(map[uint][]CommentView, len(sightingIDs))
	for _, row := range rows {
		out[row.SightingID] = append(out[row.SightingID], row.CommentView)
	}
	return out, nil
}

func (r *DiscussRepo) votesFor(ctx context.Context, sightingIDs []uint) (map[uint][2]int, error) {
	type voteRow struct {
		SightingID uint
		Up         int
		Down       int
	}
	var rows []voteRow
	err := r.DB.WithContext(ctx).
		Model(&models.VoteRecord{}).
		Select("sighting_id, SUM(upvote_count) AS up, SUM(downvote_count) AS down").
		Where("sighting_id IN ?", sightingIDs).
		Group("sighting_id").
		Scan(&rows).Error
	if err != nil {
		return nil, utils.InternalError("Failed to fetch votes").WithCause(err)
	}

	out := make(map[uint][2]int, len(rows))
	for _, row := range rows {
		out[row.SightingID] = [2]int{row.Up, row.Down}
	}
	return out, nil
}

// AddComment appends a comment to a sighting and bumps the author's
// comment counter.
func (r *DiscussRepo) AddComment(ctx context.Context, sightingID, userID uint, body string) (*models.Comment, error) {
	err := r.DB.WithContext(ctx).First(&models.Sighting{}, sightingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("Sighting not found")
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch sighting").WithCause(err)
	}

	comment := models.Comment{SightingID: sightingID, UserID: userID, Body: body}
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return utils.InternalError("Failed to create comment").WithCause(err)
		}
		return bumpStat(tx, userID, "comments_count", 1)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// VoteResult reports whether the cast landed or the user had already voted
// in that direction.
type VoteResult struct {
	Applied      bool `json:"applied"`
	AlreadyVoted bool `json:"already_voted"`
}

// Vote casts an up or down vote. The write is a single conditional upsert
// keyed on (sighting, user): the insert seeds the counter at one, and the
// conflict path only flips a zero counter to one. A second cast in the same
// direction touches no rows, so concurrent duplicates collapse to one vote.
func (r *DiscussRepo) Vote(ctx context.Context, sightingID, userID uint, direction string) (*VoteResult, error) {
	var column string
	switch direction {
	case VoteUp:
		column = "upvote_count"
	case VoteDown:
		column = "downvote_count"
	default:
		return nil, utils.ValidationError("Vote direction must be upvote or downvote")
	}

	err := r.DB.WithContext(ctx).First(&models.Sighting{}, sightingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("Sighting not found")
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch sighting").WithCause(err)
	}

	rec := models.VoteRecord{SightingID: sightingID, UserID: userID}
	if direction == VoteUp {
		rec.UpvoteCount = 1
	} else {
		rec.DownvoteCount = 1
	}

	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sighting_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{column: 1}),
		Where:     clause.Where{Exprs: []clause.Expression{gorm.Expr("vote_records." + column + " = 0")}},
	}).Create(&rec)
	if res.Error != nil {
		return nil, utils.InternalError("Failed to record vote").WithCause(res.Error)
	}

	if res.RowsAffected == 0 {
		return &VoteResult{AlreadyVoted: true}, nil
	}

	if direction == VoteUp {
		// Upvotes feed the sighting author's like counter.
		var owner uint
		if err := r.DB.WithContext(ctx).Model(&models.Sighting{}).
			Select("user_id").Where("id = ?", sightingID).Scan(&owner).Error; err == nil && owner != 0 {
			if err := bumpStat(r.DB.WithContext(ctx), owner, "like_count", 1); err != nil {
				r.Log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to bump like count")
			}
		}
	}

	r.Log.Info(ctx).
		WithMeta(utils.Map{"sighting_id": itoa(sightingID), "direction": direction}).
		Logs("Vote recorded")
	return &VoteResult{Applied: true}, nil
}
