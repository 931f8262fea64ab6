package repository

import (
	"context"
	"testing"
	"time"

	"cryptidwatch/internal/models"
)

func TestSuppressionThreshold(t *testing.T) {
	accounts, sightings, discuss, flags := newDiscussFixture(t)
	ctx := context.Background()

	reporter := seedUser(t, accounts, "reporter")
	flagged := seedSighting(t, sightings, reporter.ID, models.CreatureVampire, time.Now())
	clean := seedSighting(t, sightings, reporter.ID, models.CreatureGhost, time.Now())

	flagIt := func(n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			user := seedUser(t, accounts, "flagger"+string(rune('a'+i)))
			_, err := flags.Create(ctx, FlagInput{
				ContentID:   flagged.ID,
				ContentType: models.FlagContentSighting,
				FlaggedBy:   user.ID,
				ReasonCode:  "spam",
			})
			if err != nil {
				t.Fatalf("create flag: %v", err)
			}
		}
	}

	// Two flags are not enough to hide it.
	flagIt(2)
	ids, err := flags.SuppressedSightingIDs(ctx)
	if err != nil {
		t.Fatalf("suppressed ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected nothing suppressed at 2 flags, got %v", ids)
	}
	posts, err := discuss.ListPosts(ctx, PostFilter{})
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("both sightings should be visible, got %d", len(posts))
	}

	// The third flag crosses the threshold.
	user := seedUser(t, accounts, "third_flagger")
	if _, err := flags.Create(ctx, FlagInput{
		ContentID:   flagged.ID,
		ContentType: models.FlagContentSighting,
		FlaggedBy:   user.ID,
		ReasonCode:  "spam",
	}); err != nil {
		t.Fatalf("third flag: %v", err)
	}

	ids, err = flags.SuppressedSightingIDs(ctx)
	if err != nil {
		t.Fatalf("suppressed ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != flagged.ID {
		t.Fatalf("expected %d suppressed, got %v", flagged.ID, ids)
	}

	posts, err = discuss.ListPosts(ctx, PostFilter{})
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 || posts[0].SightingID != clean.ID {
		t.Fatalf("suppressed sighting leaked into listing: %+v", posts)
	}

	visible, err := sightings.ListVisible(ctx)
	if err != nil {
		t.Fatalf("list visible: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != clean.ID {
		t.Fatalf("suppressed sighting leaked into sightings list: %+v", visible)
	}
}

func TestFlagValidation(t *testing.T) {
	accounts, sightings, discuss, flags := newDiscussFixture(t)
	ctx := context.Background()

	reporter := seedUser(t, accounts, "reporter")
	s := seedSighting(t, sightings, reporter.ID, models.CreatureDragon, time.Now())
	comment, err := discuss.AddComment(ctx, s.ID, reporter.ID, "roasted my barn")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}

	// Comments can be flagged too.
	flag, err := flags.Create(ctx, FlagInput{
		ContentID:   comment.ID,
		ContentType: models.FlagContentComment,
		FlaggedBy:   reporter.ID,
		ReasonCode:  "off_topic",
	})
	if err != nil {
		t.Fatalf("flag comment: %v", err)
	}
	if flag.Status != models.FlagStatusPending {
		t.Fatalf("expected pending status, got %q", flag.Status)
	}

	if _, err := flags.Create(ctx, FlagInput{
		ContentID:   9999,
		ContentType: models.FlagContentSighting,
		FlaggedBy:   reporter.ID,
		ReasonCode:  "spam",
	}); err == nil {
		t.Fatal("expected not found for missing content")
	}
	if _, err := flags.Create(ctx, FlagInput{
		ContentID:   s.ID,
		ContentType: "post",
		FlaggedBy:   reporter.ID,
		ReasonCode:  "spam",
	}); err == nil {
		t.Fatal("expected validation error for unknown content type")
	}
}
