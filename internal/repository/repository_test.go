package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/darkroom/internal/dbtest"
	"github.com/templui/darkroom/internal/model"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func createUser(t *testing.T, db *sqlx.DB, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, PasswordHash: "x", Approved: true, CreatedAt: base}
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createImage(t *testing.T, db *sqlx.DB, img *model.Image) *model.Image {
	t.Helper()
	if err := NewImageRepository(db).Create(context.Background(), img); err != nil {
		t.Fatalf("create image: %v", err)
	}
	return img
}

func ptr[T any](v T) *T { return &v }

func filenames(images []*model.ImageSummary) string {
	var names []string
	for _, img := range images {
		names = append(names, img.Filename)
	}
	return strings.Join(names, ",")
}

func TestGallerySortDateTakenNullsLast(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewImageRepository(db)

	createImage(t, db, &model.Image{Filename: "none.jpg", CreatedAt: base})
	createImage(t, db, &model.Image{Filename: "2020.jpg", DateTaken: &model.Date{Year: 2020, Month: 1, Day: 1}, CreatedAt: base.Add(time.Minute)})
	createImage(t, db, &model.Image{Filename: "2021.jpg", DateTaken: &model.Date{Year: 2021, Month: 1, Day: 1}, CreatedAt: base.Add(2 * time.Minute)})

	tests := []struct {
		order string
		want  string
	}{
		{"asc", "2020.jpg,2021.jpg,none.jpg"},
		{"desc", "2021.jpg,2020.jpg,none.jpg"},
	}

	for _, tt := range tests {
		images, err := repo.Gallery(ctx, GalleryQuery{Sort: SortDateTaken, Order: tt.order})
		if err != nil {
			t.Fatalf("gallery: %v", err)
		}
		if got := filenames(images); got != tt.want {
			t.Errorf("order=%s: got %s, want %s", tt.order, got, tt.want)
		}
	}
}

func TestGallerySortTitleAndTieBreaks(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewImageRepository(db)

	createImage(t, db, &model.Image{Filename: "untitled.jpg", CreatedAt: base.Add(3 * time.Minute)})
	createImage(t, db, &model.Image{Filename: "b-old.jpg", Title: ptr("B"), CreatedAt: base})
	createImage(t, db, &model.Image{Filename: "b-new.jpg", Title: ptr("B"), CreatedAt: base.Add(time.Minute)})
	createImage(t, db, &model.Image{Filename: "a.jpg", Title: ptr("A"), CreatedAt: base.Add(2 * time.Minute)})

	images, err := repo.Gallery(ctx, GalleryQuery{Sort: SortTitle, Order: "asc"})
	if err != nil {
		t.Fatalf("gallery: %v", err)
	}
	if got, want := filenames(images), "a.jpg,b-old.jpg,b-new.jpg,untitled.jpg"; got != want {
		t.Errorf("asc: got %s, want %s", got, want)
	}

	images, err = repo.Gallery(ctx, GalleryQuery{Sort: SortTitle, Order: "desc"})
	if err != nil {
		t.Fatalf("gallery: %v", err)
	}
	if got, want := filenames(images), "b-new.jpg,b-old.jpg,a.jpg,untitled.jpg"; got != want {
		t.Errorf("desc: got %s, want %s", got, want)
	}
}

func TestGalleryDefaultSortTieBreaksByID(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewImageRepository(db)

	// same creation time, newest id first in both directions
	createImage(t, db, &model.Image{Filename: "first.jpg", CreatedAt: base})
	createImage(t, db, &model.Image{Filename: "second.jpg", CreatedAt: base})
	createImage(t, db, &model.Image{Filename: "older.jpg", CreatedAt: base.Add(-time.Hour)})

	for _, sort := range []string{"", SortCreatedAt, "bogus; DROP TABLE images"} {
		images, err := repo.Gallery(ctx, GalleryQuery{Sort: sort})
		if err != nil {
			t.Fatalf("gallery: %v", err)
		}
		if got, want := filenames(images), "second.jpg,first.jpg,older.jpg"; got != want {
			t.Errorf("sort=%q: got %s, want %s", sort, got, want)
		}
	}

	images, err := repo.Gallery(ctx, GalleryQuery{Order: "ASC"})
	if err != nil {
		t.Fatalf("gallery: %v", err)
	}
	if got, want := filenames(images), "older.jpg,second.jpg,first.jpg"; got != want {
		t.Errorf("asc: got %s, want %s", got, want)
	}
}

func TestGalleryCountsAndViewerLike(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewImageRepository(db)
	likes := NewLikeRepository(db)
	comments := NewCommentRepository(db)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	popular := createImage(t, db, &model.Image{Filename: "popular.jpg", CreatedAt: base})
	createImage(t, db, &model.Image{Filename: "quiet.jpg", CreatedAt: base.Add(time.Minute)})

	// liking twice is a no-op
	for i := 0; i < 2; i++ {
		if err := likes.Like(ctx, alice.ID, popular.ID); err != nil {
			t.Fatalf("like: %v", err)
		}
	}
	if err := likes.Like(ctx, bob.ID, popular.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	for i := 0; i < 3; i++ {
		c := &model.Comment{ImageID: popular.ID, AuthorName: ptr("x"), Text: fmt.Sprint(i), CreatedAt: base}
		if err := comments.Create(ctx, c); err != nil {
			t.Fatalf("comment: %v", err)
		}
	}

	images, err := repo.Gallery(ctx, GalleryQuery{Sort: SortLikeCount, Order: "desc", ViewerID: &bob.ID})
	if err != nil {
		t.Fatalf("gallery: %v", err)
	}
	if got, want := filenames(images), "popular.jpg,quiet.jpg"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}

	top := images[0]
	if top.LikeCount != 2 || top.CommentCount != 3 {
		t.Errorf("popular: likes=%d comments=%d, want 2 and 3", top.LikeCount, top.CommentCount)
	}
	if top.UserLiked == nil || !*top.UserLiked {
		t.Errorf("popular: user_liked = %v, want true", top.UserLiked)
	}
	if images[1].UserLiked == nil || *images[1].UserLiked {
		t.Errorf("quiet: user_liked = %v, want false", images[1].UserLiked)
	}

	anon, err := repo.Gallery(ctx, GalleryQuery{})
	if err != nil {
		t.Fatalf("gallery: %v", err)
	}
	for _, img := range anon {
		if img.UserLiked != nil {
			t.Errorf("%s: user_liked present for anonymous viewer", img.Filename)
		}
	}

}

func TestGalleryLikeCountTieBreaksByCreatedAt(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewImageRepository(db)
	likes := NewLikeRepository(db)

	alice := createUser(t, db, "alice@example.com")

	// inserted newest first so id order disagrees with creation order
	newer := createImage(t, db, &model.Image{Filename: "newer.jpg", CreatedAt: base.Add(time.Hour)})
	older := createImage(t, db, &model.Image{Filename: "older.jpg", CreatedAt: base})
	createImage(t, db, &model.Image{Filename: "unliked.jpg", CreatedAt: base.Add(2 * time.Hour)})

	for _, img := range []*model.Image{newer, older} {
		if err := likes.Like(ctx, alice.ID, img.ID); err != nil {
			t.Fatalf("like: %v", err)
		}
	}

	tests := []struct {
		order string
		want  string
	}{
		{"desc", "newer.jpg,older.jpg,unliked.jpg"},
		{"asc", "unliked.jpg,older.jpg,newer.jpg"},
	}

	for _, tt := range tests {
		images, err := repo.Gallery(ctx, GalleryQuery{Sort: SortLikeCount, Order: tt.order})
		if err != nil {
			t.Fatalf("gallery: %v", err)
		}
		if got := filenames(images); got != tt.want {
			t.Errorf("order=%s: got %s, want %s", tt.order, got, tt.want)
		}
	}
}

func TestGalleryAlbumFilter(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	album := &model.Album{Name: "Trip", IsPublic: false, CreatedAt: base}
	if err := NewAlbumRepository(db).Create(ctx, album); err != nil {
		t.Fatalf("album: %v", err)
	}

	createImage(t, db, &model.Image{Filename: "in.jpg", AlbumID: &album.ID, CreatedAt: base})
	createImage(t, db, &model.Image{Filename: "out.jpg", CreatedAt: base})

	images, err := NewImageRepository(db).Gallery(ctx, GalleryQuery{AlbumID: &album.ID})
	if err != nil {
		t.Fatalf("gallery: %v", err)
	}
	if got := filenames(images); got != "in.jpg" {
		t.Fatalf("got %s, want in.jpg", got)
	}
	if images[0].AlbumPublic == nil || *images[0].AlbumPublic {
		t.Errorf("album_public = %v, want false", images[0].AlbumPublic)
	}
}

func TestBuildGalleryQueryPlaceholders(t *testing.T) {
	query, args := buildGalleryQuery(GalleryQuery{AlbumID: ptr(int64(7)), ViewerID: ptr(int64(3))})

	if len(args) != 2 || args[0] != int64(3) || args[1] != int64(7) {
		t.Fatalf("args = %v", args)
	}
	if !strings.Contains(query, "l.user_id = $1") || !strings.Contains(query, "i.album_id = $2") {
		t.Errorf("unexpected placeholders in %s", query)
	}

	query, args = buildGalleryQuery(GalleryQuery{})
	if len(args) != 0 || strings.Contains(query, "user_liked") {
		t.Errorf("anonymous query should not reference the viewer: %s", query)
	}
}

func TestUserDeleteLastUser(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	only := createUser(t, db, "only@example.com")

	err := users.Delete(ctx, only.ID)
	if !errors.Is(err, ErrLastUser) {
		t.Fatalf("delete last user = %v, want ErrLastUser", err)
	}

	count, err := users.Count(ctx)
	if err != nil || count != 1 {
		t.Errorf("count = %d, %v; want 1", count, err)
	}

	err = users.Delete(ctx, 9999)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("delete missing = %v, want ErrUserNotFound", err)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	images := NewImageRepository(db)

	keep := createUser(t, db, "keep@example.com")
	gone := createUser(t, db, "gone@example.com")

	img := createImage(t, db, &model.Image{Filename: "gone.jpg", UserID: &gone.ID, CreatedAt: base})
	if err := NewLikeRepository(db).Like(ctx, keep.ID, img.ID); err != nil {
		t.Fatal(err)
	}
	if err := NewCommentRepository(db).Create(ctx, &model.Comment{ImageID: img.ID, UserID: &gone.ID, Text: "hi", CreatedAt: base}); err != nil {
		t.Fatal(err)
	}

	if err := users.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := images.ByID(ctx, img.ID)
	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("image after delete = %v, want ErrImageNotFound", err)
	}
	if _, err := users.ByID(ctx, keep.ID); err != nil {
		t.Errorf("other user: %v", err)
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	db := dbtest.Open(t)
	createUser(t, db, "dup@example.com")

	err := NewUserRepository(db).Create(context.Background(), &model.User{Email: "dup@example.com", PasswordHash: "x", CreatedAt: base})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestAlbumDeleteOrphansImages(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	albums := NewAlbumRepository(db)

	album := &model.Album{Name: "Old", IsPublic: true, CreatedAt: base}
	if err := albums.Create(ctx, album); err != nil {
		t.Fatal(err)
	}
	img := createImage(t, db, &model.Image{Filename: "kept.jpg", AlbumID: &album.ID, CreatedAt: base})

	if err := albums.Delete(ctx, album.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := NewImageRepository(db).ByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	if got.AlbumID != nil {
		t.Errorf("album_id = %v, want nil", *got.AlbumID)
	}

	if err := albums.Delete(ctx, album.ID); !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("second delete = %v, want ErrAlbumNotFound", err)
	}
}

func TestImageVisibility(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewImageRepository(db)

	private := &model.Album{Name: "Private", IsPublic: false, CreatedAt: base}
	if err := NewAlbumRepository(db).Create(ctx, private); err != nil {
		t.Fatal(err)
	}
	createImage(t, db, &model.Image{Filename: "p.jpg", AlbumID: &private.ID, CreatedAt: base})
	createImage(t, db, &model.Image{Filename: "o.jpg", CreatedAt: base})

	v, err := repo.Visibility(ctx, "p.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if v.AlbumPublic == nil || *v.AlbumPublic {
		t.Errorf("p.jpg album_public = %v, want false", v.AlbumPublic)
	}

	v, err = repo.Visibility(ctx, "o.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if v.AlbumID != nil || v.AlbumPublic != nil {
		t.Errorf("orphan should have no album: %+v", v)
	}

	if _, err := repo.Visibility(ctx, "missing.jpg"); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("missing = %v, want ErrImageNotFound", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	sessions := NewSessionRepository(db)

	live := &model.Session{IsAdmin: true, ExpiresAt: time.Now().UTC().Add(time.Hour)}
	dead := &model.Session{IsAdmin: true, ExpiresAt: time.Now().UTC().Add(-time.Hour)}
	for _, s := range []*model.Session{live, dead} {
		if err := sessions.Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	got, err := sessions.ByID(ctx, live.ID)
	if err != nil || !got.IsAdmin || got.UserID != nil {
		t.Errorf("live session = %+v, %v", got, err)
	}

	if _, err := sessions.ByID(ctx, dead.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expired session = %v, want ErrSessionExpired", err)
	}
	if _, err := sessions.ByID(ctx, dead.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session is removed, got %v", err)
	}
}
